package notes

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/logging"
)

// ContentLoader is the part of Loader the controller depends on.
type ContentLoader interface {
	Load(ctx context.Context, id string) Result
}

// State is a snapshot of the selection and the content loaded for it.
type State struct {
	Selection  string `json:"id"`
	Label      string `json:"label"`
	Route      string `json:"route"`
	Result     Result `json:"result"`
	Generation uint64 `json:"generation"`
}

// Controller owns the selected identifier and drives loads for it.
//
// Every Select bumps a generation counter and cancels the previous load.
// A load publishes its result only if its generation is still current, so
// the last requested selection always wins regardless of completion order.
type Controller struct {
	loader   ContentLoader
	resolver Resolver
	logger   *zap.SugaredLogger

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	subs   map[int]chan State
	nextID int
	closed bool
}

// NewController returns a controller whose initial selection is the home
// sentinel. No load starts until Select is called. Loads stop when ctx is
// done or Close is called.
func NewController(ctx context.Context, loader ContentLoader, resolver Resolver, logger *zap.SugaredLogger) *Controller {
	cctx, stop := context.WithCancel(ctx)
	return &Controller{
		loader:   loader,
		resolver: resolver,
		logger:   logging.OrNop(logger),
		ctx:      cctx,
		stop:     stop,
		state: State{
			Selection: "",
			Label:     resolver.Label(""),
			Route:     resolver.Route(""),
			Result:    Pending(),
		},
		subs: make(map[int]chan State),
	}
}

// Select makes id the current selection and starts loading it. Unknown
// identifiers are forwarded as is; the loader reports the failure.
func (c *Controller) Select(id string) {
	id = Normalize(id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	gen := c.state.Generation + 1
	c.state = State{
		Selection:  id,
		Label:      c.resolver.Label(id),
		Route:      c.resolver.Route(id),
		Result:     Pending(),
		Generation: gen,
	}
	c.publishLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		res := c.loader.Load(ctx, id)
		c.complete(gen, res)
	}()
}

// complete applies res if gen is still the current generation.
func (c *Controller) complete(gen uint64, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.state.Generation {
		c.logger.Debugw("discarding stale load", "generation", gen, "current", c.state.Generation)
		return
	}
	c.state.Result = res
	c.publishLocked()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel receiving every state change and a function
// that ends the subscription. The channel holds only the newest state: a
// slow reader may skip intermediate states but always sees the latest one.
// The current state is delivered immediately.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.closed {
		close(ch)
	} else {
		c.subs[id] = ch
		ch <- c.state
	}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// publishLocked hands the current state to every subscriber, replacing any
// state they have not read yet. c.mu must be held.
func (c *Controller) publishLocked() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.state
	}
}

// Close cancels in-flight loads, waits for them and closes every
// subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stop()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	c.wg.Wait()
}
