package notes

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/logging"
)

// Loader resolves an identifier to its resource and fetches it. It never
// retries; a new Load call is the only retry.
type Loader struct {
	source   Source
	resolver Resolver
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout bounds each Load. Zero disables the bound.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithLogger sets the diagnostic logger for fetch failures.
func WithLogger(logger *zap.SugaredLogger) LoaderOption {
	return func(l *Loader) { l.logger = logging.OrNop(logger) }
}

// NewLoader returns a Loader reading from source.
func NewLoader(source Source, resolver Resolver, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   source,
		resolver: resolver,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolver returns the resolver used for paths, labels and routes.
func (l *Loader) Resolver() Resolver { return l.resolver }

// Load fetches the document for id. It returns Ready with the exact bytes
// or Failed; it never returns Pending. Missing files, network errors, bad
// statuses and timeouts are all Failed and are logged, not surfaced.
func (l *Loader) Load(ctx context.Context, id string) Result {
	resource, err := l.resolver.ResourcePath(id)
	if err != nil {
		l.logger.Warnw("refusing note identifier", "id", id, "error", err)
		return Failed(err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := l.source.Fetch(ctx, resource)
	if errors.Is(err, context.Canceled) {
		l.logger.Debugw("load cancelled", "id", id, "resource", resource)
		return Failed(err)
	}
	if err != nil {
		l.logger.Warnw("error loading markdown", "id", id, "resource", resource, "error", err)
		return Failed(err)
	}

	l.logger.Debugw("loaded markdown", "id", id, "resource", resource, "bytes", len(data), "duration", time.Since(start))
	return Ready(string(data))
}
