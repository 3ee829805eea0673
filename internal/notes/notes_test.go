package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Smart Contracts", "Smart Contracts"},
		{"Smart%20Contracts", "Smart%20Contracts"},
		{"  Intro ", "Intro"},
		{"Growth 5%2B", "Growth 5%2B"},
		{"100%", "100%"},
		{"Rollups", "Rollups"},
		{"rollups", "rollups"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestFromPathSegment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Smart%20Contracts", "Smart Contracts"},
		{"%20Intro%20", "Intro"},
		{"Growth%205%252B", "Growth 5%2B"},
		{"Growth%205%2B", "Growth 5+"},
		{"100%", "100%"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromPathSegment(tt.in), "FromPathSegment(%q)", tt.in)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	r := NewResolver("docs", DefaultHome)
	for _, id := range []string{"Smart Contracts", "Growth 5%2B", "C++", "100%", "Intro"} {
		route := r.Route(id)
		assert.Equal(t, id, FromPathSegment(strings.TrimPrefix(route, "/")), "route %q", route)
	}
}

func TestPercentSequencesAreVerbatim(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docs/Growth 5%2B.md", []byte("# Growth"), 0o644))
	r := NewResolver("docs", DefaultHome)

	p, err := r.ResourcePath("Growth 5%2B")
	require.NoError(t, err)
	assert.Equal(t, "docs/Growth 5%2B.md", p)
	assert.Equal(t, "/Growth%205%252B", r.Route("Growth 5%2B"))
	assert.Equal(t, "Growth 5%2B", r.Label("Growth 5%2B"))

	res := NewLoader(NewFSSource(fs), r).Load(t.Context(), "Growth 5%2B")
	assert.Equal(t, Ready("# Growth"), res)
}

func TestSameIdentifier(t *testing.T) {
	assert.True(t, SameIdentifier("Smart Contracts", " Smart Contracts "))
	assert.False(t, SameIdentifier("Smart Contracts", "Smart%20Contracts"))
	assert.True(t, SameIdentifier("Intro", " Intro"))
	assert.False(t, SameIdentifier("Intro", "intro"))
}

func TestResolver(t *testing.T) {
	r := NewResolver("", Home{})

	assert.Equal(t, "About", r.Label(""))
	assert.Equal(t, "my_notes", r.ResourceName(""))
	assert.Equal(t, "/", r.Route(""))

	assert.Equal(t, "Smart Contracts", r.Label(" Smart Contracts"))
	assert.Equal(t, "/Smart%20Contracts", r.Route("Smart Contracts"))

	p, err := r.ResourcePath("Smart Contracts")
	require.NoError(t, err)
	assert.Equal(t, "docs/Smart Contracts.md", p)

	p, err = r.ResourcePath("")
	require.NoError(t, err)
	assert.Equal(t, "docs/my_notes.md", p)
}

func TestResolverHomeLabelIsNotResource(t *testing.T) {
	r := NewResolver("docs", Home{Resource: "welcome", Label: "About"})
	p, err := r.ResourcePath("")
	require.NoError(t, err)
	assert.Equal(t, "docs/welcome.md", p)
	assert.Equal(t, "About", r.Label(""))

	// Selecting "About" explicitly is an ordinary note, not the home page.
	p, err = r.ResourcePath("About")
	require.NoError(t, err)
	assert.Equal(t, "docs/About.md", p)
}

func TestResourcePathRejectsTraversal(t *testing.T) {
	r := NewResolver("docs", DefaultHome)
	for _, id := range []string{"..", ".", "../secret", "a/b", `a\b`, "x\x00"} {
		_, err := r.ResourcePath(id)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "id %q", id)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "", Failed(errors.New("x")).Body())
	assert.Equal(t, "", Pending().Body())
	assert.Equal(t, "# hi", Ready("# hi").Body())
}

func TestStatusJSON(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReady, StatusFailed} {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		var back Status
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back)
	}
	var s Status
	assert.Error(t, json.Unmarshal([]byte(`"done"`), &s))
}

func newMemSite(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func TestLoaderReadyWithExactBytes(t *testing.T) {
	body := "# Smart Contracts\n\nSelf-executing code.\r\n\ttrailing  \n"
	fs := newMemSite(t, map[string]string{"docs/Smart Contracts.md": body})
	l := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome), WithLogger(zaptest.NewLogger(t).Sugar()))

	res := l.Load(t.Context(), "Smart Contracts")
	assert.Equal(t, StatusReady, res.Status)
	assert.Equal(t, body, res.Text)
}

func TestLoaderHomeUsesDefaultResource(t *testing.T) {
	fs := newMemSite(t, map[string]string{
		"docs/my_notes.md": "home",
		"docs/About.md":    "not home",
	})
	l := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))

	res := l.Load(t.Context(), "")
	assert.Equal(t, Ready("home"), res)
}

func TestLoaderMissingFileFails(t *testing.T) {
	fs := newMemSite(t, nil)
	l := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))

	res := l.Load(t.Context(), "Nope")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, res.Body())
	assert.ErrorIs(t, res.Err, ErrNotFound)
}

func TestLoaderInvalidIdentifierFails(t *testing.T) {
	fs := newMemSite(t, map[string]string{"secret.md": "x"})
	l := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))

	res := l.Load(t.Context(), "../secret")
	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, ErrInvalidIdentifier)
}

func TestHTTPSource(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		switch r.URL.Path {
		case "/site/docs/Smart Contracts.md":
			w.Write([]byte("# SC"))
		case "/site/docs/Broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/site", srv.Client())
	require.NoError(t, err)
	l := NewLoader(src, NewResolver("docs", DefaultHome))

	res := l.Load(t.Context(), "Smart Contracts")
	assert.Equal(t, Ready("# SC"), res)
	assert.Equal(t, "/site/docs/Smart%20Contracts.md", gotPath)

	res = l.Load(t.Context(), "Missing")
	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, ErrNotFound)

	res = l.Load(t.Context(), "Broken")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, res.Body())
}

func TestHTTPSourceRefusesOversizeDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/Exact.md":
			w.Write([]byte(strings.Repeat("a", maxDocumentBytes)))
		case "/docs/Huge.md":
			w.Write([]byte(strings.Repeat("a", maxDocumentBytes+1)))
		}
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, srv.Client())
	require.NoError(t, err)

	data, err := src.Fetch(t.Context(), "docs/Exact.md")
	require.NoError(t, err)
	assert.Len(t, data, maxDocumentBytes)

	_, err = src.Fetch(t.Context(), "docs/Huge.md")
	assert.ErrorIs(t, err, ErrTooLarge)

	res := NewLoader(src, NewResolver("docs", DefaultHome)).Load(t.Context(), "Huge")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, res.Body())
}

func TestHTTPSourceRejectsBadScheme(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com", nil)
	assert.Error(t, err)
}

func TestLoaderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, srv.Client())
	require.NoError(t, err)
	l := NewLoader(src, NewResolver("docs", DefaultHome), WithTimeout(50*time.Millisecond))

	res := l.Load(t.Context(), "Slow")
	assert.Equal(t, StatusFailed, res.Status)
}

// gatedLoader blocks each load until the test releases it and ignores
// cancellation, so completions can arrive in any order.
type gatedLoader struct {
	gates map[string]chan Result
}

func newGatedLoader(ids ...string) *gatedLoader {
	g := &gatedLoader{gates: make(map[string]chan Result)}
	for _, id := range ids {
		g.gates[id] = make(chan Result, 1)
	}
	return g
}

func (g *gatedLoader) Load(_ context.Context, id string) Result {
	return <-g.gates[id]
}

func (g *gatedLoader) release(id string, res Result) {
	g.gates[id] <- res
}

// waitFor reads states until cond holds or the deadline passes.
func waitFor(t *testing.T, ch <-chan State, cond func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-ch:
			require.True(t, ok, "subscription closed")
			if cond(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
		}
	}
}

func TestControllerInitialState(t *testing.T) {
	c := NewController(t.Context(), newGatedLoader(), NewResolver("docs", DefaultHome), nil)
	defer c.Close()

	s := c.State()
	assert.Equal(t, "", s.Selection)
	assert.Equal(t, "About", s.Label)
	assert.Equal(t, "/", s.Route)
	assert.Equal(t, uint64(0), s.Generation)
}

func TestControllerSelectLoads(t *testing.T) {
	fs := newMemSite(t, map[string]string{"docs/Smart Contracts.md": "# SC"})
	loader := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))
	c := NewController(t.Context(), loader, loader.Resolver(), zaptest.NewLogger(t).Sugar())
	defer c.Close()

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.Select(" Smart Contracts ")
	s := waitFor(t, states, func(s State) bool { return s.Result.Status != StatusPending })

	assert.Equal(t, "Smart Contracts", s.Selection)
	assert.Equal(t, "/Smart%20Contracts", s.Route)
	assert.Equal(t, Ready("# SC"), s.Result)
}

func TestControllerUnknownIdentifierFails(t *testing.T) {
	fs := newMemSite(t, nil)
	loader := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))
	c := NewController(t.Context(), loader, loader.Resolver(), nil)
	defer c.Close()

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.Select("Does Not Exist")
	s := waitFor(t, states, func(s State) bool { return s.Generation == 1 && s.Result.Status != StatusPending })
	assert.Equal(t, StatusFailed, s.Result.Status)
	assert.Empty(t, s.Result.Body())
}

func TestControllerLastRequestedWins(t *testing.T) {
	orders := map[string][]string{
		"newest first": {"c", "b", "a"},
		"oldest first": {"a", "b", "c"},
		"interleaved":  {"b", "c", "a"},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			loader := newGatedLoader("a", "b", "c")
			c := NewController(t.Context(), loader, NewResolver("docs", DefaultHome), nil)
			defer c.Close()

			states, unsubscribe := c.Subscribe()
			defer unsubscribe()

			c.Select("a")
			c.Select("b")
			c.Select("c")

			for _, id := range order {
				loader.release(id, Ready("content of "+id))
			}

			s := waitFor(t, states, func(s State) bool { return s.Result.Status == StatusReady })
			assert.Equal(t, "c", s.Selection)
			assert.Equal(t, "content of c", s.Result.Text)
			assert.Equal(t, uint64(3), s.Generation)

			// Late stale completions never overwrite the final state.
			time.Sleep(20 * time.Millisecond)
			final := c.State()
			assert.Equal(t, "c", final.Selection)
			assert.Equal(t, "content of c", final.Result.Text)
		})
	}
}

func TestControllerStaleFailureDoesNotClearNewContent(t *testing.T) {
	loader := newGatedLoader("a", "b")
	c := NewController(t.Context(), loader, NewResolver("docs", DefaultHome), nil)
	defer c.Close()

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.Select("a")
	c.Select("b")
	loader.release("b", Ready("b"))
	waitFor(t, states, func(s State) bool { return s.Result.Status == StatusReady })

	loader.release("a", Failed(errors.New("boom")))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Ready("b"), c.State().Result)
}

func TestControllerReselectRetries(t *testing.T) {
	fs := newMemSite(t, nil)
	loader := NewLoader(NewFSSource(fs), NewResolver("docs", DefaultHome))
	c := NewController(t.Context(), loader, loader.Resolver(), nil)
	defer c.Close()

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	c.Select("Intro")
	s := waitFor(t, states, func(s State) bool { return s.Generation == 1 && s.Result.Status != StatusPending })
	assert.Equal(t, StatusFailed, s.Result.Status)

	require.NoError(t, afero.WriteFile(fs, "docs/Intro.md", []byte("now here"), 0o644))
	c.Select("Intro")
	s = waitFor(t, states, func(s State) bool { return s.Generation == 2 && s.Result.Status != StatusPending })
	assert.Equal(t, Ready("now here"), s.Result)
}

func TestControllerCloseEndsSubscriptions(t *testing.T) {
	loader := newGatedLoader("a")
	c := NewController(t.Context(), loader, NewResolver("docs", DefaultHome), nil)

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()
	<-states

	c.Select("a")
	loader.release("a", Ready("a"))
	c.Close()

	for range states {
	}

	// Select after Close is a no-op.
	c.Select("a")
	_, ok := <-states
	assert.False(t, ok)
}
