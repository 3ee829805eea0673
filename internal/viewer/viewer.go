// Package viewer serves the notes shell: the rendered page, the JSON API,
// the theme endpoints and the live selection channel.
package viewer

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/logging"
	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
	"github.com/notesview/notesview/internal/render"
	"github.com/notesview/notesview/internal/theme"
)

// ClientCookie holds the id under which a browser's preferences are kept.
const ClientCookie = "notesview_client"

const clientCookieMaxAge = 400 * 24 * time.Hour

// Options configures a Viewer.
type Options struct {
	Title    string
	Table    nav.Table
	Loader   notes.ContentLoader
	Resolver notes.Resolver
	Renderer *render.Renderer
	Themes   *theme.Service
	// Docs is the filesystem served under /docs/. Nil when notes come from
	// a remote content URL.
	Docs   afero.Fs
	Logger *zap.SugaredLogger
}

// Viewer holds the handlers of the notes shell.
type Viewer struct {
	title    string
	table    nav.Table
	loader   notes.ContentLoader
	resolver notes.Resolver
	renderer *render.Renderer
	themes   *theme.Service
	docs     afero.Fs
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

// New creates a Viewer.
func New(opts Options) *Viewer {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New("")
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewService(theme.NewMemoryStore(), opts.Logger)
	}
	return &Viewer{
		title:    opts.Title,
		table:    opts.Table,
		loader:   opts.Loader,
		resolver: opts.Resolver,
		renderer: renderer,
		themes:   themes,
		docs:     opts.Docs,
		logger:   logging.OrNop(opts.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes mounts all viewer routes onto the given router.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	r.Get("/static/*", v.handleStatic)
	if v.docs != nil {
		r.Handle("/docs/*", v.docsHandler())
	}
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/api/nav", v.handleNav)
	r.Get("/api/notes", v.handleNote)
	r.Get("/api/notes/{noteID}", v.handleNote)
	r.Get("/ws/select", v.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(v.withClient)
		r.Get("/api/theme", v.handleGetTheme)
		r.Put("/api/theme", v.handlePutTheme)
		r.Post("/theme", v.handleToggleTheme)
		r.Get("/", v.handlePage)
		r.Get("/{noteID}", v.handlePage)
	})
}

type clientKey struct{}

// withClient makes sure every request carries a client id, issuing a new
// cookie when the browser has none.
func (v *Viewer) withClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(ClientCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, id)))
	})
}

// clientID returns the id set by withClient.
func clientID(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}
