package viewer

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"

	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
	"github.com/notesview/notesview/internal/theme"
)

// noteResponse is the JSON form of a loaded note.
type noteResponse struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Route  string       `json:"route"`
	Status notes.Status `json:"status"`
	HTML   string       `json:"html"`
}

// navResponse is the JSON response for the nav endpoint.
type navResponse struct {
	Title  string     `json:"title"`
	Home   noteRef    `json:"home"`
	Topics []navTopic `json:"topics"`
}

type noteRef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Route string `json:"route"`
}

type navTopic struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Subpages []string `json:"subpages"`
}

// themeRequest is the JSON body for PUT /api/theme.
type themeRequest struct {
	Theme string `json:"theme"`
}

// load fetches and renders id. A document that fails to render is treated
// like one that failed to load.
func (v *Viewer) load(r *http.Request, id string) (notes.Result, template.HTML) {
	res := v.loader.Load(r.Context(), id)
	return res, v.renderResult(id, res)
}

func (v *Viewer) renderResult(id string, res notes.Result) template.HTML {
	if res.Status != notes.StatusReady {
		return ""
	}
	doc, err := v.renderer.Render([]byte(res.Text))
	if err != nil {
		v.logger.Warnw("error rendering markdown", "id", id, "error", err)
		return ""
	}
	return doc.HTML
}

func (v *Viewer) noteResponse(id string, res notes.Result, html template.HTML) noteResponse {
	return noteResponse{
		ID:     id,
		Label:  v.resolver.Label(id),
		Route:  v.resolver.Route(id),
		Status: res.Status,
		HTML:   string(html),
	}
}

// noteParam reads the identifier from the route. chi matches against the
// escaped path when the request carried escapes that Path cannot
// reproduce, and against the decoded path otherwise; either way the
// identifier is decoded exactly once.
func noteParam(r *http.Request) string {
	param := chi.URLParam(r, "noteID")
	if r.URL.RawPath != "" {
		return notes.FromPathSegment(param)
	}
	return notes.Normalize(param)
}

func (v *Viewer) handlePage(w http.ResponseWriter, r *http.Request) {
	id := noteParam(r)
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	route := v.resolver.Route(id)

	res, html := v.load(r, id)
	resolution := v.themes.Get(r.Context(), clientID(r.Context()), theme.SystemPreference(r))

	page := NewPage(PageInput{
		SiteTitle: v.title,
		Resolver:  v.resolver,
		Selection: id,
		Result:    res,
		Content:   html,
		Theme:     resolution,
		AssetBase: "/",
		HomeHref:  "/",
		Query:     query,
		Sidebar: BuildSidebar(SidebarInput{
			Table:     v.table,
			Selection: id,
			Open:      nav.ParseExpanded(q.Get("open")),
			Query:     query,
			Href:      v.resolver.Route,
			ToggleHref: func(open nav.Expanded) string {
				return openQuery(route, open, query)
			},
		}),
	})

	var buf bytes.Buffer
	if err := WritePage(&buf, page); err != nil {
		v.logger.Errorw("rendering page", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	setThemeHeaders(w.Header())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (v *Viewer) handleNav(w http.ResponseWriter, r *http.Request) {
	entries := v.table.Filter(r.URL.Query().Get("q"))
	topics := make([]navTopic, 0, len(entries))
	for _, e := range entries {
		topics = append(topics, navTopic{Index: e.Index, Name: e.Topic.Name, Subpages: e.Topic.Subpages})
	}
	writeJSON(w, http.StatusOK, navResponse{
		Title: v.title,
		Home: noteRef{
			ID:    "",
			Label: v.resolver.Label(""),
			Route: v.resolver.Route(""),
		},
		Topics: topics,
	})
}

func (v *Viewer) handleNote(w http.ResponseWriter, r *http.Request) {
	id := noteParam(r)
	res, html := v.load(r, id)
	writeJSON(w, http.StatusOK, v.noteResponse(id, res, html))
}

func (v *Viewer) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	setThemeHeaders(w.Header())
	writeJSON(w, http.StatusOK, v.themes.Get(r.Context(), clientID(r.Context()), theme.SystemPreference(r)))
}

func (v *Viewer) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	t, ok := theme.Parse(req.Theme)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "theme must be light or dark"})
		return
	}

	ctx := r.Context()
	id := clientID(ctx)
	if err := v.themes.Set(ctx, id, t); err != nil {
		v.logger.Warnw("saving theme", "client", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v.themes.Get(ctx, id, theme.SystemPreference(r)))
}

// handleToggleTheme flips the theme from a plain form post and sends the
// browser back to the page it came from.
func (v *Viewer) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := clientID(ctx)

	next, ok := theme.Parse(r.FormValue("theme"))
	if !ok {
		next = v.themes.Get(ctx, id, theme.SystemPreference(r)).Theme.Toggle()
	}
	if err := v.themes.Set(ctx, id, next); err != nil {
		v.logger.Warnw("saving theme", "client", id, "error", err)
	}
	http.Redirect(w, r, safeRedirect(r.FormValue("redirect")), http.StatusSeeOther)
}

func (v *Viewer) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	body, ok := StaticAssets()[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch path.Ext(name) {
	case ".css":
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	case ".js":
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	}
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(body))
}

// docsHandler serves the raw markdown tree.
func (v *Viewer) docsHandler() http.Handler {
	files := http.StripPrefix("/docs", http.FileServer(http.FS(afero.NewIOFS(v.docs))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".md") {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		}
		files.ServeHTTP(w, r)
	})
}

// setThemeHeaders asks the browser for its color-scheme preference on
// every request, including the first one.
func setThemeHeaders(h http.Header) {
	h.Set("Accept-CH", theme.HintHeader)
	h.Set("Critical-CH", theme.HintHeader)
	h.Add("Vary", theme.HintHeader)
	h.Add("Vary", "Cookie")
}

// safeRedirect keeps redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
