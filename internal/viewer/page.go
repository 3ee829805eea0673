package viewer

import (
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
	"github.com/notesview/notesview/internal/theme"
)

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// Page is everything the page template needs. The same model renders the
// live server pages and the exported static pages.
type Page struct {
	SiteTitle   string
	HomeLabel   string
	HomeHref    string
	Label       string
	Heading     string
	Selection   string
	Route       string
	Status      notes.Status
	Content     template.HTML
	Dark        bool
	ThemeScript template.JS
	Static      bool
	AssetBase   string
	Query       string
	Sidebar     []SidebarTopic
}

// SidebarTopic is one topic group as rendered.
type SidebarTopic struct {
	Index      int
	Name       string
	Expanded   bool
	ToggleHref string
	Rows       []SidebarRow
}

// SidebarRow is one subpage link.
type SidebarRow struct {
	ID       string
	Href     string
	Selected bool
}

// SidebarInput describes the sidebar for one page.
type SidebarInput struct {
	Table     nav.Table
	Selection string
	Open      nav.Expanded
	Query     string
	// Href builds the link for a subpage identifier.
	Href func(id string) string
	// ToggleHref builds the link that flips a topic without JavaScript.
	// When nil the toggle is script-only.
	ToggleHref func(open nav.Expanded) string
}

// BuildSidebar lays out the filtered table. A topic is expanded when it
// was explicitly opened, contains the selection, or survives a non-empty
// filter. Rows are selected by identifier equality after normalization.
func BuildSidebar(in SidebarInput) []SidebarTopic {
	open := nav.NewExpanded()
	if in.Open != nil {
		open = in.Open.Clone()
	}
	if !notes.IsHome(in.Selection) {
		open.Add(in.Table.TopicsContaining(in.Selection, notes.SameIdentifier)...)
	}

	filtering := in.Query != ""
	entries := in.Table.Filter(in.Query)
	out := make([]SidebarTopic, 0, len(entries))
	for _, e := range entries {
		st := SidebarTopic{
			Index:      e.Index,
			Name:       e.Topic.Name,
			Expanded:   filtering || open.Has(e.Index),
			ToggleHref: "#",
		}
		if in.ToggleHref != nil {
			toggled := open.Clone()
			toggled.Toggle(e.Index)
			st.ToggleHref = in.ToggleHref(toggled)
		}
		for _, sub := range e.Topic.Subpages {
			st.Rows = append(st.Rows, SidebarRow{
				ID:       sub,
				Href:     in.Href(sub),
				Selected: !notes.IsHome(in.Selection) && notes.SameIdentifier(in.Selection, sub),
			})
		}
		out = append(out, st)
	}
	return out
}

// PageInput is the resolved state of one page.
type PageInput struct {
	SiteTitle string
	Resolver  notes.Resolver
	Selection string
	Result    notes.Result
	Content   template.HTML
	Theme     theme.Resolution
	Static    bool
	AssetBase string
	HomeHref  string
	Query     string
	Sidebar   []SidebarTopic
}

// NewPage assembles the template model. Failed and pending results render
// with an empty content pane.
func NewPage(in PageInput) Page {
	id := notes.Normalize(in.Selection)
	p := Page{
		SiteTitle: in.SiteTitle,
		HomeLabel: in.Resolver.Label(""),
		HomeHref:  in.HomeHref,
		Label:     in.Resolver.Label(id),
		Heading:   in.Resolver.Label(id),
		Selection: id,
		Route:     in.Resolver.Route(id),
		Status:    in.Result.Status,
		Dark:      in.Theme.Theme == theme.Dark,
		Static:    in.Static,
		AssetBase: in.AssetBase,
		Query:     in.Query,
		Sidebar:   in.Sidebar,
	}
	if id == "" {
		p.Heading = in.SiteTitle
	}
	if in.Result.Status == notes.StatusReady {
		p.Content = in.Content
	}
	switch {
	case in.Static:
		p.ThemeScript = template.JS(storedThemeScript)
	case in.Theme.Source == theme.SourceDefault:
		p.ThemeScript = template.JS(systemThemeScript)
	}
	return p
}

// WritePage executes the page template.
func WritePage(w io.Writer, p Page) error {
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	return nil
}

// StaticAssets maps asset paths below static/ to their contents.
func StaticAssets() map[string]string {
	return map[string]string{
		"style.css": cssContent,
		"app.js":    jsContent,
	}
}

// openQuery renders the query string carrying the expanded set and filter.
func openQuery(route string, open nav.Expanded, query string) string {
	v := url.Values{}
	if s := open.String(); s != "" {
		v.Set("open", s)
	}
	if query != "" {
		v.Set("q", query)
	}
	if len(v) == 0 {
		return route
	}
	return route + "?" + v.Encode()
}
