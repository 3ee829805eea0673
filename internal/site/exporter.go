// Package site pre-renders every note into a static site that any file
// server can host.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/logging"
	"github.com/notesview/notesview/internal/nav"
	"github.com/notesview/notesview/internal/notes"
	"github.com/notesview/notesview/internal/progress"
	"github.com/notesview/notesview/internal/render"
	"github.com/notesview/notesview/internal/viewer"
)

const defaultConcurrency = 8

// Exporter writes the static site.
type Exporter struct {
	Title    string
	Table    nav.Table
	Loader   notes.ContentLoader
	Resolver notes.Resolver
	Renderer *render.Renderer
	// Docs is the docs tree copied to <out>/<docs_dir>. Nil skips the copy.
	Docs afero.Fs
	// Out is the output root.
	Out         afero.Fs
	Concurrency int
	Reporter    progress.Reporter
	Logger      *zap.SugaredLogger
}

// Result summarises an export.
type Result struct {
	Pages      int
	DocsCopied int
	// Failed lists identifiers whose note could not be loaded. Their pages
	// are still written, with an empty content pane.
	Failed []string
	// Skipped lists identifiers that cannot be a directory name.
	Skipped []string
}

// PagePath returns where the page for id is written: index.html for home,
// <id>/index.html otherwise.
func PagePath(id string) string {
	id = notes.Normalize(id)
	if id == "" {
		return "index.html"
	}
	return path.Join(id, "index.html")
}

// Export renders the home page and every table entry, then copies the
// static assets and the docs tree.
func (e *Exporter) Export(ctx context.Context) (Result, error) {
	logger := logging.OrNop(e.Logger)
	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	workers := e.Concurrency
	if workers <= 0 {
		workers = defaultConcurrency
	}

	var res Result
	ids := []string{""}
	for _, id := range e.Table.Identifiers() {
		if _, err := e.Resolver.ResourcePath(id); err != nil {
			logger.Warnw("skipping note", "id", id, "error", err)
			res.Skipped = append(res.Skipped, id)
			continue
		}
		ids = append(ids, id)
	}

	if err := e.writeAssets(); err != nil {
		return res, err
	}

	var (
		mu   sync.Mutex
		done int
	)
	reporter.Start(len(ids))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()
	for _, id := range ids {
		p.Go(func(ctx context.Context) error {
			ok, err := e.exportPage(ctx, id)
			if err != nil {
				return fmt.Errorf("exporting %q: %w", e.Resolver.Label(id), err)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			res.Pages++
			if !ok {
				res.Failed = append(res.Failed, id)
			}
			reporter.Update(done, e.Resolver.Label(id))
			return nil
		})
	}
	err := p.Wait()
	reporter.Finish()
	if err != nil {
		return res, err
	}
	sort.Strings(res.Failed)

	if e.Docs != nil {
		n, err := e.copyDocs()
		if err != nil {
			return res, err
		}
		res.DocsCopied = n
	}

	logger.Infow("export complete", "pages", res.Pages, "failed", len(res.Failed), "docs", res.DocsCopied)
	return res, nil
}

// exportPage writes one page and reports whether its note loaded.
func (e *Exporter) exportPage(ctx context.Context, id string) (bool, error) {
	result := e.Loader.Load(ctx, id)
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var content template.HTML
	if result.Status == notes.StatusReady {
		doc, err := e.Renderer.Render([]byte(result.Text))
		if err != nil {
			return false, err
		}
		content = doc.HTML
	}

	base := relativeBase(id)
	page := viewer.NewPage(viewer.PageInput{
		SiteTitle: e.Title,
		Resolver:  e.Resolver,
		Selection: id,
		Result:    result,
		Content:   content,
		Static:    true,
		AssetBase: base,
		HomeHref:  homeHref(base),
		Sidebar: viewer.BuildSidebar(viewer.SidebarInput{
			Table:     e.Table,
			Selection: id,
			Href: func(sub string) string {
				return base + url.PathEscape(sub) + "/"
			},
		}),
	})

	var buf bytes.Buffer
	if err := viewer.WritePage(&buf, page); err != nil {
		return false, err
	}
	if err := e.write(PagePath(id), buf.Bytes()); err != nil {
		return false, err
	}
	return result.Status == notes.StatusReady, nil
}

func (e *Exporter) writeAssets() error {
	for name, body := range viewer.StaticAssets() {
		if err := e.write(path.Join("static", name), []byte(body)); err != nil {
			return err
		}
	}
	return nil
}

// copyDocs mirrors the docs tree so the raw markdown stays reachable at
// the same location as on the live server.
func (e *Exporter) copyDocs() (int, error) {
	dest := path.Clean(e.Resolver.DocsDir)
	count := 0
	err := afero.Walk(e.Docs, ".", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(e.Docs, p)
		if err != nil {
			return err
		}
		if err := e.write(path.Join(dest, filepath.ToSlash(p)), data); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("copying docs: %w", err)
	}
	return count, nil
}

func (e *Exporter) write(name string, data []byte) error {
	if err := e.Out.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", name, err)
	}
	if err := afero.WriteFile(e.Out, name, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// relativeBase is the path from a page back to the site root.
func relativeBase(id string) string {
	if notes.IsHome(id) {
		return ""
	}
	return "../"
}

func homeHref(base string) string {
	if base == "" {
		return "./"
	}
	return base
}
