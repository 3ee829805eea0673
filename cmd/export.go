package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/notesview/notesview/internal/progress"
	"github.com/notesview/notesview/internal/render"
	"github.com/notesview/notesview/internal/site"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the viewer as a static site",
	Long: `Pre-renders the home page and every note in the navigation table into
<out>/index.html and <out>/<id>/index.html, next to the stylesheet, the
script and a copy of the docs folder. The result can be hosted by any
static file server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		siteDir, err := siteFs(cfg)
		if err != nil {
			return err
		}
		loader, err := createLoaderFromConfig(cfg, siteDir)
		if err != nil {
			return fmt.Errorf("creating loader: %w", err)
		}

		outDir, err := filepath.Abs(exportOut)
		if err != nil {
			return fmt.Errorf("resolving output dir: %w", err)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		exporter := &site.Exporter{
			Title:       cfg.Title,
			Table:       cfg.Topics,
			Loader:      loader,
			Resolver:    cfg.Resolver(),
			Renderer:    render.New(cfg.CodeStyle),
			Docs:        docsFs(cfg, siteDir),
			Out:         afero.NewBasePathFs(afero.NewOsFs(), outDir),
			Concurrency: cfg.ExportConcurrency,
			Reporter:    progress.NewReporter("Exporting notes"),
			Logger:      logger,
		}
		res, err := exporter.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("exporting site: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Exported %d pages to %s\n", res.Pages, exportOut)
		if res.DocsCopied > 0 {
			fmt.Fprintf(out, "  Copied %d docs files\n", res.DocsCopied)
		}
		if len(res.Failed) > 0 {
			fmt.Fprintf(out, "  Pages with no content: %s\n", strings.Join(labels(cfg.Resolver().Label, res.Failed), ", "))
		}
		if len(res.Skipped) > 0 {
			fmt.Fprintf(out, "  Skipped invalid identifiers: %s\n", strings.Join(res.Skipped, ", "))
		}
		return nil
	},
}

func labels(label func(string) string, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = label(id)
	}
	return out
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}
