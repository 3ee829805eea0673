package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/notesview/notesview/internal/db"
	"github.com/notesview/notesview/internal/render"
	"github.com/notesview/notesview/internal/server"
	"github.com/notesview/notesview/internal/theme"
	"github.com/notesview/notesview/internal/viewer"
)

const shutdownTimeout = 5 * time.Second

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes viewer over HTTP",
	Long: `Starts the notes viewer: the two-pane page, the JSON API, the theme
endpoints and the live selection WebSocket. Theme choices are kept per
browser in the configured SQLite database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.AllowAllOrigins = serveAllowAll
		}

		site, err := siteFs(cfg)
		if err != nil {
			return err
		}
		loader, err := createLoaderFromConfig(cfg, site)
		if err != nil {
			return fmt.Errorf("creating loader: %w", err)
		}

		// Open database.
		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, logger)

		v := viewer.New(viewer.Options{
			Title:    cfg.Title,
			Table:    cfg.Topics,
			Loader:   loader,
			Resolver: cfg.Resolver(),
			Renderer: render.New(cfg.CodeStyle),
			Themes:   theme.NewService(theme.NewSQLStore(database), logger),
			Docs:     docsFs(cfg, site),
			Logger:   logger,
		})
		v.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warnw("shutdown", "error", err)
			}
		}()

		logger.Infow("notesview starting",
			"version", Version,
			"addr", srv.Addr(),
			"notes", sourceDescription(cfg),
			"database", database.Path(),
			"topics", len(cfg.Topics),
		)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}
