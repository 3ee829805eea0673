package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/notesview/notesview/internal/mcp"
	"github.com/notesview/notesview/internal/render"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools that list the topics and read notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		site, err := siteFs(cfg)
		if err != nil {
			return err
		}
		loader, err := createLoaderFromConfig(cfg, site)
		if err != nil {
			return fmt.Errorf("creating loader: %w", err)
		}

		logger.Infow("notesview MCP server started on stdio", "notes", sourceDescription(cfg))

		srv := mcpserver.NewServer(mcpserver.Deps{
			Title:    cfg.Title,
			Table:    cfg.Topics,
			Loader:   loader,
			Resolver: cfg.Resolver(),
			Renderer: render.New(cfg.CodeStyle),
			Catalog:  createCatalogFromConfig(cfg, site),
			Logger:   logger,
		})
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
