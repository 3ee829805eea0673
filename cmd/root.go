package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notesview/notesview/internal/config"
	"github.com/notesview/notesview/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "notesview",
	Short: "Browse a folder of markdown notes in the browser",
	Long: `notesview serves a two-pane reader for a folder of markdown notes: a
sidebar of topics and subpages on the left, the selected note rendered on
the right. It can also export the same reader as a static site, check the
notes against the navigation table and expose them to AI agents via MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
