package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notesview/notesview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize notesview configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to describe your notes folder and writes a .notesview.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
