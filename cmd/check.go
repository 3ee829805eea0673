package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notesview/notesview/internal/catalog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the notes folder against the navigation table",
	Long: `Lists table entries without a markdown file, markdown files no table
entry points at, and identifiers that can never name a file. Exits non-zero
when anything needs attention.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		site, err := siteFs(cfg)
		if err != nil {
			return err
		}
		cat := createCatalogFromConfig(cfg, site)
		if cat == nil {
			return errors.New("check needs a local site_dir; content_url is set")
		}

		report, err := cat.Check(cfg.Topics)
		if err != nil {
			return fmt.Errorf("checking notes: %w", err)
		}
		printReport(cmd.OutOrStdout(), cfg.HomeResource, report)
		if !report.OK() {
			return errors.New("notes folder and navigation table disagree")
		}
		return nil
	},
}

func printReport(w io.Writer, homeResource string, r catalog.Report) {
	if r.OK() {
		fmt.Fprintln(w, "All notes present.")
		return
	}
	if r.HomeMissing {
		fmt.Fprintf(w, "Home note %s.md is missing\n", homeResource)
	}
	printList(w, "Missing notes", r.Missing)
	printList(w, "Invalid identifiers", r.Invalid)
	printList(w, "Files not in the table", r.Orphans)
}

func printList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", heading, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
