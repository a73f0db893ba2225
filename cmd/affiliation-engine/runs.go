// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/affiliation-engine/internal/store"
)

const defaultStorePath = "affiliation-runs.db"

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived enrichment runs",
	Long: `Runs lists enrichment runs archived with --store and shows their
manual-review queues.`,
	RunE: runRunsList,
}

var runsReviewCmd = &cobra.Command{
	Use:   "review [run-id]",
	Short: "Show the manual-review queue of an archived run",
	RunE:  runRunsReview,
}

func init() {
	runsCmd.PersistentFlags().String("store", defaultStorePath, "SQLite run archive file")
	runsCmd.AddCommand(runsReviewCmd)
	rootCmd.AddCommand(runsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("store")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("run archive %s not found: %w", path, err)
	}
	return store.Open(path)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-6s  %-4s  %-4s  %-6s  %s\n",
		"ID", "Created", "Total", "Yes", "No", "Manual", "Input")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-6d  %-4d  %-4d  %-6d  %s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Total, r.Yes, r.No, r.Manual, r.InputFile)
	}
	return nil
}

func runRunsReview(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one run ID (see 'affiliation-engine runs')")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.ManualReview(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No manual-review rows for this run.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-40s  %s\n", "Row", "DOI", "Title")
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-6d  %-40s  %s\n", e.RowNumber, e.DOI, e.Title)
	}
	fmt.Fprintf(os.Stdout, "\n%d row(s): %s\n", len(entries), entries[0].Reason)
	return nil
}
