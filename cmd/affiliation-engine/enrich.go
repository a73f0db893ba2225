// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/affiliation-engine/internal/enrich"
	"github.com/pdiddy/affiliation-engine/internal/lookup"
	"github.com/pdiddy/affiliation-engine/internal/match"
	"github.com/pdiddy/affiliation-engine/internal/sheet"
	"github.com/pdiddy/affiliation-engine/internal/store"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "affiliation-engine/0.1"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [input.csv]",
	Short: "Enrich a bibliographic table with Caribbean affiliation verdicts",
	Long: `Enrich reads a CSV table with DOI and/or Title columns, resolves each
row against OpenAlex (primary) and Crossref (fallback), and writes two
tables: the augmented results and a manual-review queue for rows neither
source could resolve. Row order in the output always matches the input.

Interrupting a run (Ctrl-C) stops new lookups and writes the results
computed so far; unprocessed rows land in the manual-review queue.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("output", "", "results CSV path (default: <input>_results.csv)")
	enrichCmd.Flags().String("review", "", "manual-review CSV path (default: <input>_manual_review.csv)")
	enrichCmd.Flags().Int("concurrency", enrich.DefaultConcurrency, "worker pool size for provider lookups")
	enrichCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default 10s)")
	enrichCmd.Flags().String("tables", "", "YAML file overriding the country/university allow-lists")
	enrichCmd.Flags().String("store", "", "SQLite file archiving the run (default: none)")
	enrichCmd.Flags().Bool("no-title-fallback", false, "skip the fallback provider's title search")
	enrichCmd.Flags().String("openalex-email", "", "mailto identity for OpenAlex polite pool")
	enrichCmd.Flags().String("crossref-mailto", "", "mailto identity for Crossref polite pool")

	viper.SetDefault("concurrency", enrich.DefaultConcurrency)
	viper.SetDefault("lookup.timeout", defaultTimeout)
	viper.SetDefault("lookup.user_agent", defaultUserAgent)
	viper.SetDefault("lookup.title_fallback", true)

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one input CSV path")
	}
	input := args[0]

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = derivedPath(input, "_results.csv")
	}
	reviewPath, _ := cmd.Flags().GetString("review")
	if reviewPath == "" {
		reviewPath = derivedPath(input, "_manual_review.csv")
	}

	cfg := configFromFlags(cmd)
	matcher, err := newMatcher(cfg.Match)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input table: %w", err)
	}
	records, err := sheet.ReadRecords(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("input table %s has no data rows", input)
	}

	resolver := newResolver(cfg.Lookup, matcher)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stdout, "Enriching %d rows (concurrency %d)\n", len(records), cfg.Concurrency)
	results, runErr := enrich.Run(ctx, records, resolver, cfg.Concurrency)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "interrupted: writing results computed so far")
	}

	rows, review := enrich.Report(records, results)

	if err := writeResultsFile(outputPath, func(w *os.File) error { return sheet.WriteResults(w, rows) }); err != nil {
		return err
	}
	if err := writeResultsFile(reviewPath, func(w *os.File) error { return sheet.WriteManualReview(w, review) }); err != nil {
		return err
	}

	if cfg.StorePath != "" {
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer s.Close()
		run, err := s.SaveRun(ctx, input, records, results)
		if err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Archived run %s\n", run.ID)
	}

	summary := enrich.Summarize(results)
	fmt.Fprintf(os.Stdout, "\nEnrichment summary: %d rows: %d yes, %d no, %d manual review\n",
		summary.Total, summary.Yes, summary.No, summary.Manual)
	fmt.Fprintf(os.Stdout, "Results: %s\nManual review: %s\n", outputPath, reviewPath)

	return runErr
}

// configFromFlags assembles the run configuration. Viper supplies values
// from the config file, environment, and defaults; flags the user set
// explicitly override them; polite-pool identities fall back to the
// secrets directory when neither a flag nor a config key provides one.
func configFromFlags(cmd *cobra.Command) types.EnrichConfig {
	cfg := types.EnrichConfig{
		Lookup: types.LookupConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("lookup.timeout"),
				UserAgent: viper.GetString("lookup.user_agent"),
			},
			OpenAlexEmail:  viper.GetString("lookup.openalex_email"),
			CrossrefMailto: viper.GetString("lookup.crossref_mailto"),
			MaxRetries:     viper.GetInt("lookup.max_retries"),
			TitleFallback:  viper.GetBool("lookup.title_fallback"),
		},
		Match:       types.MatchConfig{TablesFile: viper.GetString("match.tables_file")},
		Concurrency: viper.GetInt("concurrency"),
		StorePath:   viper.GetString("store_path"),
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Lookup.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("no-title-fallback") {
		v, _ := flags.GetBool("no-title-fallback")
		cfg.Lookup.TitleFallback = !v
	}
	if flags.Changed("openalex-email") {
		cfg.Lookup.OpenAlexEmail, _ = flags.GetString("openalex-email")
	}
	if flags.Changed("crossref-mailto") {
		cfg.Lookup.CrossrefMailto, _ = flags.GetString("crossref-mailto")
	}
	if flags.Changed("tables") {
		cfg.Match.TablesFile, _ = flags.GetString("tables")
	}
	if flags.Changed("store") {
		cfg.StorePath, _ = flags.GetString("store")
	}

	if cfg.Lookup.OpenAlexEmail == "" {
		cfg.Lookup.OpenAlexEmail = identities.OpenAlexEmail
	}
	if cfg.Lookup.CrossrefMailto == "" {
		cfg.Lookup.CrossrefMailto = identities.CrossrefMailto
	}
	return cfg
}

// newMatcher builds the affiliation matcher, honoring a tables override
// file when configured.
func newMatcher(cfg types.MatchConfig) (*match.Matcher, error) {
	if cfg.TablesFile == "" {
		return match.Default(), nil
	}
	return match.LoadTables(cfg.TablesFile)
}

// newResolver wires the provider chain: OpenAlex primary, Crossref
// fallback, both sharing one HTTP client whose timeout bounds every call.
func newResolver(cfg types.LookupConfig, matcher *match.Matcher) *enrich.Resolver {
	client := &http.Client{Timeout: cfg.Timeout}
	return &enrich.Resolver{
		Primary:       lookup.NewOpenAlex(client, cfg),
		Fallback:      lookup.NewCrossref(client, cfg, matcher),
		Matcher:       matcher,
		TitleFallback: cfg.TitleFallback,
		Status:        os.Stdout,
	}
}

func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func writeResultsFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
