// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/affiliation-engine/internal/enrich"
	"github.com/pdiddy/affiliation-engine/internal/lookup"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [identifier]",
	Short: "Classify a single DOI, URL, or title",
	Long: `Check resolves one identifier and prints the verdict with the resolved
metadata. A bare DOI, a doi.org URL, or a publisher landing-page URL
containing a DOI is looked up by DOI; anything else is treated as a title
for best-effort search.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Duration("timeout", 0, "per-request HTTP timeout (default 10s)")
	checkCmd.Flags().String("tables", "", "YAML file overriding the country/university allow-lists")
	checkCmd.Flags().Bool("no-title-fallback", false, "skip the fallback provider's title search")
	checkCmd.Flags().String("openalex-email", "", "mailto identity for OpenAlex polite pool")
	checkCmd.Flags().String("crossref-mailto", "", "mailto identity for Crossref polite pool")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one identifier (DOI, URL, or title)")
	}
	identifier := args[0]

	cfg := configFromFlags(cmd)
	matcher, err := newMatcher(cfg.Match)
	if err != nil {
		return err
	}
	resolver := newResolver(cfg.Lookup, matcher)
	resolver.Status = nil

	rec := types.InputRecord{}
	if doi := lookup.NormalizeDOI(identifier); doi != "" && lookup.ExtractDOI(doi) == doi {
		rec.DOI = doi
	} else if doi := lookup.ExtractDOI(identifier); doi != "" {
		rec.DOI = doi
	} else {
		rec.Title = identifier
	}

	res := resolver.Resolve(cmd.Context(), rec)

	fmt.Fprintf(os.Stdout, "Verdict:      %s\n", res.Verdict)
	if res.Verdict == types.VerdictManualReview {
		return nil
	}
	fmt.Fprintf(os.Stdout, "Title:        %s\n", res.Work.Title)
	fmt.Fprintf(os.Stdout, "Authors:      %s\n", enrich.JoinSorted(res.Work.Authors))
	fmt.Fprintf(os.Stdout, "Institutions: %s\n", enrich.JoinSorted(res.Work.Institutions))
	fmt.Fprintf(os.Stdout, "Countries:    %s\n", enrich.JoinSorted(res.Work.Countries))
	fmt.Fprintf(os.Stdout, "URL:          %s\n", res.Work.CanonicalURL)
	return nil
}
