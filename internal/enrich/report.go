// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"sort"
	"strings"

	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// listSeparator joins multi-value fields in flattened output rows.
const listSeparator = " | "

// ResultRow is the flattened, spreadsheet-ready form of one result: the
// original identifiers plus resolved metadata with list fields
// deduplicated, sorted, and pipe-joined.
type ResultRow struct {
	RowIndex      int
	DOI           string
	Title         string
	ResolvedTitle string
	Authors       string
	Institutions  string
	Countries     string
	Verdict       types.Verdict
	URL           string
}

// Report flattens results into output rows and collects the manual-review
// subset. Inputs and results must be the same length and row-aligned, as
// produced by Run. Manual entries carry 1-based row numbers, matching how
// spreadsheet users count rows.
func Report(inputs []types.InputRecord, results []types.ResultRecord) ([]ResultRow, []types.ManualReviewEntry) {
	rows := make([]ResultRow, 0, len(results))
	var review []types.ManualReviewEntry

	for i, res := range results {
		in := inputs[i]
		rows = append(rows, ResultRow{
			RowIndex:      res.RowIndex,
			DOI:           in.DOI,
			Title:         in.Title,
			ResolvedTitle: res.Work.Title,
			Authors:       JoinSorted(res.Work.Authors),
			Institutions:  JoinSorted(res.Work.Institutions),
			Countries:     JoinSorted(res.Work.Countries),
			Verdict:       res.Verdict,
			URL:           res.Work.CanonicalURL,
		})

		if res.Verdict == types.VerdictManualReview {
			reason := ManualReviewReason
			if !res.Processed {
				reason = InterruptedReason
			}
			review = append(review, types.ManualReviewEntry{
				RowNumber: res.RowIndex + 1,
				DOI:       in.DOI,
				Title:     in.Title,
				Reason:    reason,
			})
		}
	}
	return rows, review
}

// JoinSorted deduplicates, sorts, and pipe-joins a list field. Empty input
// yields "".
func JoinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	sort.Strings(unique)
	return strings.Join(unique, listSeparator)
}

// Summary tallies verdicts across a result set.
type Summary struct {
	Total  int
	Yes    int
	No     int
	Manual int
}

// Summarize counts verdicts for the end-of-run report.
func Summarize(results []types.ResultRecord) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Verdict {
		case types.VerdictYes:
			s.Yes++
		case types.VerdictNo:
			s.No++
		default:
			s.Manual++
		}
	}
	return s
}
