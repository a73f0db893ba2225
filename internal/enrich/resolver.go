// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich orchestrates per-row affiliation resolution: the provider
// priority chain, the bounded fan-out over input rows, and the split into
// classified results and the manual-review queue.
package enrich

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/affiliation-engine/internal/lookup"
	"github.com/pdiddy/affiliation-engine/internal/match"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// ManualReviewReason is the explanation attached to manual-review entries
// whose row every configured source was consulted for.
const ManualReviewReason = "Not found in OpenAlex or Crossref"

// InterruptedReason marks manual-review entries for rows a cancelled run
// never looked up.
const InterruptedReason = "Run interrupted before lookup"

// Resolver resolves one input row to a classified result. Providers are
// consulted in strict priority order with short-circuiting: primary DOI,
// fallback DOI, primary title, fallback title. A single attempt per
// identifier type per provider; transient failures count as misses for the
// row, and re-running the batch is the retry mechanism.
type Resolver struct {
	Primary  lookup.Provider
	Fallback lookup.Provider
	Matcher  *match.Matcher

	// TitleFallback gates the fallback provider's title search for rows
	// the primary title search missed.
	TitleFallback bool

	// Status receives per-row progress lines. Nil discards them.
	Status io.Writer
}

// Resolve produces exactly one ResultRecord for the record. It never
// returns an error: rows nothing resolves carry the manual-review verdict,
// an expected terminal outcome whose rate is a quality signal, not a fault.
func (r *Resolver) Resolve(ctx context.Context, rec types.InputRecord) types.ResultRecord {
	doi := lookup.NormalizeDOI(rec.DOI)
	title := strings.TrimSpace(rec.Title)

	if doi != "" {
		if res := r.Primary.LookupDOI(ctx, doi); res.Found() {
			return r.classified(rec, *res.Work, r.Primary.Name())
		}
		if r.Fallback != nil {
			if res := r.Fallback.LookupDOI(ctx, doi); res.Found() {
				return r.classified(rec, *res.Work, r.Fallback.Name())
			}
		}
	}

	if title != "" {
		if res := r.Primary.LookupTitle(ctx, title); res.Found() {
			return r.classified(rec, *res.Work, r.Primary.Name())
		}
		if r.Fallback != nil && r.TitleFallback {
			if res := r.Fallback.LookupTitle(ctx, title); res.Found() {
				return r.classified(rec, *res.Work, r.Fallback.Name())
			}
		}
	}

	r.statusf("row %d: manual review\n", rec.RowIndex+1)
	return types.ResultRecord{RowIndex: rec.RowIndex, Verdict: types.VerdictManualReview, Processed: true}
}

func (r *Resolver) classified(rec types.InputRecord, work types.WorkMetadata, source string) types.ResultRecord {
	verdict := types.VerdictNo
	if r.Matcher.IsCaribbean(work.Institutions, work.Countries) {
		verdict = types.VerdictYes
	}
	r.statusf("row %d: %s (%s)\n", rec.RowIndex+1, verdict, source)
	return types.ResultRecord{RowIndex: rec.RowIndex, Work: work, Verdict: verdict, Processed: true}
}

func (r *Resolver) statusf(format string, args ...any) {
	if r.Status != nil {
		fmt.Fprintf(r.Status, format, args...)
	}
}
