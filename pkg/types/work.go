// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the affiliation-engine
// pipeline: input rows, normalized work metadata, classification verdicts,
// and the manual-review record.
package types

// InputRecord is one row from the source table. At least one of DOI or
// Title must be non-blank for the row to be eligible for lookup; rows with
// neither are routed straight to manual review.
type InputRecord struct {
	// RowIndex is the zero-based position of the row in the input table.
	// Results are realigned by this index, never by completion order.
	RowIndex int `json:"row_index" yaml:"row_index"`

	// DOI is the persistent identifier, possibly with stray whitespace or
	// trailing citation punctuation as captured in the spreadsheet.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the free-text article title, used for best-effort search
	// when no DOI resolves.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// HasIdentifier reports whether the record carries anything to look up.
func (r InputRecord) HasIdentifier() bool {
	return r.DOI != "" || r.Title != ""
}

// WorkMetadata is the source-agnostic shape every provider normalizes its
// response into. Slices are deduplicated in encounter order; Authors is
// capped at the first ten author entries of the work.
type WorkMetadata struct {
	// Title is the resolved title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// CanonicalURL is the provider's canonical link for the work. May be
	// empty when the provider does not report one.
	CanonicalURL string `json:"canonical_url,omitempty" yaml:"canonical_url,omitempty"`

	// Authors lists author display names, case-sensitive as returned.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Institutions lists free-text institution names from author affiliations.
	Institutions []string `json:"institutions,omitempty" yaml:"institutions,omitempty"`

	// Countries lists free-text country names from author affiliations.
	Countries []string `json:"countries,omitempty" yaml:"countries,omitempty"`
}

// IsEmpty reports whether no field of the metadata was populated.
func (w WorkMetadata) IsEmpty() bool {
	return w.Title == "" && w.CanonicalURL == "" &&
		len(w.Authors) == 0 && len(w.Institutions) == 0 && len(w.Countries) == 0
}

// Verdict is the classification outcome attached to a result row.
type Verdict string

const (
	// VerdictYes marks a work with at least one Caribbean affiliation signal.
	VerdictYes Verdict = "Yes"

	// VerdictNo marks a resolved work with no Caribbean affiliation signal.
	VerdictNo Verdict = "No"

	// VerdictManualReview marks a row no provider could resolve. This is an
	// expected terminal outcome, not an error.
	VerdictManualReview Verdict = "Needs Manual Verification"
)

// ResultRecord is the single, immutable outcome for one input row.
type ResultRecord struct {
	// RowIndex mirrors the input row's zero-based position.
	RowIndex int `json:"row_index" yaml:"row_index"`

	// Work holds the normalized metadata. All-empty when no provider
	// returned data.
	Work WorkMetadata `json:"work" yaml:"work"`

	// Verdict is Yes, No, or Needs Manual Verification.
	Verdict Verdict `json:"verdict" yaml:"verdict"`

	// Processed reports whether the resolver handled the row. False only
	// for rows a cancelled run never reached.
	Processed bool `json:"processed" yaml:"processed"`
}

// ManualReviewEntry describes a row that needs a human pass. Created only
// when every configured provider returned nothing for the row.
type ManualReviewEntry struct {
	// RowNumber is the 1-based row position as surfaced to spreadsheet users.
	RowNumber int `json:"row_number" yaml:"row_number"`

	// DOI and Title echo the original input values.
	DOI   string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Reason is a fixed explanation string for the review queue.
	Reason string `json:"reason" yaml:"reason"`
}
