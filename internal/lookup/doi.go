// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"regexp"
	"strings"
)

// doiPattern matches a bare DOI embedded in arbitrary text, e.g. a
// publisher landing-page URL: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// NormalizeDOI returns the bare DOI for lookup: whitespace trimmed, any
// doi.org resolver prefix removed, and trailing citation punctuation
// (". , ) ;") stripped. Spreadsheet captures often carry a DOI with the
// punctuation of the sentence it was copied from. Returns "" when the
// input is blank.
func NormalizeDOI(raw string) string {
	doi := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/"} {
		if rest, ok := strings.CutPrefix(doi, prefix); ok {
			doi = rest
			break
		}
	}
	return strings.TrimRight(doi, ".,);")
}

// ExtractDOI pulls a DOI out of a landing-page or resolver URL, normalized
// the same way NormalizeDOI normalizes direct input. Returns "" when the
// URL carries no recognizable DOI.
func ExtractDOI(rawURL string) string {
	m := doiPattern.FindString(rawURL)
	if m == "" {
		return ""
	}
	return strings.TrimRight(m, ".,);")
}
