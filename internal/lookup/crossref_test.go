// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/affiliation-engine/internal/match"
)

const sampleCrossrefMessage = `{
  "DOI": "10.1234/reef",
  "title": ["Coral Reef Degradation in the Lesser Antilles"],
  "author": [
    {
      "given": "Jane",
      "family": "Doe",
      "affiliation": [
        {"name": "Department of Marine Biology, University of the West Indies, Mona, Jamaica"}
      ]
    },
    {
      "given": "John",
      "family": "Roe",
      "affiliation": [
        {"name": "Harvard University, Cambridge, MA, USA"}
      ]
    }
  ]
}`

func crossrefTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func withCrossrefBase(t *testing.T, base string) {
	t.Helper()
	old := crossrefBase
	crossrefBase = base
	t.Cleanup(func() { crossrefBase = old })
}

func TestCrossrefLookupDOI(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message": %s}`, sampleCrossrefMessage)
	}))
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client(), Countries: match.Default()}
	res := p.LookupDOI(context.Background(), "10.1234/reef")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}
	if gotPath != "/10.1234/reef" {
		t.Errorf("request path = %q", gotPath)
	}

	w := res.Work
	if w.Title != "Coral Reef Degradation in the Lesser Antilles" {
		t.Errorf("Title = %q", w.Title)
	}
	if w.CanonicalURL != "https://doi.org/10.1234/reef" {
		t.Errorf("CanonicalURL = %q", w.CanonicalURL)
	}
	// Given and family names are joined with a space.
	if len(w.Authors) != 2 || w.Authors[0] != "Jane Doe" || w.Authors[1] != "John Roe" {
		t.Errorf("Authors = %v", w.Authors)
	}
	if len(w.Institutions) != 2 {
		t.Errorf("Institutions = %v", w.Institutions)
	}
	// Country derived from affiliation text via the gazetteer.
	if len(w.Countries) != 1 || w.Countries[0] != "Jamaica" {
		t.Errorf("Countries = %v, want [Jamaica]", w.Countries)
	}
}

func TestCrossrefCanonicalURLFallsBackToRequestedDOI(t *testing.T) {
	ts := crossrefTestServer(http.StatusOK, `{"message": {"title": ["Untagged Work"], "author": []}}`)
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client()}
	res := p.LookupDOI(context.Background(), "10.9999/fallback")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}
	if res.Work.CanonicalURL != "https://doi.org/10.9999/fallback" {
		t.Errorf("CanonicalURL = %q, want requested DOI", res.Work.CanonicalURL)
	}
}

func TestCrossrefNilGazetteerLeavesCountriesEmpty(t *testing.T) {
	ts := crossrefTestServer(http.StatusOK, fmt.Sprintf(`{"message": %s}`, sampleCrossrefMessage))
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client()}
	res := p.LookupDOI(context.Background(), "10.1234/reef")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}
	if len(res.Work.Countries) != 0 {
		t.Errorf("Countries = %v, want empty without gazetteer", res.Work.Countries)
	}
}

func TestCrossrefLookupTitle(t *testing.T) {
	var gotQuery, gotRows string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.bibliographic")
		gotRows = r.URL.Query().Get("rows")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message": {"items": [%s]}}`, sampleCrossrefMessage)
	}))
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client(), Countries: match.Default()}
	res := p.LookupTitle(context.Background(), "coral reef degradation")
	if !res.Found() {
		t.Fatalf("LookupTitle miss: %v", res.Miss)
	}
	if gotQuery != "coral reef degradation" {
		t.Errorf("query.bibliographic = %q", gotQuery)
	}
	if gotRows != "1" {
		t.Errorf("rows = %q, want 1", gotRows)
	}
	if res.Work.Title != "Coral Reef Degradation in the Lesser Antilles" {
		t.Errorf("Title = %q", res.Work.Title)
	}
}

func TestCrossrefLookupTitleNoItems(t *testing.T) {
	ts := crossrefTestServer(http.StatusOK, `{"message": {"items": []}}`)
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client()}
	res := p.LookupTitle(context.Background(), "nonexistent")
	if res.Found() {
		t.Fatal("expected miss for empty item list")
	}
	if res.Miss != MissNotFound {
		t.Errorf("Miss = %v, want MissNotFound", res.Miss)
	}
}

func TestCrossrefAuthorCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"message": {"DOI": "10.1234/big", "title": ["Big"], "author": [`)
	for i := 0; i < 30; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"given": "Author", "family": "Number%02d", "affiliation": []}`, i)
	}
	b.WriteString(`]}}`)

	ts := crossrefTestServer(http.StatusOK, b.String())
	defer ts.Close()
	withCrossrefBase(t, ts.URL)

	p := &Crossref{Client: ts.Client()}
	res := p.LookupDOI(context.Background(), "10.1234/big")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}
	if len(res.Work.Authors) != 10 {
		t.Errorf("len(Authors) = %d, want 10 (cap)", len(res.Work.Authors))
	}
}

func TestCrossrefMisses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       Miss
	}{
		{"not found", http.StatusNotFound, "Resource not found.", MissNotFound},
		{"server error", http.StatusInternalServerError, "", MissHTTPStatus},
		{"malformed json", http.StatusOK, `not json at all`, MissMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := crossrefTestServer(tt.statusCode, tt.body)
			defer ts.Close()
			withCrossrefBase(t, ts.URL)

			p := &Crossref{Client: ts.Client()}
			res := p.LookupDOI(context.Background(), "10.1234/whatever")
			if res.Found() {
				t.Fatal("expected miss")
			}
			if res.Miss != tt.want {
				t.Errorf("Miss = %v, want %v", res.Miss, tt.want)
			}
		})
	}
}

func TestCrossrefName(t *testing.T) {
	p := &Crossref{}
	if p.Name() != "crossref" {
		t.Errorf("Name() = %q, want %q", p.Name(), "crossref")
	}
}
