// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleOpenAlexWork = `{
  "display_name": "Coral Reef Degradation in the Lesser Antilles",
  "canonical_url": "https://openalex.org/W2741809807",
  "authorships": [
    {
      "author": {"display_name": "Jane Doe"},
      "institutions": [
        {"display_name": "University of the West Indies", "country": "Jamaica"}
      ]
    },
    {
      "author": {"display_name": "John Roe"},
      "institutions": [
        {"display_name": "University of the West Indies", "country": "Jamaica"},
        {"display_name": "Harvard University", "country": "United States"}
      ]
    }
  ]
}`

func openAlexTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func withOpenAlexBase(t *testing.T, base string) {
	t.Helper()
	old := openAlexBase
	openAlexBase = base
	t.Cleanup(func() { openAlexBase = old })
}

func TestOpenAlexLookupDOI(t *testing.T) {
	var gotPath, gotMailto string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMailto = r.URL.Query().Get("mailto")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleOpenAlexWork)
	}))
	defer ts.Close()
	withOpenAlexBase(t, ts.URL)

	p := &OpenAlex{Client: ts.Client(), Email: "ops@example.com"}
	res := p.LookupDOI(context.Background(), "10.1234/reef")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}

	// OpenAlex keys works by the full doi.org URL.
	if !strings.Contains(gotPath, "/https://doi.org/10.1234/reef") {
		t.Errorf("request path = %q, want doi.org-prefixed DOI", gotPath)
	}
	if gotMailto != "ops@example.com" {
		t.Errorf("mailto = %q, want ops@example.com", gotMailto)
	}

	w := res.Work
	if w.Title != "Coral Reef Degradation in the Lesser Antilles" {
		t.Errorf("Title = %q", w.Title)
	}
	if w.CanonicalURL != "https://openalex.org/W2741809807" {
		t.Errorf("CanonicalURL = %q", w.CanonicalURL)
	}
	if len(w.Authors) != 2 || w.Authors[0] != "Jane Doe" || w.Authors[1] != "John Roe" {
		t.Errorf("Authors = %v", w.Authors)
	}
	// Shared institution must be deduplicated, encounter order preserved.
	if len(w.Institutions) != 2 || w.Institutions[0] != "University of the West Indies" || w.Institutions[1] != "Harvard University" {
		t.Errorf("Institutions = %v", w.Institutions)
	}
	if len(w.Countries) != 2 || w.Countries[0] != "Jamaica" || w.Countries[1] != "United States" {
		t.Errorf("Countries = %v", w.Countries)
	}
}

func TestOpenAlexLookupTitle(t *testing.T) {
	var gotQuery, gotPerPage string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search")
		gotPerPage = r.URL.Query().Get("per-page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results": [%s]}`, sampleOpenAlexWork)
	}))
	defer ts.Close()
	withOpenAlexBase(t, ts.URL)

	p := &OpenAlex{Client: ts.Client()}
	res := p.LookupTitle(context.Background(), "coral reef degradation")
	if !res.Found() {
		t.Fatalf("LookupTitle miss: %v", res.Miss)
	}
	if gotQuery != "coral reef degradation" {
		t.Errorf("search = %q", gotQuery)
	}
	// Only the top-ranked hit is requested.
	if gotPerPage != "1" {
		t.Errorf("per-page = %q, want 1", gotPerPage)
	}
	if res.Work.Title != "Coral Reef Degradation in the Lesser Antilles" {
		t.Errorf("Title = %q", res.Work.Title)
	}
}

func TestOpenAlexLookupTitleNoResults(t *testing.T) {
	ts := openAlexTestServer(http.StatusOK, `{"results": []}`)
	defer ts.Close()
	withOpenAlexBase(t, ts.URL)

	p := &OpenAlex{Client: ts.Client()}
	res := p.LookupTitle(context.Background(), "nonexistent")
	if res.Found() {
		t.Fatal("expected miss for empty result set")
	}
	if res.Miss != MissNotFound {
		t.Errorf("Miss = %v, want MissNotFound", res.Miss)
	}
}

func TestOpenAlexAuthorCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"display_name": "Large Collaboration", "authorships": [`)
	for i := 0; i < 25; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"author": {"display_name": "Author %02d"}, "institutions": []}`, i)
	}
	b.WriteString(`]}`)

	ts := openAlexTestServer(http.StatusOK, b.String())
	defer ts.Close()
	withOpenAlexBase(t, ts.URL)

	p := &OpenAlex{Client: ts.Client()}
	res := p.LookupDOI(context.Background(), "10.1234/big")
	if !res.Found() {
		t.Fatalf("LookupDOI miss: %v", res.Miss)
	}
	if len(res.Work.Authors) != 10 {
		t.Errorf("len(Authors) = %d, want 10 (cap)", len(res.Work.Authors))
	}
	if res.Work.Authors[9] != "Author 09" {
		t.Errorf("Authors[9] = %q, want the tenth author in order", res.Work.Authors[9])
	}
}

func TestOpenAlexMisses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       Miss
	}{
		{"not found", http.StatusNotFound, `{"error": "not found"}`, MissNotFound},
		{"server error", http.StatusInternalServerError, "", MissHTTPStatus},
		{"forbidden", http.StatusForbidden, "", MissHTTPStatus},
		{"malformed json", http.StatusOK, `{not valid`, MissMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := openAlexTestServer(tt.statusCode, tt.body)
			defer ts.Close()
			withOpenAlexBase(t, ts.URL)

			p := &OpenAlex{Client: ts.Client()}
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

func TestOpenAlexTimeoutIsNetworkMiss(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()
	withOpenAlexBase(t, ts.URL)

	client := ts.Client()
	client.Timeout = 20 * time.Millisecond
	p := &OpenAlex{Client: client}

	res := p.LookupDOI(context.Background(), "10.1234/slow")
	if res.Found() {
		t.Fatal("expected miss on timeout")
	}
	if res.Miss != MissNetwork {
		t.Errorf("Miss = %v, want MissNetwork", res.Miss)
	}
}

func TestOpenAlexName(t *testing.T) {
	p := &OpenAlex{}
	if p.Name() != "openalex" {
		t.Errorf("Name() = %q, want %q", p.Name(), "openalex")
	}
}
