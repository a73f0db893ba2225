// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// crossrefBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefBase = "https://api.crossref.org/works"

// Crossref is the fallback provider. Its schema has no country field on
// affiliations, so country names are derived by scanning affiliation text
// against the Countries gazetteer.
type Crossref struct {
	Client *http.Client
	// Mailto is appended to requests for polite pool access.
	Mailto     string
	UserAgent  string
	MaxRetries int
	// Countries derives country mentions from affiliation text. Nil
	// leaves the country list empty.
	Countries Gazetteer
}

// NewCrossref builds the provider from lookup settings and a gazetteer for
// deriving country mentions from affiliation text.
func NewCrossref(client *http.Client, cfg types.LookupConfig, countries Gazetteer) *Crossref {
	return &Crossref{
		Client:     client,
		Mailto:     cfg.CrossrefMailto,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Countries:  countries,
	}
}

// Name returns the provider identifier.
func (p *Crossref) Name() string { return "crossref" }

// LookupDOI fetches a single work by DOI.
func (p *Crossref) LookupDOI(ctx context.Context, doi string) Result {
	reqURL := crossrefBase + "/" + doi
	if p.Mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(p.Mailto)
	}

	var cr crossrefResponse
	if miss := fetchJSON(ctx, p.Client, p.UserAgent, reqURL, p.MaxRetries, &cr); miss != MissNone {
		return missed(miss)
	}
	return found(p.extract(cr.Message, doi))
}

// LookupTitle searches works bibliographically and takes the top-ranked
// hit. Best effort only: Crossref's relevance ranking decides the match.
func (p *Crossref) LookupTitle(ctx context.Context, title string) Result {
	params := url.Values{
		"query.bibliographic": {title},
		"rows":                {"1"},
	}
	if p.Mailto != "" {
		params.Set("mailto", p.Mailto)
	}
	reqURL := crossrefBase + "?" + params.Encode()

	var list crossrefListResponse
	if miss := fetchJSON(ctx, p.Client, p.UserAgent, reqURL, p.MaxRetries, &list); miss != MissNone {
		return missed(miss)
	}
	if len(list.Message.Items) == 0 {
		return missed(MissNotFound)
	}
	return found(p.extract(list.Message.Items[0], ""))
}

// extract normalizes a Crossref work. requestedDOI backs the canonical URL
// when the payload omits its own DOI field. Authors beyond the first ten
// are ignored; institution and country lists are deduplicated in encounter
// order.
func (p *Crossref) extract(work crossrefWork, requestedDOI string) types.WorkMetadata {
	var meta types.WorkMetadata
	if len(work.Title) > 0 {
		meta.Title = work.Title[0]
	}

	doi := work.DOI
	if doi == "" {
		doi = requestedDOI
	}
	if doi != "" {
		meta.CanonicalURL = "https://doi.org/" + doi
	}

	authors := work.Author
	if len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}
	for _, a := range authors {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		meta.Authors = appendUnique(meta.Authors, name)

		for _, aff := range a.Affiliation {
			meta.Institutions = appendUnique(meta.Institutions, aff.Name)
			if p.Countries == nil || aff.Name == "" {
				continue
			}
			for _, country := range p.Countries.CountryMentions(aff.Name) {
				meta.Countries = appendUnique(meta.Countries, country)
			}
		}
	}
	return meta
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefListResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI    string           `json:"DOI"`
	Title  []string         `json:"title"`
	Author []crossrefAuthor `json:"author"`
}

type crossrefAuthor struct {
	Given       string                `json:"given"`
	Family      string                `json:"family"`
	Affiliation []crossrefAffiliation `json:"affiliation"`
}

type crossrefAffiliation struct {
	Name string `json:"name"`
}
