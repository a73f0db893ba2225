// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// openAlexBase is the OpenAlex Works endpoint. Declared as a var so tests
// can substitute an httptest server.
var openAlexBase = "https://api.openalex.org/works"

// OpenAlex is the primary provider. DOI lookups hit the works-by-identifier
// endpoint; title lookups use the relevance-ranked search endpoint and take
// the single top hit.
type OpenAlex struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email      string
	UserAgent  string
	MaxRetries int
}

// NewOpenAlex builds the provider from lookup settings.
func NewOpenAlex(client *http.Client, cfg types.LookupConfig) *OpenAlex {
	return &OpenAlex{
		Client:     client,
		Email:      cfg.OpenAlexEmail,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// Name returns the provider identifier.
func (p *OpenAlex) Name() string { return "openalex" }

// LookupDOI fetches a single work by DOI. OpenAlex keys works by the full
// doi.org URL, so the bare DOI is re-prefixed into the request path.
func (p *OpenAlex) LookupDOI(ctx context.Context, doi string) Result {
	reqURL := openAlexBase + "/https://doi.org/" + doi
	if p.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(p.Email)
	}

	var work openAlexWork
	if miss := fetchJSON(ctx, p.Client, p.UserAgent, reqURL, p.MaxRetries, &work); miss != MissNone {
		return missed(miss)
	}
	return found(extractOpenAlex(work))
}

// LookupTitle searches works by title and takes the top-ranked hit.
func (p *OpenAlex) LookupTitle(ctx context.Context, title string) Result {
	params := url.Values{
		"search":   {title},
		"per-page": {"1"},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}
	reqURL := openAlexBase + "?" + params.Encode()

	var list openAlexList
	if miss := fetchJSON(ctx, p.Client, p.UserAgent, reqURL, p.MaxRetries, &list); miss != MissNone {
		return missed(miss)
	}
	if len(list.Results) == 0 {
		return missed(MissNotFound)
	}
	return found(extractOpenAlex(list.Results[0]))
}

// extractOpenAlex normalizes an OpenAlex work. Authorships beyond the
// first ten are ignored; institution and country lists are deduplicated
// in encounter order.
func extractOpenAlex(w openAlexWork) types.WorkMetadata {
	var meta types.WorkMetadata
	meta.Title = w.DisplayName
	meta.CanonicalURL = w.CanonicalURL

	authorships := w.Authorships
	if len(authorships) > maxAuthors {
		authorships = authorships[:maxAuthors]
	}
	for _, a := range authorships {
		meta.Authors = appendUnique(meta.Authors, a.Author.DisplayName)
		for _, inst := range a.Institutions {
			meta.Institutions = appendUnique(meta.Institutions, inst.DisplayName)
			meta.Countries = appendUnique(meta.Countries, inst.Country)
		}
	}
	return meta
}

// OpenAlex API JSON structures.
type openAlexList struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	DisplayName  string               `json:"display_name"`
	CanonicalURL string               `json:"canonical_url"`
	Authorships  []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
}
