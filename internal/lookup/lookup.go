// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves DOIs and titles to normalized work metadata via
// external scholarly-metadata providers. Each provider owns its response
// parsing and normalizes into the shared WorkMetadata shape; every failure
// mode is a value, never an error that crosses the provider boundary.
package lookup

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pdiddy/affiliation-engine/internal/httputil"
	"github.com/pdiddy/affiliation-engine/pkg/types"
)

// Miss classifies why a lookup returned no work. The resolver treats all
// misses identically; the diagnostic exists so operators can later separate
// "not indexed" from "provider was unreachable" without a contract change.
type Miss int

const (
	// MissNone means the lookup found a work.
	MissNone Miss = iota

	// MissNotFound means the provider answered and has no such work.
	MissNotFound

	// MissHTTPStatus means the provider answered with an unexpected status.
	MissHTTPStatus

	// MissNetwork means the request failed in transit: connection error,
	// timeout, or cancellation.
	MissNetwork

	// MissMalformed means the response body was not the expected JSON shape.
	MissMalformed
)

func (m Miss) String() string {
	switch m {
	case MissNone:
		return "found"
	case MissNotFound:
		return "not found"
	case MissHTTPStatus:
		return "unexpected status"
	case MissNetwork:
		return "network failure"
	case MissMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Result is the two-variant outcome of a single provider lookup: either
// Work is non-nil and Miss is MissNone, or Work is nil and Miss says why.
type Result struct {
	Work *types.WorkMetadata
	Miss Miss
}

// Found reports whether the lookup produced a work.
func (r Result) Found() bool { return r.Work != nil }

func found(w types.WorkMetadata) Result { return Result{Work: &w} }

func missed(m Miss) Result { return Result{Miss: m} }

// Provider looks up works by DOI or by free-text title. Title search is
// best effort: implementations take the provider's top-ranked hit, which
// callers must not treat as authoritative the way a DOI lookup is.
type Provider interface {
	Name() string
	LookupDOI(ctx context.Context, doi string) Result
	LookupTitle(ctx context.Context, title string) Result
}

// Gazetteer reports the known country names mentioned in a free-text
// affiliation string. *match.Matcher satisfies it; providers whose schema
// has no country field use it to derive country names from affiliation text.
type Gazetteer interface {
	CountryMentions(affiliation string) []string
}

// maxAuthors caps author processing per work, bounding both request cost
// and output size for works with very long author lists.
const maxAuthors = 10

// fetchJSON performs a GET with rate-limit retries and decodes the body
// into v. All failures collapse into a Miss.
func fetchJSON(ctx context.Context, client *http.Client, userAgent, reqURL string, maxRetries int, v any) Miss {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return MissNetwork
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, maxRetries)
	if err != nil {
		return MissNetwork
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return MissNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return MissHTTPStatus
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return MissMalformed
	}
	return MissNone
}

// appendUnique appends v to list unless blank or already present,
// preserving encounter order.
func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
