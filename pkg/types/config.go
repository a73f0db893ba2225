// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "affiliation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LookupConfig holds settings for the provider lookup stage.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// OpenAlexEmail is sent as the mailto parameter for OpenAlex polite
	// pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// CrossrefMailto is appended to requests for Crossref polite pool access.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// MaxRetries is the number of retries on rate-limit responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// TitleFallback controls whether the fallback provider's title search
	// is consulted for rows the primary provider's title search missed.
	TitleFallback bool `json:"title_fallback" yaml:"title_fallback"`
}

// MatchConfig holds settings for the affiliation matcher.
type MatchConfig struct {
	// TablesFile is an optional YAML file overriding the built-in
	// country/university allow-lists.
	TablesFile string `json:"tables_file,omitempty" yaml:"tables_file,omitempty"`
}

// EnrichConfig groups the settings for a full enrichment run.
type EnrichConfig struct {
	Lookup LookupConfig `json:"lookup" yaml:"lookup"`
	Match  MatchConfig  `json:"match" yaml:"match"`

	// Concurrency is the worker-pool size for the fan-out executor
	// (default 5). It bounds in-flight provider requests; it never
	// affects output content or order.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// StorePath is the SQLite file recording enrichment runs. Empty
	// disables the archive.
	StorePath string `json:"store_path,omitempty" yaml:"store_path,omitempty"`
}
