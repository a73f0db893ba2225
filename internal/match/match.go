// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match classifies works as Caribbean-affiliated from free-text
// institution and country strings.
package match

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Matcher decides Caribbean affiliation against injected allow-lists. The
// tables are fixed at construction and safe for concurrent readers.
type Matcher struct {
	countries    map[string]struct{}
	universities []string
}

// New builds a Matcher from explicit allow-lists. Country matching is an
// exact string comparison; university matching is a case-insensitive
// substring test, so university entries are stored lowercased.
func New(countries, universities []string) *Matcher {
	m := &Matcher{
		countries:    make(map[string]struct{}, len(countries)),
		universities: make([]string, 0, len(universities)),
	}
	for _, c := range countries {
		m.countries[c] = struct{}{}
	}
	for _, u := range universities {
		m.universities = append(m.universities, strings.ToLower(u))
	}
	return m
}

// Default returns a Matcher over the production allow-lists.
func Default() *Matcher {
	return New(CaribbeanCountries, CaribbeanUniversities)
}

// IsCaribbean reports whether any country exactly equals an allow-listed
// Caribbean country, or any institution name contains an allow-listed
// university name. The test is deliberately permissive: false positives are
// caught by the downstream manual-review pass, false negatives are not.
// Empty inputs yield false.
func (m *Matcher) IsCaribbean(institutions, countries []string) bool {
	for _, c := range countries {
		if _, ok := m.countries[c]; ok {
			return true
		}
	}
	for _, inst := range institutions {
		lower := strings.ToLower(inst)
		for _, u := range m.universities {
			if strings.Contains(lower, u) {
				return true
			}
		}
	}
	return false
}

// CountryMentions returns the allow-listed countries mentioned, as
// case-insensitive substrings, inside the given free-text affiliation.
// Providers whose schema carries no country field use this to derive
// country names from affiliation text.
func (m *Matcher) CountryMentions(affiliation string) []string {
	lower := strings.ToLower(affiliation)
	var found []string
	for c := range m.countries {
		if strings.Contains(lower, strings.ToLower(c)) {
			found = append(found, c)
		}
	}
	return found
}

// Tables is the on-disk representation of custom allow-lists.
type Tables struct {
	Countries    []string `yaml:"countries"`
	Universities []string `yaml:"universities"`
}

// LoadTables reads allow-lists from a YAML file and returns a Matcher over
// them. Missing or empty lists fall back to the built-in tables, so a file
// may override just one of the two.
func LoadTables(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing tables file: %w", err)
	}
	if len(t.Countries) == 0 {
		t.Countries = CaribbeanCountries
	}
	if len(t.Universities) == 0 {
		t.Universities = CaribbeanUniversities
	}
	return New(t.Countries, t.Universities), nil
}
