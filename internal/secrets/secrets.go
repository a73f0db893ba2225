// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads polite-pool contact identities from a directory of
// plain-text files, one file per identity. The filename is the key and the
// trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Identity files recognized in the secrets directory.
const (
	openAlexEmailFile  = "openalex-email"
	crossrefMailtoFile = "crossref-mailto"
)

// Identities carries the contact identities sent to the metadata providers
// for polite-pool access. An empty field means the identity was not
// provided; lookups still work, they just land in the anonymous pool.
type Identities struct {
	OpenAlexEmail  string
	CrossrefMailto string
}

// Present lists the identity files that were found, for startup logging.
func (i Identities) Present() []string {
	var keys []string
	if i.OpenAlexEmail != "" {
		keys = append(keys, openAlexEmailFile)
	}
	if i.CrossrefMailto != "" {
		keys = append(keys, crossrefMailtoFile)
	}
	return keys
}

// Load reads the known identity files from dir. A missing directory or
// missing files leave the corresponding fields empty; an unreadable file
// produces a warning on stderr but does not abort.
func Load(dir string) Identities {
	return Identities{
		OpenAlexEmail:  readIdentity(dir, openAlexEmailFile),
		CrossrefMailto: readIdentity(dir, crossrefMailtoFile),
	}
}

func readIdentity(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}
