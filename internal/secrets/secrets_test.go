// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirectory(t *testing.T) {
	ids := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, Identities{}, ids)
	assert.Empty(t, ids.Present())
}

func TestLoadReadsIdentities(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openalex-email"), []byte("ops@example.com\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crossref-mailto"), []byte("  ops@example.com  "), 0o600))

	ids := Load(dir)
	assert.Equal(t, "ops@example.com", ids.OpenAlexEmail)
	assert.Equal(t, "ops@example.com", ids.CrossrefMailto)
	assert.Equal(t, []string{"openalex-email", "crossref-mailto"}, ids.Present())
}

func TestLoadIgnoresUnknownFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api-token"), []byte("nope"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openalex-email"), []byte("a@b.c"), 0o600))

	ids := Load(dir)
	assert.Equal(t, "a@b.c", ids.OpenAlexEmail)
	assert.Empty(t, ids.CrossrefMailto)
	assert.Equal(t, []string{"openalex-email"}, ids.Present())
}

func TestLoadBlankFileLeavesIdentityEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crossref-mailto"), []byte("   \n"), 0o600))

	ids := Load(dir)
	assert.Empty(t, ids.CrossrefMailto)
	assert.Empty(t, ids.Present())
}
