package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[aliases]
a1 = alice

[groups]
devs = &a1, bob

[/trunk]
@devs = rw
* = r
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "authz")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoadFileRoundTripsSectionsAndEntriesInOrder(t *testing.T) {
	path := writeSample(t)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.HasSection("aliases"))
	assert.True(t, cfg.HasSection("groups"))
	assert.True(t, cfg.HasSection("/trunk"))
	assert.False(t, cfg.HasSection("/missing"))

	var sections []string
	cfg.EnumerateSections(func(name, _ string) bool {
		sections = append(sections, name)
		return true
	})
	assert.Equal(t, []string{"aliases", "groups", "/trunk"}, sections)

	var keys []string
	cfg.EnumerateEntries("/trunk", func(k, _ string) bool {
		keys = append(keys, k)
		return true
	})
	assert.Equal(t, []string{"@devs", "*"}, keys)

	v, ok := cfg.Get("groups", "devs")
	require.True(t, ok)
	assert.Equal(t, "&a1, bob", v)

	_, ok = cfg.Get("groups", "nope")
	assert.False(t, ok)
}

func TestEnumerateEntriesOnUndefinedSectionIsEmpty(t *testing.T) {
	path := writeSample(t)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	var count int
	cfg.EnumerateEntries("/nowhere", func(_, _ string) bool {
		count++
		return true
	})
	assert.Equal(t, 0, count)
}

func TestLoadBytesMatchesLoadFile(t *testing.T) {
	cfg, err := LoadBytes("inline.authz", []byte(sample))
	require.NoError(t, err)
	assert.True(t, cfg.HasSection("/trunk"))

	fromFile, err := LoadFile(writeSample(t))
	require.NoError(t, err)
	sectionsOf := func(c *INIConfig) []string {
		var names []string
		c.EnumerateSections(func(name, _ string) bool {
			names = append(names, name)
			return true
		})
		return names
	}
	assert.Equal(t, sectionsOf(fromFile), sectionsOf(cfg))
}

func TestLoadFileRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(path, []byte("[groups]\nthis has no equals sign and no bracket"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}
