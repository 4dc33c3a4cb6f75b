package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIdentitiesNestedGroupClosure(t *testing.T) {
	cfg := newMemConfig()
	section(cfg, "aliases", "a1 = alice")
	section(cfg, "groups", "core = &a1\nall = @core, bob")
	ids := resolveIdentities(cfg, strptr("alice"))

	assert.True(t, ids.has("alice"))
	assert.True(t, ids.has("&a1"))
	assert.True(t, ids.has("@core"))
	assert.True(t, ids.has("@all"))
	assert.True(t, ids.has(tokenStar))
	assert.True(t, ids.has(tokenAuthenticated))
	assert.False(t, ids.has(tokenAnonymous))
}

func TestResolveIdentitiesAnonymousIgnoresConfig(t *testing.T) {
	cfg := newMemConfig()
	section(cfg, "groups", "everyone = *")
	ids := resolveIdentities(cfg, nil)
	assert.Len(t, ids, 2)
}

func TestResolveIdentitiesUnrelatedUserNotInGroups(t *testing.T) {
	cfg := newMemConfig()
	section(cfg, "groups", "devs = alice, bob")
	ids := resolveIdentities(cfg, strptr("carol"))
	assert.False(t, ids.has("@devs"))
}

func TestEnumerateEntriesStopsEarly(t *testing.T) {
	cfg := newMemConfig()
	section(cfg, "/x", "a = r\nb = r\nc = r")
	var seen []string
	cfg.EnumerateEntries("/x", func(k, v string) bool {
		seen = append(seen, k)
		return k != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
