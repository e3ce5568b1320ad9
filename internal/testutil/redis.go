package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// Ansible redis fact cache layout, duplicated here so testutil has no
// dependency on the packages under test.
const (
	factCachePrefix = "ansible_facts"
	factCacheKeySet = "ansible_cache_keys"
)

// StartFactCache starts an in-process redis server. It is closed when the test ends.
func StartFactCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

// SeedFacts stores a host's facts document the way the Ansible redis cache
// plugin does: the JSON string under <prefix><host>, the host in the key set.
func SeedFacts(t *testing.T, mr *miniredis.Miniredis, host string, doc []byte) {
	t.Helper()

	if err := mr.Set(factCachePrefix+host, string(doc)); err != nil {
		t.Fatalf("seeding facts for %s: %v", host, err)
	}
	if _, err := mr.ZAdd(factCacheKeySet, float64(len(mr.Keys())), host); err != nil {
		t.Fatalf("indexing %s: %v", host, err)
	}
}
