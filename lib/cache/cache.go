// Package cache holds serialized operation responses keyed by
// operation+parameters. Entries carry their own TTL; reads of expired
// entries behave as misses.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

type entry struct {
	payload []byte
	expires time.Time
}

// Memory is a bounded in-memory cache: least-recently-used eviction caps
// the footprint, per-entry expiry caps staleness. Get and Set are
// independent lock-scoped operations; there is no get-then-set atomicity,
// which is fine because entries are idempotent re-derivations of upstream
// data.
type Memory struct {
	entries *lru.Cache[string, entry]
}

func NewMemory(capacity int) (*Memory, error) {
	entries, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: entries}, nil
}

func (m *Memory) Get(key string) ([]byte, bool) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		m.entries.Remove(key)
		return nil, false
	}
	return e.payload, true
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.entries.Add(key, entry{payload: value, expires: time.Now().Add(ttl)})
}
