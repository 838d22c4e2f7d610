// Package cache is a small in-memory TTL cache for data fetched from the
// backend that is read far more often than it changes: the signed-in
// profile and document entitlement descriptors.
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const ProfileKey = "profile"

func DescriptorKey(documentID string) string {
	return fmt.Sprintf("descriptor:%s", documentID)
}

// Cache wraps go-cache. A zero or negative TTL disables caching.
type Cache struct {
	c   *gocache.Cache
	ttl time.Duration
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{}
	}
	return &Cache{c: gocache.New(ttl, time.Minute), ttl: ttl}
}

func (m *Cache) Enabled() bool { return m != nil && m.c != nil }

func (m *Cache) Get(k string) (any, bool) {
	if !m.Enabled() {
		return nil, false
	}
	return m.c.Get(k)
}

func (m *Cache) Set(k string, v any) {
	if !m.Enabled() {
		return
	}
	m.c.Set(k, v, gocache.DefaultExpiration)
}

func (m *Cache) Delete(k string) {
	if m.Enabled() {
		m.c.Delete(k)
	}
}

// Flush drops every entry.
func (m *Cache) Flush() {
	if m.Enabled() {
		m.c.Flush()
	}
}

func (m *Cache) Len() int {
	if !m.Enabled() {
		return 0
	}
	return m.c.ItemCount()
}

// Lookup is a typed Get. Entries of another type count as misses.
func Lookup[T any](m *Cache, k string) (T, bool) {
	var zero T
	v, ok := m.Get(k)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
