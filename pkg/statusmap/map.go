// Package statusmap holds converted status entries in row order, keyed by
// canonical status labels.
package statusmap

import (
	"github.com/leapstack-labs/statusrules/pkg/core"
)

// Map is the ordered mapping from canonical key to StatusEntry produced by a
// conversion. It is grown one row at a time and not modified afterwards.
type Map struct {
	entries *Ordered[core.StatusEntry]
	// overwrite makes a repeated key replace the earlier entry instead of
	// receiving a numeric suffix.
	overwrite bool
}

// New creates a Map that disambiguates repeated keys with _2, _3, ...
func New() *Map {
	return &Map{entries: NewOrdered[core.StatusEntry]()}
}

// NewOverwriting creates a Map where a repeated key replaces the earlier
// entry in place. This reproduces the legacy converter's behaviour.
func NewOverwriting() *Map {
	return &Map{entries: NewOrdered[core.StatusEntry](), overwrite: true}
}

// Add canonicalizes label, stores entry under a free key and returns the key
// used.
func (m *Map) Add(label string, entry core.StatusEntry) string {
	key := CanonicalKey(label)
	if !m.overwrite {
		key = uniqueKey(key, m.entries.Has)
	}
	m.entries.Set(key, entry)
	return key
}

// Get returns the entry stored under key.
func (m *Map) Get(key string) (core.StatusEntry, bool) {
	return m.entries.Get(key)
}

// Keys returns the keys in row order.
func (m *Map) Keys() []string {
	return m.entries.Keys()
}

// Len returns the number of status blocks.
func (m *Map) Len() int {
	return m.entries.Len()
}

// Each calls fn for every entry in row order.
func (m *Map) Each(fn func(key string, entry core.StatusEntry)) {
	m.entries.Each(fn)
}

// MarshalJSON writes the map as a JSON object in row order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.entries.MarshalJSON()
}
