package logbook

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ExtraMap is a thread-safe map for custom record context. Processors
// attach context-sensitive data here as a record passes through the
// dispatch pipeline.
//
// Uses RWMutex for optimal read performance since records are typically
// written to once (by processors) and read many times (by handlers and
// serialization).
//
// Reads of absent keys return the empty string so that format templates
// can reference optional context without guarding every access.
type ExtraMap struct {
	mu sync.RWMutex
	kv map[string]any
}

// Ensure ExtraMap implements the fmt.Stringer interface.
var _ fmt.Stringer = (*ExtraMap)(nil)

// NewExtraMap creates an ExtraMap, optionally seeded from init.
// The init map is copied; later mutations of it are not observed.
func NewExtraMap(init map[string]any) *ExtraMap {
	kv := make(map[string]any, len(init))
	maps.Copy(kv, init)
	return &ExtraMap{kv: kv}
}

// Get retrieves the value associated with the given key. Absent keys
// yield the empty string.
func (m *ExtraMap) Get(key string) any {
	m.mu.RLock()
	v, ok := m.kv[key]
	m.mu.RUnlock()

	if !ok {
		return ""
	}
	return v
}

// Lookup retrieves the value associated with the given key and a boolean
// indicating whether the key is present.
func (m *ExtraMap) Lookup(key string) (any, bool) {
	m.mu.RLock()
	v, ok := m.kv[key]
	m.mu.RUnlock()
	return v, ok
}

// Set sets key to value.
func (m *ExtraMap) Set(key string, value any) {
	m.mu.Lock()
	m.kv[key] = value
	m.mu.Unlock()
}

// Delete removes key from the map.
func (m *ExtraMap) Delete(key string) {
	m.mu.Lock()
	delete(m.kv, key)
	m.mu.Unlock()
}

// Len returns the number of entries.
func (m *ExtraMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.kv)
}

// AsMap returns the entries as a plain map. The result is a copy; the
// empty-string default does not apply to it.
func (m *ExtraMap) AsMap() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.kv)
}

// String returns the entries as "k=v" pairs in key order.
func (m *ExtraMap) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(m.kv))

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprint(m.kv[k]))
	}

	return sb.String()
}
