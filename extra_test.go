package logbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	logbook "github.com/balinomad/go-logbook"
)

func TestExtraMapDefaults(t *testing.T) {
	m := logbook.NewExtraMap(nil)

	assert.Equal(t, "", m.Get("absent"))
	assert.Equal(t, 0, m.Len())

	_, ok := m.Lookup("absent")
	assert.False(t, ok)
}

func TestExtraMapSetGet(t *testing.T) {
	m := logbook.NewExtraMap(map[string]any{"seed": 1})
	m.Set("ip", "127.0.0.1")

	assert.Equal(t, "127.0.0.1", m.Get("ip"))
	assert.Equal(t, 1, m.Get("seed"))
	assert.Equal(t, 2, m.Len())

	m.Delete("seed")
	assert.Equal(t, "", m.Get("seed"))
	assert.Equal(t, 1, m.Len())
}

func TestExtraMapAsMap(t *testing.T) {
	m := logbook.NewExtraMap(map[string]any{"a": 1, "b": "two"})

	plain := m.AsMap()
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, plain)

	// The export is a copy; the empty-string default does not apply.
	_, ok := plain["absent"]
	assert.False(t, ok)

	plain["c"] = 3
	assert.Equal(t, 2, m.Len())
}

func TestExtraMapSeedCopied(t *testing.T) {
	seed := map[string]any{"a": 1}
	m := logbook.NewExtraMap(seed)
	seed["b"] = 2

	assert.Equal(t, 1, m.Len())
}

func TestExtraMapString(t *testing.T) {
	m := logbook.NewExtraMap(map[string]any{"b": 2, "a": 1})
	assert.Equal(t, "a=1 b=2", m.String())
}
