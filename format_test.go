package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		kwargs   map[string]any
		want     string
	}{
		{"auto fields", "hello {} and {}", []any{"a", "b"}, nil, "hello a and b"},
		{"indexed fields", "{1} before {0}", []any{"a", "b"}, nil, "b before a"},
		{"named fields", "user {name} from {ip}", nil, map[string]any{"name": "joe", "ip": "::1"}, "user joe from ::1"},
		{"mixed", "{} = {value}", []any{"x"}, map[string]any{"value": 42}, "x = 42"},
		{"escaped braces", "{{literal}} {}", []any{1}, nil, "{literal} 1"},
		{"ignored spec", "{0:>8}", []any{"pad"}, nil, "pad"},
		{"no fields", "plain", []any{"unused"}, nil, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatMessage(tt.template, tt.args, tt.kwargs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMessageErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		kwargs   map[string]any
	}{
		{"missing positional", "{} {}", []any{"only"}, nil},
		{"index out of range", "{3}", []any{"a"}, nil},
		{"missing named", "{nope}", nil, map[string]any{"yep": 1}},
		{"dangling open brace", "oops {", nil, nil},
		{"dangling close brace", "oops }", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formatMessage(tt.template, tt.args, tt.kwargs)
			assert.Error(t, err)
		})
	}
}
