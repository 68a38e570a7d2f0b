package logbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logbook "github.com/balinomad/go-logbook"
)

func TestLevelValues(t *testing.T) {
	// The numeric values are part of the serialization format.
	assert.Equal(t, logbook.LogLevel(0), logbook.NotSetLevel)
	assert.Equal(t, logbook.LogLevel(1), logbook.DebugLevel)
	assert.Equal(t, logbook.LogLevel(2), logbook.InfoLevel)
	assert.Equal(t, logbook.LogLevel(3), logbook.NoticeLevel)
	assert.Equal(t, logbook.LogLevel(4), logbook.WarningLevel)
	assert.Equal(t, logbook.LogLevel(5), logbook.ErrorLevel)
	assert.Equal(t, logbook.LogLevel(6), logbook.CriticalLevel)
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level logbook.LogLevel
		name  string
	}{
		{logbook.NotSetLevel, "NOTSET"},
		{logbook.DebugLevel, "DEBUG"},
		{logbook.InfoLevel, "INFO"},
		{logbook.NoticeLevel, "NOTICE"},
		{logbook.WarningLevel, "WARNING"},
		{logbook.ErrorLevel, "ERROR"},
		{logbook.CriticalLevel, "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := logbook.LevelName(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.name, tt.level.String())
		})
	}

	t.Run("unknown level", func(t *testing.T) {
		_, err := logbook.LevelName(logbook.LogLevel(42))
		require.Error(t, err)
		assert.ErrorIs(t, err, logbook.ErrUnknownLevel)
		assert.Equal(t, "UNKNOWN (42)", logbook.LogLevel(42).String())
	})
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"CRITICAL", "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG", "NOTSET"} {
		level, err := logbook.ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, level.String())
	}

	t.Run("case-insensitive", func(t *testing.T) {
		level, err := logbook.ParseLevel("warning")
		require.NoError(t, err)
		assert.Equal(t, logbook.WarningLevel, level)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := logbook.ParseLevel("SHOUTING")
		assert.ErrorIs(t, err, logbook.ErrUnknownLevel)
	})
}

func TestValidateLogLevel(t *testing.T) {
	assert.NoError(t, logbook.ValidateLogLevel(logbook.InfoLevel))
	assert.True(t, logbook.IsValidLogLevel(logbook.CriticalLevel))
	assert.False(t, logbook.IsValidLogLevel(logbook.LogLevel(-1)))
	assert.ErrorIs(t, logbook.ValidateLogLevel(logbook.LogLevel(99)), logbook.ErrUnknownLevel)
}
