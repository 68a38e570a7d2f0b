package logbook_test

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logbook "github.com/balinomad/go-logbook"
)

func TestLoggerLevelGating(t *testing.T) {
	l := logbook.NewLogger("gated")
	l.SetLevel(logbook.WarningLevel)

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	l.Debug("no")
	l.Info("no")
	l.Notice("no")
	l.Warn("yes")
	l.Error("yes")
	l.Critical("yes")

	assert.Equal(t, []string{"yes", "yes", "yes"}, h.Messages())

	records := h.Records()
	require.Len(t, records, 3)
	assert.Equal(t, logbook.WarningLevel, records[0].Level)
	assert.Equal(t, logbook.ErrorLevel, records[1].Level)
	assert.Equal(t, logbook.CriticalLevel, records[2].Level)
}

func TestLoggerLevelMonotonicity(t *testing.T) {
	// Every record at or above the threshold is delivered.
	for threshold := logbook.NotSetLevel; threshold <= logbook.CriticalLevel; threshold++ {
		l := logbook.NewLogger("mono")
		l.SetLevel(threshold)

		h := newTestHandler(logbook.NotSetLevel, true)
		h.PushThread()

		for level := logbook.DebugLevel; level <= logbook.CriticalLevel; level++ {
			l.Log(level, "m")
		}

		want := int(logbook.CriticalLevel - max(threshold, logbook.DebugLevel) + 1)
		assert.Len(t, h.Records(), want, "threshold %v", threshold)

		h.PopThread()
	}
}

func TestLoggerMessageFormatting(t *testing.T) {
	l := logbook.NewLogger("fmt")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	l.Info("hello {}", "world")
	l.LogWith(logbook.InfoLevel, "user {name}", nil, logbook.Options{
		Kwargs: map[string]any{"name": "joe"},
	})

	assert.Equal(t, []string{"hello world", "user joe"}, h.Messages())
}

func TestLoggerWarningAlias(t *testing.T) {
	l := logbook.NewLogger("alias")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	l.Warning("careful {}", 1)

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, logbook.WarningLevel, records[0].Level)
	assert.Equal(t, []string{"careful 1"}, h.Messages())
}

func TestLoggerArbitraryIntegerLevel(t *testing.T) {
	l := logbook.NewLogger("custom")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	l.Log(logbook.LogLevel(99), "way up")

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, logbook.LogLevel(99), records[0].Level)
	assert.Equal(t, "UNKNOWN (99)", records[0].LevelName())
}

func TestLoggerExtraOption(t *testing.T) {
	l := logbook.NewLogger("extra")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	l.LogWith(logbook.InfoLevel, "ctx", nil, logbook.Options{
		Extra: map[string]any{"request_id": "abc123"},
	})

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "abc123", records[0].Extra.Get("request_id"))
}

func TestLoggerException(t *testing.T) {
	l := logbook.NewLogger("exc")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	err := &timeoutError{op: "read"}
	l.Exception(err, "oops")

	records := h.Records()
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, logbook.ErrorLevel, r.Level)
	assert.Contains(t, r.ExceptionName(), "timeoutError")
	assert.Equal(t, "operation read timed out", r.ExceptionMessage())
	assert.NotEmpty(t, r.FormattedException())
	assert.Equal(t, []string{"oops"}, h.Messages())
}

func TestLoggerExceptionWithoutErrorPanics(t *testing.T) {
	l := logbook.NewLogger("exc")

	assert.Panics(t, func() { l.Exception(nil, "nothing happened") })
}

func TestCatchExceptions(t *testing.T) {
	l := logbook.NewLogger("catch")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	func() {
		defer l.CatchExceptions()
		panic(errors.New("explode"))
	}()

	// The failure is absorbed and exactly one error record exists.
	records := h.Records()
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, logbook.ErrorLevel, r.Level)
	assert.Equal(t, "explode", r.ExceptionMessage())
	assert.NotEmpty(t, r.FormattedException())
	assert.Equal(t, []string{"Uncaught exception occurred"}, h.Messages())
}

func TestCatchExceptionsCustomMessage(t *testing.T) {
	l := logbook.NewLogger("catch")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	func() {
		defer l.CatchExceptions("job {} failed", "cleanup")
		panic("disk full")
	}()

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "disk full", records[0].ExceptionMessage())
	assert.Equal(t, []string{"job cleanup failed"}, h.Messages())
}

func TestCatchExceptionsNoPanic(t *testing.T) {
	l := logbook.NewLogger("catch")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	func() {
		defer l.CatchExceptions()
	}()

	assert.Empty(t, h.Records())
}

func TestRecordLocatesUserCallSite(t *testing.T) {
	l := logbook.NewLogger("frames")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	_, file, line, ok := runtime.Caller(0)
	l.Info("from user code")

	require.True(t, ok)
	records := h.Records()
	require.Len(t, records, 1)
	r := records[0]

	abs, err := filepath.Abs(file)
	require.NoError(t, err)
	assert.Equal(t, abs, r.Filename())
	assert.Equal(t, line+1, r.Lineno())
	assert.Equal(t, "TestRecordLocatesUserCallSite", r.FuncName())
	assert.NotZero(t, r.Thread())
	assert.NotEmpty(t, r.ThreadName())
}

func TestLoggerFrameOverride(t *testing.T) {
	l := logbook.NewLogger("site")

	h := newTestHandler(logbook.NotSetLevel, true)
	h.PushThread()
	defer h.PopThread()

	frame := logbook.CurrentFrame(0)
	frameLine := mustCallerLine(t) - 1

	l.LogWith(logbook.InfoLevel, "elsewhere", nil, logbook.Options{Frame: frame})

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, frameLine, records[0].Lineno())
}

// mustCallerLine returns the line number of its call site.
func mustCallerLine(t *testing.T) int {
	t.Helper()
	_, _, line, ok := runtime.Caller(1)
	require.True(t, ok)
	return line
}

func TestContextCarriesLogger(t *testing.T) {
	l := logbook.NewLogger("ctx")
	ctx := logbook.WithLogger(context.Background(), l)

	got, ok := logbook.LoggerFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, l, got)

	_, ok = logbook.LoggerFromContext(context.Background())
	assert.False(t, ok)
}
