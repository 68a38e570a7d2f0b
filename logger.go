package logbook

import "fmt"

// defaultCatchMessage is used by CatchExceptions when no message was supplied.
const defaultCatchMessage = "Uncaught exception occurred"

// Options carries the optional inputs of a logging call beyond the
// message template and its positional arguments.
type Options struct {
	// Kwargs are the named arguments for the message template.
	Kwargs map[string]any

	// ExcInfo attaches exception information to the record.
	ExcInfo *ExceptionInfo

	// Extra seeds the record's extra map with custom context.
	Extra map[string]any

	// Frame overrides the captured call site. Leave nil to let heavy
	// initialization capture the current one. A supplied frame is used
	// as-is, but resolving its call site still skips any leading frames
	// of this library that it contains.
	Frame Frame
}

// Logger represents a single logging channel. A "logging channel"
// indicates an area of an application; exactly how an "area" is defined
// is up to the application developer.
//
// Names are descriptive and intended for display, not for filtering.
// Filtering should happen based on context information instead.
//
// A Logger is a RecordDispatcher with the usual level-named entry
// points on top; custom dispatchers can use RecordDispatcher directly.
type Logger struct {
	RecordDispatcher
}

// NewLogger creates a logger for the given channel name with an
// inherited (NotSetLevel) level.
func NewLogger(name string) *Logger {
	return &Logger{RecordDispatcher: RecordDispatcher{name: name}}
}

// Debug logs a record at DebugLevel.
func (l *Logger) Debug(msg string, args ...any) {
	if DebugLevel >= l.Level() {
		l.logRecord(DebugLevel, msg, args, Options{})
	}
}

// Info logs a record at InfoLevel.
func (l *Logger) Info(msg string, args ...any) {
	if InfoLevel >= l.Level() {
		l.logRecord(InfoLevel, msg, args, Options{})
	}
}

// Notice logs a record at NoticeLevel.
func (l *Logger) Notice(msg string, args ...any) {
	if NoticeLevel >= l.Level() {
		l.logRecord(NoticeLevel, msg, args, Options{})
	}
}

// Warn logs a record at WarningLevel.
func (l *Logger) Warn(msg string, args ...any) {
	if WarningLevel >= l.Level() {
		l.logRecord(WarningLevel, msg, args, Options{})
	}
}

// Warning is an alias for Warn.
func (l *Logger) Warning(msg string, args ...any) {
	l.Warn(msg, args...)
}

// Error logs a record at ErrorLevel.
func (l *Logger) Error(msg string, args ...any) {
	if ErrorLevel >= l.Level() {
		l.logRecord(ErrorLevel, msg, args, Options{})
	}
}

// Critical logs a record at CriticalLevel.
func (l *Logger) Critical(msg string, args ...any) {
	if CriticalLevel >= l.Level() {
		l.logRecord(CriticalLevel, msg, args, Options{})
	}
}

// Log logs a record at the given level. Custom levels are not
// supported, but arbitrary integer levels pass through unvalidated so
// callers can use intermediate thresholds.
func (l *Logger) Log(level LogLevel, msg string, args ...any) {
	if level >= l.Level() {
		l.logRecord(level, msg, args, Options{})
	}
}

// LogWith logs a record at the given level with full control over the
// named arguments, exception information, extra context and call site.
func (l *Logger) LogWith(level LogLevel, msg string, args []any, opts Options) {
	if level >= l.Level() {
		l.logRecord(level, msg, args, opts)
	}
}

// Exception works exactly like Error but records the given failure as
// exception information. Calling it without an error is a contract
// violation and panics.
func (l *Logger) Exception(err error, msg string, args ...any) {
	if err == nil {
		panic("logbook: no exception occurred")
	}
	if ErrorLevel >= l.Level() {
		l.logRecord(ErrorLevel, msg, args, Options{ExcInfo: NewExceptionInfo(err)})
	}
}

// CatchExceptions converts a panic into an error-level record and
// absorbs it. It must be deferred directly:
//
//	defer logger.CatchExceptions()
//	executeCodeThatMightFail()
//
// An optional message and positional arguments can be supplied; the
// default message is "Uncaught exception occurred".
func (l *Logger) CatchExceptions(msgAndArgs ...any) {
	v := recover()
	if v == nil {
		return
	}

	msg := defaultCatchMessage
	var args []any
	if len(msgAndArgs) > 0 {
		msg = fmt.Sprint(msgAndArgs[0])
		args = msgAndArgs[1:]
	}

	if ErrorLevel >= l.Level() {
		l.logRecord(ErrorLevel, msg, args, Options{ExcInfo: NewExceptionInfo(panicToError(v))})
	}
}

// logRecord hands the call over to the dispatcher.
func (l *Logger) logRecord(level LogLevel, msg string, args []any, opts Options) {
	l.makeRecordAndHandle(level, msg, args, opts.Kwargs, opts.ExcInfo, opts.Extra, opts.Frame)
}
