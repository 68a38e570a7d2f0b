package logbook

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
)

// ExceptionInfo carries the failure that caused a record to be created:
// the error value and the goroutine stack captured at the moment the
// failure was recorded.
type ExceptionInfo struct {
	Err   error
	Stack []byte
}

// NewExceptionInfo captures exception information for err, including the
// current goroutine stack. Returns nil for a nil error.
func NewExceptionInfo(err error) *ExceptionInfo {
	if err == nil {
		return nil
	}
	return &ExceptionInfo{Err: err, Stack: debug.Stack()}
}

// Name returns the fully qualified type name of the error value,
// e.g. "github.com/user/app.timeoutError".
func (e *ExceptionInfo) Name() string {
	t := reflect.TypeOf(e.Err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Message returns the error message.
func (e *ExceptionInfo) Message() string {
	return e.Err.Error()
}

// Formatted renders the failure as a multi-line string: the qualified
// name and message followed by the captured stack.
func (e *ExceptionInfo) Formatted() string {
	var sb strings.Builder
	sb.WriteString(e.Name())
	sb.WriteString(": ")
	sb.WriteString(e.Message())
	if len(e.Stack) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(string(e.Stack), "\n"))
	}
	return sb.String()
}

// panicToError converts a recovered panic value into an error.
func panicToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(v))
}
