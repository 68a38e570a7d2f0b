package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"weak"

	"github.com/balinomad/go-logbook/internal/runtimeutil"
)

// Record represents a single event being logged. Records are created by
// a dispatcher for every accepted logging call and carry all information
// pertinent to the event.
//
// Lifecycle:
//   - Construction copies the cheap inputs only.
//   - HeavyInit captures timestamp, PID and call site once at least one
//     interested handler exists.
//   - Derived fields are computed lazily and memoized on first access.
//   - PullInformation forces every derivation, after which the record
//     can safely cross goroutine and serialization boundaries.
//   - Close drops the frame and exception references; the dispatcher
//     closes records automatically unless a handler sets KeepOpen.
type Record struct {
	// Channel is the descriptive name of the logger that created the
	// record. It is meant for display, not for filtering.
	Channel string

	// Msg is the message template, opaque until formatting.
	Msg string

	// Args are the positional arguments for the template.
	Args []any

	// Kwargs are the named arguments for the template.
	Kwargs map[string]any

	// Level is the severity of the record.
	Level LogLevel

	// ExcInfo is the optional failure that triggered the record.
	ExcInfo *ExceptionInfo

	// Extra holds custom context attached by processors and callers.
	Extra *ExtraMap

	// Frame is the call-site reference. Nil until supplied by the
	// caller or captured during heavy initialization.
	Frame Frame

	// KeepOpen can be set by a handler to claim ownership of the
	// record. The dispatcher then skips closing it and the handler
	// becomes responsible for calling Close. Use carefully: an unclosed
	// record keeps its frame and exception references alive.
	KeepOpen bool

	// Time is the UTC creation time, set by HeavyInit.
	Time time.Time

	// Process is the PID, set by HeavyInit.
	Process int

	// HeavyInitialized is true once heavy initialization ran.
	HeavyInitialized bool

	// Late is true when heavy initialization is no longer possible.
	Late bool

	// InformationPulled is true once every derived field was
	// materialized by PullInformation.
	InformationPulled bool

	dispatcher weak.Pointer[RecordDispatcher]

	message     string
	messageErr  error
	messageOnce bool

	callingFrame *runtime.Frame
	frameOnce    bool

	funcName      string
	module        string
	filename      string
	lineno        int
	frameInfoOnce bool

	thread     uint64
	threadOnce bool

	threadName     string
	threadNameOnce bool

	processName     string
	processNameOnce bool

	exceptionName      string
	exceptionMessage   string
	formattedException string
	exceptionOnce      bool
}

// NewRecord creates a record from the given inputs. The dispatcher
// reference is weak: records never extend a dispatcher's lifetime.
func NewRecord(channel string, level LogLevel, msg string, args []any,
	kwargs map[string]any, excInfo *ExceptionInfo, extra map[string]any,
	frame Frame, dispatcher *RecordDispatcher) *Record {

	r := &Record{
		Channel: channel,
		Msg:     msg,
		Args:    args,
		Kwargs:  kwargs,
		Level:   level,
		ExcInfo: excInfo,
		Extra:   NewExtraMap(extra),
		Frame:   frame,
	}
	if dispatcher != nil {
		r.dispatcher = weak.Make(dispatcher)
	}

	return r
}

// Dispatcher returns the dispatcher that created the record, or nil if
// the record was created without one or the dispatcher is gone.
func (r *Record) Dispatcher() *RecordDispatcher {
	return r.dispatcher.Value()
}

// HeavyInit does the initialization that could be expensive: timestamp,
// PID and, if no frame was supplied, the current call-site capture.
// It is idempotent. Calling it after the record became late is a
// contract violation and panics.
//
// This is internally used by the record dispatching system and usually
// something not to worry about.
func (r *Record) HeavyInit() {
	if r.HeavyInitialized {
		return
	}
	if r.Late {
		panic("logbook: heavy init is no longer possible")
	}
	r.HeavyInitialized = true
	r.Process = os.Getpid()
	r.Time = time.Now().UTC()
	if r.Frame == nil {
		r.Frame = CurrentFrame(1)
	}
}

// CallingFrame returns the frame in which the record has been created:
// the first frame of the captured chain that is not internal to this
// library. Returns nil once the record is closed, even if the frame was
// resolved before; the derived function, file and line stay available.
func (r *Record) CallingFrame() *runtime.Frame {
	if !r.frameOnce {
		r.callingFrame = r.Frame.callingFrame()
		r.frameOnce = true
	}
	return r.callingFrame
}

// ensureFrameInfo derives function, module, file and line from the
// calling frame once.
func (r *Record) ensureFrameInfo() {
	if r.frameInfoOnce {
		return
	}
	r.frameInfoOnce = true

	cf := r.CallingFrame()
	if cf == nil {
		return
	}
	r.module, r.funcName = splitFunctionName(cf.Function)
	r.lineno = cf.Line

	fn := cf.File
	if strings.HasPrefix(fn, "<") && strings.HasSuffix(fn, ">") {
		r.filename = fn
	} else if abs, err := filepath.Abs(fn); err == nil {
		r.filename = abs
	} else {
		r.filename = fn
	}
}

// FuncName returns the name of the function that triggered the log call
// if available. Requires a frame or a prior PullInformation.
func (r *Record) FuncName() string {
	r.ensureFrameInfo()
	return r.funcName
}

// Module returns the import path of the package that triggered the log
// call if available.
func (r *Record) Module() string {
	r.ensureFrameInfo()
	return r.module
}

// Filename returns the file in which the record has been created,
// normalized to an absolute path unless synthetic ("<...>").
func (r *Record) Filename() string {
	r.ensureFrameInfo()
	return r.filename
}

// Lineno returns the line number at which the record has been created.
func (r *Record) Lineno() int {
	r.ensureFrameInfo()
	return r.lineno
}

// Thread returns the id of the goroutine the record was evaluated on.
// This is captured at first access: if the record is passed to another
// goroutine, call PullInformation on the originating one first.
func (r *Record) Thread() uint64 {
	if !r.threadOnce {
		r.thread = runtimeutil.GoroutineID()
		r.threadOnce = true
	}
	return r.thread
}

// ThreadName returns a display name for the originating goroutine.
// Goroutines carry no names, so this derives one from the id.
func (r *Record) ThreadName() string {
	if !r.threadNameOnce {
		r.threadName = fmt.Sprintf("goroutine-%d", r.Thread())
		r.threadNameOnce = true
	}
	return r.threadName
}

// ProcessName returns the name of the process the record was created in.
func (r *Record) ProcessName() string {
	if !r.processNameOnce {
		if len(os.Args) > 0 && os.Args[0] != "" {
			r.processName = filepath.Base(os.Args[0])
		}
		r.processNameOnce = true
	}
	return r.processName
}

// ensureExceptionInfo derives the exception fields once. They stay
// empty for records without exception information.
func (r *Record) ensureExceptionInfo() {
	if r.exceptionOnce {
		return
	}
	r.exceptionOnce = true

	if r.ExcInfo == nil {
		return
	}
	r.exceptionName = r.ExcInfo.Name()
	r.exceptionMessage = r.ExcInfo.Message()
	r.formattedException = r.ExcInfo.Formatted()
}

// ExceptionName returns the fully qualified type name of the failure
// that caused this record, or the empty string.
func (r *Record) ExceptionName() string {
	r.ensureExceptionInfo()
	return r.exceptionName
}

// ExceptionShortname returns the exception name without the package path.
func (r *Record) ExceptionShortname() string {
	name := r.ExceptionName()
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ExceptionMessage returns the message of the failure, or the empty string.
func (r *Record) ExceptionMessage() string {
	r.ensureExceptionInfo()
	return r.exceptionMessage
}

// FormattedException returns the rendered failure including its captured
// stack, or the empty string.
func (r *Record) FormattedException() string {
	r.ensureExceptionInfo()
	return r.formattedException
}

// Message returns the formatted message. With no arguments the template
// is returned verbatim; otherwise it is rendered against Args and
// Kwargs. A failed rendering returns a *FormatError carrying the
// template, the arguments and the call site.
func (r *Record) Message() (string, error) {
	if !r.messageOnce {
		r.messageOnce = true
		if len(r.Args) == 0 && len(r.Kwargs) == 0 {
			r.message = r.Msg
		} else {
			msg, err := formatMessage(r.Msg, r.Args, r.Kwargs)
			if err != nil {
				r.messageErr = &FormatError{
					Template: r.Msg,
					Args:     r.Args,
					Kwargs:   r.Kwargs,
					File:     r.Filename(),
					Line:     r.Lineno(),
					Err:      err,
				}
			} else {
				r.message = msg
			}
		}
	}
	return r.message, r.messageErr
}

// LevelName returns the name of the record's level.
func (r *Record) LevelName() string {
	return r.Level.String()
}

// PullInformation materializes every derived field so that it stays
// available after the record is closed or crosses a goroutine boundary.
// Idempotent. Returns the message formatting error, if any; the frame
// and thread derivations are still pulled in that case.
func (r *Record) PullInformation() error {
	if r.InformationPulled {
		return r.messageErr
	}

	r.CallingFrame()
	r.ensureFrameInfo()
	r.Thread()
	r.ThreadName()
	r.ProcessName()
	r.ensureExceptionInfo()
	if _, err := r.Message(); err != nil {
		return err
	}
	r.InformationPulled = true

	return nil
}

// Close closes the record: the exception and frame references are
// dropped so the record no longer pins stack data, and heavy
// initialization becomes impossible. Derivations memoized before the
// close remain available.
func (r *Record) Close() {
	r.ExcInfo = nil
	r.Frame = nil
	r.callingFrame = nil
	r.frameOnce = true
	r.Late = true
}

// ToDict exports the record into a map without the fields that cannot be
// safely serialized (frames, exception values). Derived information is
// pulled first. With jsonSafe, all values are post-processed to be
// JSON-representable: timestamps become ISO-8601 strings, byte slices
// become UTF-8 text, unknown objects their string form.
func (r *Record) ToDict(jsonSafe bool) (map[string]any, error) {
	if err := r.PullInformation(); err != nil {
		return nil, err
	}

	message, _ := r.Message()
	rv := map[string]any{
		"channel":             r.Channel,
		"msg":                 r.Msg,
		"args":                r.Args,
		"kwargs":              r.Kwargs,
		"level":               int(r.Level),
		"level_name":          r.Level.String(),
		"extra":               r.Extra.AsMap(),
		"time":                r.Time,
		"process":             r.Process,
		"process_name":        r.ProcessName(),
		"thread":              r.Thread(),
		"thread_name":         r.ThreadName(),
		"func_name":           r.FuncName(),
		"module":              r.Module(),
		"filename":            r.Filename(),
		"lineno":              r.Lineno(),
		"message":             message,
		"exception_name":      r.ExceptionName(),
		"exception_message":   r.ExceptionMessage(),
		"formatted_exception": r.FormattedException(),
	}

	if jsonSafe {
		for k, v := range rv {
			rv[k] = toSafeJSON(v)
		}
	}

	return rv, nil
}

// FromDict creates a record from an exported map. This also supports
// JSON-decoded maps. Unknown keys are ignored; missing keys leave their
// fields zero.
func FromDict(d map[string]any) (*Record, error) {
	r := &Record{}
	if err := r.UpdateFromDict(d); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateFromDict is the in-place counterpart of FromDict. The record is
// marked heavy-initialized, pulled and late: reconstruction skips
// construction and the frame-bound derivations are taken from the map.
func (r *Record) UpdateFromDict(d map[string]any) error {
	var err error
	for key, value := range d {
		switch key {
		case "channel":
			r.Channel, err = asString(key, value)
		case "msg":
			r.Msg, err = asString(key, value)
		case "args":
			r.Args, err = asSlice(key, value)
		case "kwargs":
			r.Kwargs, err = asStringMap(key, value)
		case "level":
			var n int
			n, err = asInt(key, value)
			r.Level = LogLevel(n)
		case "extra":
			var m map[string]any
			m, err = asStringMap(key, value)
			r.Extra = NewExtraMap(m)
		case "time":
			r.Time, err = asTime(key, value)
		case "process":
			r.Process, err = asInt(key, value)
		case "process_name":
			r.processName, err = asString(key, value)
		case "thread":
			r.thread, err = asUint64(key, value)
		case "thread_name":
			r.threadName, err = asString(key, value)
		case "func_name":
			r.funcName, err = asString(key, value)
		case "module":
			r.module, err = asString(key, value)
		case "filename":
			r.filename, err = asString(key, value)
		case "lineno":
			r.lineno, err = asInt(key, value)
		case "message":
			r.message, err = asString(key, value)
		case "exception_name":
			r.exceptionName, err = asString(key, value)
		case "exception_message":
			r.exceptionMessage, err = asString(key, value)
		case "formatted_exception":
			r.formattedException, err = asString(key, value)
		}
		if err != nil {
			return err
		}
	}

	if r.Extra == nil {
		r.Extra = NewExtraMap(nil)
	}

	// Reconstructed records behave like pulled ones: every derivation is
	// considered materialized and the frame references stay nil.
	r.ExcInfo = nil
	r.Frame = nil
	r.callingFrame = nil
	r.frameOnce = true
	r.frameInfoOnce = true
	r.threadOnce = true
	r.threadNameOnce = true
	r.processNameOnce = true
	r.messageOnce = true
	r.exceptionOnce = true
	r.HeavyInitialized = true
	r.InformationPulled = true
	r.Late = true

	return nil
}

// toSafeJSON converts a value into a JSON-representable form.
func toSafeJSON(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case []byte:
		return strings.ToValidUTF8(string(t), "�")
	case map[string]any:
		rv := make(map[string]any, len(t))
		for k, val := range t {
			rv[k] = toSafeJSON(val)
		}
		return rv
	case []any:
		rv := make([]any, len(t))
		for i, val := range t {
			rv[i] = toSafeJSON(val)
		}
		return rv
	default:
		return fmt.Sprint(v)
	}
}

// --- Map import coercions ---

func asString(key string, v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("logbook: field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func asInt(key string, v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return t, nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float64:
		return int(t), nil
	case LogLevel:
		return int(t), nil
	}
	return 0, fmt.Errorf("logbook: field %q: expected integer, got %T", key, v)
}

func asUint64(key string, v any) (uint64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	}
	return 0, fmt.Errorf("logbook: field %q: expected integer, got %T", key, v)
}

func asSlice(key string, v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("logbook: field %q: expected list, got %T", key, v)
	}
	return s, nil
}

func asStringMap(key string, v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("logbook: field %q: expected map, got %T", key, v)
	}
	return m, nil
}

func asTime(key string, v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("logbook: field %q: %w", key, err)
		}
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("logbook: field %q: expected time, got %T", key, v)
}
