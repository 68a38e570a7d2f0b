package logbook

import (
	"runtime"
	"strconv"
	"strings"
)

// modulePath is the import path prefix of this library. Frames under it
// are skipped when locating the call site of a record.
const modulePath = "github.com/balinomad/go-logbook"

// Frame is an opaque reference to a call site: the raw program counter
// chain captured at the logging call, innermost frame first.
type Frame []uintptr

// CurrentFrame captures the call-site frame chain of the caller.
// A skip of 0 starts the chain at the immediate caller of CurrentFrame;
// each additional skip drops one more frame.
func CurrentFrame(skip int) Frame {
	var pcs [32]uintptr
	// +2 skips runtime.Callers and CurrentFrame itself
	n := runtime.Callers(skip+2, pcs[:])
	if n == 0 {
		return nil
	}
	f := make(Frame, n)
	copy(f, pcs[:n])
	return f
}

// Location converts the frame's call site to file:line format.
// Returns the empty string when the frame is empty or fully internal.
func (f Frame) Location() string {
	cf := f.callingFrame()
	if cf == nil {
		return ""
	}
	return cf.File + ":" + strconv.Itoa(cf.Line)
}

// callingFrame walks the chain outward and returns the first frame that
// does not belong to this library. Returns nil for an empty chain or one
// that never leaves the library.
func (f Frame) callingFrame() *runtime.Frame {
	if len(f) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(f)
	for {
		fr, more := frames.Next()
		if fr.PC != 0 && !isLibraryFunction(fr.Function) {
			return &fr
		}
		if !more {
			return nil
		}
	}
}

// isLibraryFunction reports whether the fully qualified function name
// belongs to this library (root package or any subpackage).
func isLibraryFunction(name string) bool {
	if name == "" {
		return true
	}
	return strings.HasPrefix(name, modulePath+".") || strings.HasPrefix(name, modulePath+"/")
}

// splitFunctionName splits a fully qualified runtime function name into
// the package import path and the bare function name, e.g.
// "github.com/user/app.(*T).Method" -> ("github.com/user/app", "(*T).Method").
func splitFunctionName(name string) (pkg string, fn string) {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return "", name
	}
	dot += slash + 1
	return name[:dot], name[dot+1:]
}
