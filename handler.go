package logbook

import (
	"sync"
	"sync/atomic"
)

// handlers is the context registry shared by all Handler implementations.
var handlers = newContextRegistry[Handler]()

// FilterFunc can veto the delivery of a record to a single handler.
// It receives the record and the handler it is about to be delivered to.
type FilterFunc func(record *Record, handler Handler) bool

// Handler is the contract consumed by the record dispatcher. Concrete
// sinks (files, streams, sockets) implement it elsewhere; the dispatcher
// only relies on the surface below and on the stack operations that make
// a handler discoverable as a context object.
type Handler interface {
	Stacked

	// Level returns the minimum level of records this handler accepts.
	// Records below it are skipped without further work.
	Level() LogLevel

	// Blackhole reports whether the handler terminates dispatch
	// immediately, dropping the record before heavy initialization.
	Blackhole() bool

	// Bubble reports whether a record handled by this handler continues
	// on to the handlers below it.
	Bubble() bool

	// Filter returns the handler's filter or nil.
	Filter() FilterFunc

	// Handle processes a record and reports whether it was accepted.
	// A handler may set record.KeepOpen to claim ownership, in which
	// case it becomes responsible for closing the record.
	Handle(record *Record) bool
}

// StateFlag is a set of flags used to track handler state.
type StateFlag uint32

const (
	FlagBlackhole StateFlag = 1 << iota // Terminate dispatch without delivering
	FlagBubble                          // Let handled records continue to later handlers
)

// BaseHandler provides the shared state machinery for handler
// implementations: the minimum level, the blackhole and bubble flags,
// the optional filter, and the stack operations against the handler
// context registry.
//
// Concurrency Model:
//   - Level and flags use atomics so the dispatch hot path reads them
//     lock-free.
//   - The filter is guarded by an RWMutex (cold path).
//
// Embedding:
//
// A concrete handler embeds *BaseHandler and passes itself to
// NewBaseHandler so that the stack operations register the concrete
// type rather than the base:
//
//	type myHandler struct {
//	    *BaseHandler
//	}
//	func NewMyHandler(level LogLevel) *myHandler {
//	    h := &myHandler{}
//	    h.BaseHandler = NewBaseHandler(h, level, true)
//	    return h
//	}
type BaseHandler struct {
	mu     sync.RWMutex
	level  atomic.Int32
	flags  atomic.Uint32
	filter FilterFunc
	self   Handler
}

// Ensure BaseHandler implements Handler.
var _ Handler = (*BaseHandler)(nil)

// NewBaseHandler initializes a BaseHandler. The bind argument is the
// concrete handler placed on the context stacks; pass nil to bind the
// base handler itself. A NotSetLevel handler accepts every record.
func NewBaseHandler(bind Handler, level LogLevel, bubble bool) *BaseHandler {
	h := &BaseHandler{}
	h.level.Store(int32(level))
	h.SetFlag(FlagBubble, bubble)
	if bind == nil {
		h.self = h
	} else {
		h.self = bind
	}

	return h
}

// Level returns the minimum accepted record level.
func (h *BaseHandler) Level() LogLevel {
	return LogLevel(h.level.Load())
}

// SetLevel changes the minimum accepted record level. Arbitrary integer
// thresholds are permitted; only comparison against record levels uses it.
func (h *BaseHandler) SetLevel(level LogLevel) {
	h.level.Store(int32(level))
}

// Blackhole reports whether the blackhole flag is set.
func (h *BaseHandler) Blackhole() bool {
	return h.HasFlag(FlagBlackhole)
}

// Bubble reports whether the bubble flag is set.
func (h *BaseHandler) Bubble() bool {
	return h.HasFlag(FlagBubble)
}

// Filter returns the current filter or nil.
func (h *BaseHandler) Filter() FilterFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.filter
}

// SetFilter installs a filter. A nil filter accepts every record.
func (h *BaseHandler) SetFilter(filter FilterFunc) {
	h.mu.Lock()
	h.filter = filter
	h.mu.Unlock()
}

// Handle is a no-op for the base handler; it reports the record as not
// accepted so dispatch continues. Embedding handlers override it.
func (h *BaseHandler) Handle(record *Record) bool {
	return false
}

// HasFlag checks if flag is set (lock-free).
func (h *BaseHandler) HasFlag(flag StateFlag) bool {
	return h.flags.Load()&uint32(flag) != 0
}

// SetFlag atomically sets or clears a flag.
func (h *BaseHandler) SetFlag(flag StateFlag, enabled bool) {
	for {
		old := h.flags.Load()
		new := old
		if enabled {
			new |= uint32(flag)
		} else {
			new &^= uint32(flag)
		}
		if h.flags.CompareAndSwap(old, new) {
			return
		}
	}
}

// PushThread binds the handler to the calling goroutine.
func (h *BaseHandler) PushThread() {
	handlers.pushThread(h.self)
}

// PopThread removes the handler from the calling goroutine's stack.
func (h *BaseHandler) PopThread() {
	handlers.popThread(h.self)
}

// PushApplication binds the handler process-wide.
func (h *BaseHandler) PushApplication() {
	handlers.pushApplication(h.self)
}

// PopApplication removes the handler from the application stack.
func (h *BaseHandler) PopApplication() {
	handlers.popApplication(h.self)
}

// NullHandler is the blackhole sentinel. Pushing one on a stack stops
// records from reaching the handlers installed below it, without any
// record initialization work being done.
type NullHandler struct {
	*BaseHandler
}

// Ensure NullHandler implements Handler.
var _ Handler = (*NullHandler)(nil)

// NewNullHandler creates a blackhole handler. The level bounds which
// records are swallowed; records below it pass through to the handlers
// underneath.
func NewNullHandler(level LogLevel) *NullHandler {
	h := &NullHandler{}
	h.BaseHandler = NewBaseHandler(h, level, false)
	h.SetFlag(FlagBlackhole, true)

	return h
}

// ContextHandlers returns the handlers visible to the calling goroutine,
// most recently pushed first. The returned slice is shared and must not
// be mutated.
func ContextHandlers() []Handler {
	return handlers.iterContextObjects()
}
