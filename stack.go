package logbook

import (
	"slices"
	"sync"

	"github.com/balinomad/go-logbook/internal/runtimeutil"
)

// Stacked is the interface of all objects that provide stack
// manipulation operations. Implementations can be bound to the whole
// application or to the calling goroutine, and are later discovered by
// record dispatch in reverse push order.
type Stacked interface {
	// PushThread binds the object to the calling goroutine.
	PushThread()

	// PopThread removes the object from the calling goroutine's stack.
	// The object must be the most recently pushed one; popping anything
	// else is a programmer error and panics.
	PopThread()

	// PushApplication binds the object process-wide.
	PushApplication()

	// PopApplication removes the object from the application stack.
	// Panics on misuse like PopThread.
	PopApplication()
}

// ThreadBound runs fn while s is bound to the calling goroutine.
// The object is popped on all exit paths, including panics.
func ThreadBound(s Stacked, fn func()) {
	s.PushThread()
	defer s.PopThread()
	fn()
}

// ApplicationBound runs fn while s is bound to the application.
// The object is popped on all exit paths, including panics.
func ApplicationBound(s Stacked, fn func()) {
	s.PushApplication()
	defer s.PopApplication()
	fn()
}

// NestedSetup bundles multiple stacked objects so that handlers and
// processors can be installed at once. Push binds the objects in order,
// pop releases them in reverse.
type NestedSetup struct {
	objects []Stacked
}

// Ensure NestedSetup implements Stacked.
var _ Stacked = (*NestedSetup)(nil)

// NewNestedSetup creates a NestedSetup from the given objects.
func NewNestedSetup(objects ...Stacked) *NestedSetup {
	return &NestedSetup{objects: slices.Clone(objects)}
}

// PushThread binds all objects to the calling goroutine in order.
func (s *NestedSetup) PushThread() {
	for _, obj := range s.objects {
		obj.PushThread()
	}
}

// PopThread releases all objects from the calling goroutine in reverse order.
func (s *NestedSetup) PopThread() {
	for i := len(s.objects) - 1; i >= 0; i-- {
		s.objects[i].PopThread()
	}
}

// PushApplication binds all objects to the application in order.
func (s *NestedSetup) PushApplication() {
	for _, obj := range s.objects {
		obj.PushApplication()
	}
}

// PopApplication releases all objects from the application in reverse order.
func (s *NestedSetup) PopApplication() {
	for i := len(s.objects) - 1; i >= 0; i-- {
		s.objects[i].PopApplication()
	}
}

// maxContextObjectCache bounds the per-goroutine iteration cache.
// The cache is cleared wholesale when the bound is exceeded.
const maxContextObjectCache = 256

// stackItem pairs a context object with its push sequence number.
type stackItem[T any] struct {
	seq uint64
	obj T
}

// contextRegistry holds the dual-scope stacks for one kind of context
// object. Each concrete kind (Handler, Processor) owns exactly one
// registry, so their stacks stay independent.
//
// Concurrency Model:
//   - A single mutex serialises stack mutation and cache maintenance.
//     It is held only for the duration of the mutation, never across
//     handler or processor calls.
//   - Thread stacks are keyed by goroutine id. Only the owning
//     goroutine mutates its stack, but mutation still takes the lock to
//     coordinate with cache invalidation.
//   - The shared sequence counter gives pushes from both scopes a total
//     order, which the iteration order is derived from.
type contextRegistry[T any] struct {
	mu      sync.Mutex
	seq     uint64
	global  []stackItem[T]
	threads map[uint64][]stackItem[T]
	cache   map[uint64][]T
}

// newContextRegistry initializes an empty registry.
func newContextRegistry[T any]() *contextRegistry[T] {
	return &contextRegistry[T]{
		threads: make(map[uint64][]stackItem[T]),
		cache:   make(map[uint64][]T),
	}
}

// pushThread appends obj to the calling goroutine's stack.
func (r *contextRegistry[T]) pushThread(obj T) {
	tid := runtimeutil.GoroutineID()

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, tid)
	r.seq++
	r.threads[tid] = append(r.threads[tid], stackItem[T]{seq: r.seq, obj: obj})
}

// popThread removes the top of the calling goroutine's stack.
// Panics if the stack is empty or the top is not obj.
func (r *contextRegistry[T]) popThread(obj T) {
	tid := runtimeutil.GoroutineID()

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, tid)
	stack := r.threads[tid]
	if len(stack) == 0 {
		panic("logbook: no objects on thread stack")
	}
	popped := stack[len(stack)-1].obj
	if any(popped) != any(obj) {
		panic("logbook: popped unexpected object")
	}
	if len(stack) == 1 {
		delete(r.threads, tid)
	} else {
		r.threads[tid] = stack[:len(stack)-1]
	}
}

// pushApplication appends obj to the application stack.
func (r *contextRegistry[T]) pushApplication(obj T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.cache)
	r.seq++
	r.global = append(r.global, stackItem[T]{seq: r.seq, obj: obj})
}

// popApplication removes the top of the application stack.
// Panics if the stack is empty or the top is not obj.
func (r *contextRegistry[T]) popApplication(obj T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.cache)
	if len(r.global) == 0 {
		panic("logbook: no objects on application stack")
	}
	popped := r.global[len(r.global)-1].obj
	if any(popped) != any(obj) {
		panic("logbook: popped unexpected object")
	}
	r.global = r.global[:len(r.global)-1]
}

// iterContextObjects returns the objects visible to the calling
// goroutine, most recently pushed first, across both scopes. The result
// is a shared cached slice and must not be mutated by callers.
func (r *contextRegistry[T]) iterContextObjects() []T {
	tid := runtimeutil.GoroutineID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if objects, ok := r.cache[tid]; ok {
		return objects
	}

	if len(r.cache) > maxContextObjectCache {
		clear(r.cache)
	}

	merged := make([]stackItem[T], 0, len(r.global)+len(r.threads[tid]))
	merged = append(merged, r.global...)
	merged = append(merged, r.threads[tid]...)
	slices.SortFunc(merged, func(a, b stackItem[T]) int {
		// reverse sequence order: last pushed wins
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		default:
			return 0
		}
	})

	objects := make([]T, len(merged))
	for i, item := range merged {
		objects[i] = item.obj
	}
	r.cache[tid] = objects

	return objects
}
