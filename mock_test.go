package logbook_test

import (
	"sync"

	logbook "github.com/balinomad/go-logbook"
)

// testHandler is a recording handler for testing dispatch behavior.
// It is thread-safe to support concurrent testing.
type testHandler struct {
	*logbook.BaseHandler

	mu       sync.Mutex
	records  []*logbook.Record
	messages []string
	pullErrs []error

	// Configuration
	accept   bool // return value of Handle
	keepOpen bool // claim ownership of received records
}

// Ensure testHandler implements Handler.
var _ logbook.Handler = (*testHandler)(nil)

// newTestHandler creates a recording handler with the given level and
// bubble flag. Handle reports records as accepted by default.
func newTestHandler(level logbook.LogLevel, bubble bool) *testHandler {
	h := &testHandler{accept: true}
	h.BaseHandler = logbook.NewBaseHandler(h, level, bubble)
	return h
}

// Handle pulls the record's information so it stays inspectable after
// the dispatcher closes it, then records the delivery.
func (h *testHandler) Handle(r *logbook.Record) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.keepOpen {
		r.KeepOpen = true
	}
	if err := r.PullInformation(); err != nil {
		h.pullErrs = append(h.pullErrs, err)
	}
	h.records = append(h.records, r)
	if msg, err := r.Message(); err == nil {
		h.messages = append(h.messages, msg)
	}

	return h.accept
}

// Records returns a snapshot of the received records.
func (h *testHandler) Records() []*logbook.Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	rv := make([]*logbook.Record, len(h.records))
	copy(rv, h.records)
	return rv
}

// Messages returns a snapshot of the received formatted messages.
func (h *testHandler) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	rv := make([]string, len(h.messages))
	copy(rv, h.messages)
	return rv
}
