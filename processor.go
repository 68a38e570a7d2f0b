package logbook

// processors is the context registry shared by all Processor instances.
var processors = newContextRegistry[*Processor]()

// Processor can be pushed to a stack to inject additional information
// into a log record as it passes through dispatch:
//
//	injectIP := logbook.NewProcessor(func(r *logbook.Record) {
//	    r.Extra.Set("ip", "127.0.0.1")
//	})
//	injectIP.PushThread()
//	defer injectIP.PopThread()
type Processor struct {
	callback func(*Record)
}

// Ensure Processor implements Stacked.
var _ Stacked = (*Processor)(nil)

// NewProcessor creates a processor around the given callback.
// A nil callback makes Process a no-op.
func NewProcessor(callback func(*Record)) *Processor {
	return &Processor{callback: callback}
}

// Process mutates the record in place through the callback.
func (p *Processor) Process(record *Record) {
	if p.callback != nil {
		p.callback(record)
	}
}

// PushThread binds the processor to the calling goroutine.
func (p *Processor) PushThread() {
	processors.pushThread(p)
}

// PopThread removes the processor from the calling goroutine's stack.
func (p *Processor) PopThread() {
	processors.popThread(p)
}

// PushApplication binds the processor process-wide.
func (p *Processor) PushApplication() {
	processors.pushApplication(p)
}

// PopApplication removes the processor from the application stack.
func (p *Processor) PopApplication() {
	processors.popApplication(p)
}

// ContextProcessors returns the processors visible to the calling
// goroutine, most recently pushed first. The returned slice is shared
// and must not be mutated.
func ContextProcessors() []*Processor {
	return processors.iterContextObjects()
}
