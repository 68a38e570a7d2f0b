// Package logbook provides the core record dispatch engine of a
// structured logging library: loggers create records, context-bound
// processors enrich them, and handlers consume them.
//
// Handlers and processors are context objects: they can be bound to the
// whole application or to a single goroutine, and dispatch discovers
// them in strict reverse push order across both scopes. Records are
// initialized lazily, so a call that no handler is interested in costs
// almost nothing.
package logbook

// defaultDispatcher handles records that were created programmatically
// rather than through a logger.
var defaultDispatcher = NewRecordDispatcher("", NotSetLevel)

// DispatchRecord passes a record on to the handlers on the stack. This
// is useful when log records are created programmatically and already
// have all the information attached and should be dispatched independent
// of a logger.
func DispatchRecord(record *Record) {
	defaultDispatcher.CallHandlers(record)
}
