package logbook

import (
	"slices"
	"sync"
)

// LoggerGroup represents a group of loggers. It cannot emit records on
// its own, but its level and disabled flag are reflected to every
// member that has not overridden them, and its processor callback runs
// for every record a member dispatches.
type LoggerGroup struct {
	mu        sync.Mutex
	loggers   []*Logger
	level     LogLevel
	disabled  bool
	processor func(*Record)
}

// NewLoggerGroup creates a group with the given level.
func NewLoggerGroup(level LogLevel) *LoggerGroup {
	return &LoggerGroup{level: level}
}

// Level returns the group level.
func (g *LoggerGroup) Level() LogLevel {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.level
}

// SetLevel changes the group level. Members without a local override
// observe the change immediately.
func (g *LoggerGroup) SetLevel(level LogLevel) {
	g.mu.Lock()
	g.level = level
	g.mu.Unlock()
}

// Disabled returns the group disabled flag.
func (g *LoggerGroup) Disabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.disabled
}

// SetDisabled changes the group disabled flag. Members without a local
// override observe the change immediately.
func (g *LoggerGroup) SetDisabled(disabled bool) {
	g.mu.Lock()
	g.disabled = disabled
	g.mu.Unlock()
}

// SetProcessor installs the callback executed for every record
// dispatched by a member logger.
func (g *LoggerGroup) SetProcessor(processor func(*Record)) {
	g.mu.Lock()
	g.processor = processor
	g.mu.Unlock()
}

// Loggers returns a copy of the member list.
func (g *LoggerGroup) Loggers() []*Logger {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.loggers)
}

// AddLogger adds a logger to this group. A logger belongs to at most
// one group at a time; adding one that already has a group panics.
func (g *LoggerGroup) AddLogger(l *Logger) {
	if l.Group() != nil {
		panic("logbook: logger already belongs to a group")
	}
	l.setGroup(g)

	g.mu.Lock()
	g.loggers = append(g.loggers, l)
	g.mu.Unlock()
}

// RemoveLogger removes a logger from the group and clears its
// back-pointer.
func (g *LoggerGroup) RemoveLogger(l *Logger) {
	g.mu.Lock()
	g.loggers = slices.DeleteFunc(g.loggers, func(x *Logger) bool {
		return x == l
	})
	g.mu.Unlock()

	l.setGroup(nil)
}

// ProcessRecord invokes the group processor, if one is installed.
func (g *LoggerGroup) ProcessRecord(record *Record) {
	g.mu.Lock()
	processor := g.processor
	g.mu.Unlock()

	if processor != nil {
		processor(record)
	}
}
