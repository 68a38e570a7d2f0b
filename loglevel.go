package logbook

import (
	"fmt"
	"strings"
)

// LogLevel represents log severity levels.
type LogLevel int32

// Log levels are ordered from least to most severe. The numeric values
// are part of the serialisation format and must not be renumbered.
const (
	NotSetLevel LogLevel = iota
	DebugLevel
	InfoLevel
	NoticeLevel
	WarningLevel
	ErrorLevel
	CriticalLevel

	MinLevel LogLevel = NotSetLevel
	MaxLevel LogLevel = CriticalLevel
)

// levelNames maps levels to their canonical names.
var levelNames = map[LogLevel]string{
	CriticalLevel: "CRITICAL",
	ErrorLevel:    "ERROR",
	WarningLevel:  "WARNING",
	NoticeLevel:   "NOTICE",
	InfoLevel:     "INFO",
	DebugLevel:    "DEBUG",
	NotSetLevel:   "NOTSET",
}

// String returns a human-readable representation of the log level.
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN (%d)", l)
}

// LevelName returns the canonical name of the given log level.
// Returns an error wrapping ErrUnknownLevel for levels outside the table.
func LevelName(level LogLevel) (string, error) {
	name, ok := levelNames[level]
	if !ok {
		return "", NewUnknownLevelError(level)
	}
	return name, nil
}

// ParseLevel converts a level name to a LogLevel. It is case-insensitive.
// If the string is not a valid level name, it returns NotSetLevel and an
// error wrapping ErrUnknownLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(name) {
	case "CRITICAL":
		return CriticalLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "WARNING":
		return WarningLevel, nil
	case "NOTICE":
		return NoticeLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "NOTSET":
		return NotSetLevel, nil
	}
	return NotSetLevel, NewUnknownLevelNameError(name)
}

// IsValidLogLevel returns true if the given log level is in the fixed table.
func IsValidLogLevel(level LogLevel) bool {
	return level >= MinLevel && level <= MaxLevel
}

// ValidateLogLevel returns an error if the given log level is invalid.
func ValidateLogLevel(level LogLevel) error {
	if !IsValidLogLevel(level) {
		return NewUnknownLevelError(level)
	}

	return nil
}
