// Package logging provides leveled, component-prefixed logging on top of the
// standard library logger.
package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger writes leveled messages tagged with a component name, e.g.
// "[Pipeline] starting analysis".
type Logger struct {
	component string
	level     Level
}

// New creates a logger for a component using the LOG_LEVEL environment
// variable (ERROR, WARN, INFO, DEBUG; default INFO).
func New(component string) *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{component: component, level: level}
}

// WithLevel creates a logger with an explicit level
func WithLevel(component string, level Level) *Logger {
	return &Logger{component: component, level: level}
}

// Errorf logs error messages
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[%s] ERROR: "+format, prepend(l.component, args)...)
	}
}

// Warnf logs warning messages
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[%s] WARN: "+format, prepend(l.component, args)...)
	}
}

// Infof logs informational messages
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[%s] "+format, prepend(l.component, args)...)
	}
}

// Debugf logs debug messages
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[%s] DEBUG: "+format, prepend(l.component, args)...)
	}
}

func prepend(component string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, component)
	return append(out, args...)
}
