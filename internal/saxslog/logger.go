// Package saxslog is a minimal leveled logger, a structured wrapper around
// the standard library's log.Logger. The engine calls into it for its
// recoverable paths — most notably the unknown-form-factor-tag
// substitution warning.
package saxslog

import (
	"log"
	"os"
)

// Level is the severity of a log message.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Logger is a small leveled wrapper; the core only ever needs Warnf, but
// the full level set lets callers inject their own sink via SetDefault.
type Logger struct {
	level  Level
	logger *log.Logger
}

var std = New(Warn)

// New creates a logger at the given minimum level, writing to stderr.
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

// Default returns the package-level logger used when the caller doesn't
// inject their own.
func Default() *Logger { return std }

// SetDefault replaces the package-level logger, letting a front-end route
// the core's one warning path into its own sink.
func SetDefault(l *Logger) { std = l }

func (l *Logger) log(level Level, prefix, format string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf(prefix+": "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, "DEBUG", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(Info, "INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(Warn, "WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, "ERROR", format, args...) }
