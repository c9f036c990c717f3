// Package log provides the logging interface used throughout
// the emulator, backed by logrus.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface accepted by the emulator
// components. *logrus.Logger satisfies it.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a Logger writing plain text lines to stderr at
// the info level.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

// NewWriter is the same as New, but writes to w at the given
// level.
func NewWriter(w io.Writer, level logrus.Level) *logrus.Logger {
	l := New()
	l.SetOutput(w)
	l.SetLevel(level)
	return l
}
