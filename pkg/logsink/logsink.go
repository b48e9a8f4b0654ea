// Package logsink is the logging capability handed to external
// collaborators. Callers choose between a real logger and silence instead
// of collaborators writing to ambient globals.
package logsink

import "github.com/sirupsen/logrus"

type Sink interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}

// Logrus forwards to the process logger with a bracketed tag prefix.
type Logrus struct {
	Tag string
}

func (l Logrus) Debugf(format string, args ...any) {
	logrus.Debugf("["+l.Tag+"] "+format, args...)
}

func (l Logrus) Warnf(format string, args ...any) {
	logrus.Warnf("["+l.Tag+"] "+format, args...)
}

func (l Logrus) Errorf(format string, args ...any) {
	logrus.Errorf("["+l.Tag+"] "+format, args...)
}
