package logging

import "strings"

// BadgerLogger passes log output of the badger key-value store to the
// logger of component. Badger info messages are only printed as debug
// records.
type BadgerLogger struct {
	Logger
}

func NewBadgerLogger(component string) *BadgerLogger {
	return &BadgerLogger{Logger{component}}
}

func (l *BadgerLogger) Errorf(msg string, args ...interface{}) {
	l.Logger.Errorf(strings.TrimSuffix(msg, "\n"), args...)
}

func (l *BadgerLogger) Warningf(msg string, args ...interface{}) {
	l.Logger.Warnf(strings.TrimSuffix(msg, "\n"), args...)
}

func (l *BadgerLogger) Infof(msg string, args ...interface{}) {
	l.Logger.Debugf(strings.TrimSuffix(msg, "\n"), args...)
}

func (l *BadgerLogger) Debugf(msg string, args ...interface{}) {
	l.Logger.Debugf(strings.TrimSuffix(msg, "\n"), args...)
}
