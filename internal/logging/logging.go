// Package logging wraps logrus with the SIP-context fields the teacher's
// hand-rolled LogEntry carried (call_id, dialog_id, method, state), as
// structured fields instead of a bespoke JSON record type.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields names the SIP-context keys attached to every log line emitted
// through a Logger. Empty fields are left out of the log line by toLogrus.
type Fields struct {
	CallID   string
	DialogID string
	Method   string
	State    string
}

func (f Fields) toLogrus() logrus.Fields {
	lf := logrus.Fields{}
	if f.CallID != "" {
		lf["call_id"] = f.CallID
	}
	if f.DialogID != "" {
		lf["dialog_id"] = f.DialogID
	}
	if f.Method != "" {
		lf["method"] = f.Method
	}
	if f.State != "" {
		lf["state"] = f.State
	}
	return lf
}

// Logger is a thin façade over *logrus.Entry scoped to one component
// ("dialog", "transaction", "transport", "auth"). Parsers and codecs stay
// pure and never hold one of these; only the dialog/transaction engine and
// the demo command log.
type Logger struct {
	entry *logrus.Entry
}

// New builds the process-wide base logger, configured once at startup.
func New(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Component scopes a base logger to a named component.
func Component(base *logrus.Logger, component string) *Logger {
	return &Logger{entry: base.WithField("component", component)}
}

// With returns a Logger carrying the given SIP-context fields in addition
// to its component. Calling With on a nil Logger (a Session built without
// WithLogger) yields another nil Logger, keeping call sites unconditional.
func (l *Logger) With(f Fields) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{entry: l.entry.WithFields(f.toLogrus())}
}

func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.entry.Debug(msg)
}

func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.entry.Info(msg)
}

func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.entry.Warn(msg)
}

func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	l.entry.WithError(err).Error(msg)
}
