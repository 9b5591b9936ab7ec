package logging

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestComponentAndWithDoNotPanic(t *testing.T) {
	base := New(logrus.DebugLevel)
	l := Component(base, "dialog")
	scoped := l.With(Fields{CallID: "c1", DialogID: "d1", Method: "REGISTER", State: "trying"})

	assert.NotPanics(t, func() {
		scoped.Debug("debug line")
		scoped.Info("info line")
		scoped.Warn("warn line")
		scoped.Error(errors.New("boom"), "error line")
	})
}

func TestNilLoggerIsANoOp(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.With(Fields{}).Debug("should not panic")
		l.Info("should not panic")
		l.Warn("should not panic")
		l.Error(errors.New("boom"), "should not panic")
	})
}
