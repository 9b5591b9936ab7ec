package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindOnly(t *testing.T) {
	e1 := Field(KindInvalidField, "v", "must be 0")
	e2 := New(KindInvalidField, "")
	assert.True(t, stderrors.Is(e1, e2), "expected Is() to match on Kind alone")

	other := New(KindUnknownEnum, "")
	assert.False(t, stderrors.Is(e1, other), "expected Is() to reject different Kind")
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := Wrap(KindNotEnoughBytes, "body", io.ErrUnexpectedEOF)
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF), "expected Unwrap() to expose underlying error")
}

func TestErrorMessageShapes(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{New(KindBadStartLine, "missing SIP-Version"), "BadStartLine: missing SIP-Version"},
		{Field(KindAttributeAtWrongLevel, "ptime", ""), `AttributeAtWrongLevel: field "ptime"`},
		{Channel(111, "connection refused"), "channel error (code 111): connection refused"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, KindUnknown, Of(nil))
	assert.Equal(t, KindUnknown, Of(io.EOF))
	assert.Equal(t, KindDuplicateBranch, Of(New(KindDuplicateBranch, "")))
}
