package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

func TestCursorEatAndPeek(t *testing.T) {
	c := NewCursor([]byte("SIP/2.0"))
	assert.True(t, c.Peek('S'), "expected peek S")
	require.NoError(t, c.EatString("SIP"))
	require.NoError(t, c.Eat('/'))
	rest := c.ReadWhile(IsTokenChar)
	assert.Equal(t, "2.0", rest)
	assert.True(t, c.EOF())
}

func TestCursorEatUnexpectedChar(t *testing.T) {
	c := NewCursor([]byte("ABC"))
	err := c.Eat('X')
	assert.Equal(t, coreerrors.KindUnexpectedChar, coreerrors.Of(err))
}

func TestCursorReadNotEnoughBytes(t *testing.T) {
	c := NewCursor([]byte("ab"))
	_, err := c.Read(5)
	assert.Equal(t, coreerrors.KindNotEnoughBytes, coreerrors.Of(err))
}

func TestCursorReadLine(t *testing.T) {
	c := NewCursor([]byte("foo: bar\r\nbaz"))
	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "foo: bar", line)
	assert.Equal(t, "baz", string(c.Remaining()))
}

func TestCursorReadQuotedStringWithEscape(t *testing.T) {
	c := NewCursor([]byte(`"she said \"hi\""`))
	s, err := c.ReadQuotedString()
	require.NoError(t, err)
	assert.Equal(t, `she said "hi"`, s)
}

func TestLexerBasicTokens(t *testing.T) {
	c := NewCursor([]byte("Via: SIP/2.0/TCP\r\n"))
	l := NewLexer(c)

	want := []TokenKind{TokString, TokColon, TokWS, TokString, TokSlash, TokString, TokSlash, TokString, TokCRLF, TokEOF}
	for i, w := range want {
		tok, err := l.Next()
		require.NoError(t, err, "token %d", i)
		assert.Equal(t, w, tok.Kind, "token %d", i)
	}
}
