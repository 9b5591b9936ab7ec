// Package tokenizer реализует базовые примитивы чтения байтового потока
// (раздел 4.A спецификации): курсор с peek/eat/read_while/read_until поверх
// []byte, плюс более высокоуровневый Lexer, превращающий байты в поток
// токенов (STRING, QUOTED-STRING, COLON, CRLF, ...). SIP- и SDP-парсеры
// строятся поверх Cursor напрямую: у обоих формата простая построчная
// грамматика. Lexer ни одним парсером модуля не используется.
package tokenizer

import (
	"fmt"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// Predicate классифицирует один байт. Тот же набор предикатов спецификация
// перечисляет в §4.A: letter, digit, alphanumeric, dash, dot, colon,
// semicolon, whitespace (только пробел), tab, newline (CR или LF), slash.
type Predicate func(b byte) bool

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

func IsAlphaNumeric(b byte) bool { return IsLetter(b) || IsDigit(b) }

func IsDash(b byte) bool { return b == '-' }

func IsDot(b byte) bool { return b == '.' }

func IsColon(b byte) bool { return b == ':' }

func IsSemicolon(b byte) bool { return b == ';' }

func IsSpace(b byte) bool { return b == ' ' }

func IsTab(b byte) bool { return b == '\t' }

func IsNewline(b byte) bool { return b == '\r' || b == '\n' }

func IsSlash(b byte) bool { return b == '/' }

// IsTokenChar - набор символов, формирующих STRING-токен: буква, цифра,
// точка, дефис или подчёркивание (используется для метода, host-части URI,
// параметров и т.п.).
func IsTokenChar(b byte) bool {
	return IsAlphaNumeric(b) || b == '.' || b == '-' || b == '_'
}

// Cursor - курсор чтения по срезу байт. Не потокобезопасен, предназначен
// для однократного разбора одного сообщения целиком в памяти (парсер ждёт,
// пока все Content-Length байт будут в буфере — см. §4.C "streaming
// behavior").
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos возвращает текущую позицию (для точной диагностики в ошибках).
func (c *Cursor) Pos() int { return c.pos }

// Len возвращает число оставшихся байт.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// EOF сообщает, достигнут ли конец буфера.
func (c *Cursor) EOF() bool { return c.pos >= len(c.buf) }

// PeekByte возвращает следующий байт без продвижения курсора.
// Второй результат - false на EOF.
func (c *Cursor) PeekByte() (byte, bool) {
	if c.EOF() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Peek сообщает, совпадает ли следующий байт с ch, не продвигая курсор.
func (c *Cursor) Peek(ch byte) bool {
	b, ok := c.PeekByte()
	return ok && b == ch
}

// PeekString сообщает, совпадает ли следующий срез байт ровно со строкой s.
func (c *Cursor) PeekString(s string) bool {
	if c.pos+len(s) > len(c.buf) {
		return false
	}
	return string(c.buf[c.pos:c.pos+len(s)]) == s
}

// Eat требует, чтобы следующий байт был ровно ch, иначе возвращает
// UnexpectedChar, и продвигает курсор на один байт при успехе.
func (c *Cursor) Eat(ch byte) error {
	b, ok := c.PeekByte()
	if !ok {
		return coreerrors.New(coreerrors.KindNotEnoughBytes, fmt.Sprintf("expected %q, got EOF", ch))
	}
	if b != ch {
		return coreerrors.New(coreerrors.KindUnexpectedChar, fmt.Sprintf("expected %q, got %q at %d", ch, b, c.pos))
	}
	c.pos++
	return nil
}

// EatString требует точное совпадение строки s и продвигает курсор на её
// длину при успехе.
func (c *Cursor) EatString(s string) error {
	if !c.PeekString(s) {
		return coreerrors.New(coreerrors.KindUnexpectedChar, fmt.Sprintf("expected %q at %d", s, c.pos))
	}
	c.pos += len(s)
	return nil
}

// EatWhile продвигает курсор, пока предикат истинен; не ошибка, если ничего
// не съедено.
func (c *Cursor) EatWhile(pred Predicate) {
	for !c.EOF() && pred(c.buf[c.pos]) {
		c.pos++
	}
}

// EatOneIf продвигает курсор на один байт, если предикат истинен для
// следующего байта, и возвращает, было ли продвижение.
func (c *Cursor) EatOneIf(pred Predicate) bool {
	b, ok := c.PeekByte()
	if !ok || !pred(b) {
		return false
	}
	c.pos++
	return true
}

// EatCRLF требует literal "\r\n".
func (c *Cursor) EatCRLF() error {
	return c.EatString("\r\n")
}

// Read возвращает ровно n байт, продвигая курсор, или NotEnoughBytes.
func (c *Cursor) Read(n int) ([]byte, error) {
	if c.Len() < n {
		return nil, coreerrors.New(coreerrors.KindNotEnoughBytes, fmt.Sprintf("need %d bytes, have %d", n, c.Len()))
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// ReadWhile consume consecutive bytes matching pred and returns them as a
// string (possibly empty).
func (c *Cursor) ReadWhile(pred Predicate) string {
	start := c.pos
	c.EatWhile(pred)
	return string(c.buf[start:c.pos])
}

// ReadUntil consumes bytes until pred is true or EOF, returning the
// consumed span. EOF is not an error - it simply stops the scan, per §4.A.
func (c *Cursor) ReadUntil(pred Predicate) string {
	start := c.pos
	for !c.EOF() && !pred(c.buf[c.pos]) {
		c.pos++
	}
	return string(c.buf[start:c.pos])
}

// ReadLine reads up to (and consuming) the next CRLF, returning the line
// without the terminator. Used by the SIP/SDP line-oriented grammars.
func (c *Cursor) ReadLine() (string, error) {
	start := c.pos
	for {
		if c.EOF() {
			return "", coreerrors.New(coreerrors.KindNotEnoughBytes, "unterminated line")
		}
		if c.buf[c.pos] == '\r' && c.pos+1 < len(c.buf) && c.buf[c.pos+1] == '\n' {
			line := string(c.buf[start:c.pos])
			c.pos += 2
			return line, nil
		}
		if c.buf[c.pos] == '\n' {
			// Tolerate bare LF - some collaborators/tests hand us that.
			line := string(c.buf[start:c.pos])
			c.pos++
			return line, nil
		}
		c.pos++
	}
}

// ReadQuotedString reads a "..." token, honoring backslash escapes, per the
// QUOTED-STRING grammar in §4.A. The opening quote must be the next byte.
func (c *Cursor) ReadQuotedString() (string, error) {
	if err := c.Eat('"'); err != nil {
		return "", err
	}
	var out []byte
	for {
		b, ok := c.PeekByte()
		if !ok {
			return "", coreerrors.New(coreerrors.KindNotEnoughBytes, "unterminated quoted-string")
		}
		c.pos++
		if b == '\\' {
			nb, ok := c.PeekByte()
			if !ok {
				return "", coreerrors.New(coreerrors.KindNotEnoughBytes, "unterminated escape in quoted-string")
			}
			c.pos++
			out = append(out, nb)
			continue
		}
		if b == '"' {
			return string(out), nil
		}
		out = append(out, b)
	}
}

// Remaining returns every byte left unread, without consuming it.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.pos:]
}
