package tokenizer

// TokenKind enumerates the semantic token stream described in §4.A.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokWS
	TokTab
	TokCR
	TokLF
	TokCRLF
	TokColon
	TokComma
	TokSlash
	TokBackslash
	TokLT
	TokGT
	TokString
	TokQuotedString
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokWS:
		return "WS"
	case TokTab:
		return "TAB"
	case TokCR:
		return "CR"
	case TokLF:
		return "LF"
	case TokCRLF:
		return "CRLF"
	case TokColon:
		return "COLON"
	case TokComma:
		return "COMMA"
	case TokSlash:
		return "SLASH"
	case TokBackslash:
		return "BACKSLASH"
	case TokLT:
		return "LT"
	case TokGT:
		return "GT"
	case TokString:
		return "STRING"
	case TokQuotedString:
		return "QUOTED-STRING"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit produced by Lexer.Next. Value holds the decoded
// text for STRING/QUOTED-STRING, empty otherwise.
type Token struct {
	Kind  TokenKind
	Value string
}

// Lexer converts a Cursor's byte stream into a semantic token stream. No
// parser in this module is built on it: the SIP, SDP and URI parsers scan
// with Cursor directly, and the Digest challenge parser splits strings.
type Lexer struct {
	c *Cursor
}

func NewLexer(c *Cursor) *Lexer { return &Lexer{c: c} }

// Next returns the next token. STRING is the maximal run of
// letter|digit|'.'|'-'|'_' per §4.A; QUOTED-STRING consumes a full
// "..." span including escapes.
func (l *Lexer) Next() (Token, error) {
	b, ok := l.c.PeekByte()
	if !ok {
		return Token{Kind: TokEOF}, nil
	}

	switch {
	case b == '\r':
		if l.c.PeekString("\r\n") {
			l.c.pos += 2
			return Token{Kind: TokCRLF}, nil
		}
		l.c.pos++
		return Token{Kind: TokCR}, nil
	case b == '\n':
		l.c.pos++
		return Token{Kind: TokLF}, nil
	case b == ' ':
		l.c.pos++
		return Token{Kind: TokWS}, nil
	case b == '\t':
		l.c.pos++
		return Token{Kind: TokTab}, nil
	case b == ':':
		l.c.pos++
		return Token{Kind: TokColon}, nil
	case b == ',':
		l.c.pos++
		return Token{Kind: TokComma}, nil
	case b == '/':
		l.c.pos++
		return Token{Kind: TokSlash}, nil
	case b == '\\':
		l.c.pos++
		return Token{Kind: TokBackslash}, nil
	case b == '<':
		l.c.pos++
		return Token{Kind: TokLT}, nil
	case b == '>':
		l.c.pos++
		return Token{Kind: TokGT}, nil
	case b == '"':
		s, err := l.c.ReadQuotedString()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokQuotedString, Value: s}, nil
	case IsTokenChar(b):
		s := l.c.ReadWhile(IsTokenChar)
		return Token{Kind: TokString, Value: s}, nil
	default:
		// Любой другой одиночный байт (например '@', '=', ';') возвращаем
		// как однобайтовую STRING-подобную лексему — вызывающая сторона,
		// разбирающая URI/параметры, потребляет такие разделители через
		// Cursor напрямую, а не через Lexer.
		l.c.pos++
		return Token{Kind: TokString, Value: string(b)}, nil
	}
}
