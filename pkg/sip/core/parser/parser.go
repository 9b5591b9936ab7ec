// Package parser implements component C: parse_sip/write_sip over the
// message model in pkg/sip/core/types, plus the body-registry dispatch that
// decodes a message body once Content-Type and Content-Length are known.
package parser

import (
	"strconv"
	"strings"

	"github.com/arzzra/imsphone/pkg/sip/core/body"
	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/tokenizer"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

// Options bounds parsing the way the teacher's DefaultParser did, now as a
// functional-options struct instead of an interface with setters.
type Options struct {
	Strict          bool
	MaxHeaderLength int
	MaxHeaders      int
}

// Option configures a Parser.
type Option func(*Options)

func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

func WithMaxHeaderLength(n int) Option {
	return func(o *Options) { o.MaxHeaderLength = n }
}

func WithMaxHeaders(n int) Option {
	return func(o *Options) { o.MaxHeaders = n }
}

// Parser parses SIP wire bytes into the message model (§6.1).
type Parser struct {
	opts Options
}

// New builds a Parser with defaults matching the teacher's.
func New(opts ...Option) *Parser {
	p := &Parser{opts: Options{Strict: true, MaxHeaderLength: 8192, MaxHeaders: 128}}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// ParseMessage parses one SIP message from data. On a short buffer it
// returns a *coreerrors.Error with Kind == KindNotEnoughBytes and consumes
// nothing from data — the caller buffers more bytes and retries (§6.1
// "streaming behavior", S6).
func (p *Parser) ParseMessage(data []byte) (*types.Message, error) {
	c := tokenizer.NewCursor(data)

	startLine, err := c.ReadLine()
	if err != nil {
		return nil, err
	}

	var msg *types.Message
	if strings.HasPrefix(startLine, "SIP/") {
		msg, err = p.parseStatusLine(startLine)
	} else {
		msg, err = p.parseRequestLine(startLine)
	}
	if err != nil {
		return nil, err
	}

	if err := p.parseHeaderBlock(c, msg.Headers); err != nil {
		return nil, err
	}

	contentLength := 0
	if v, ok := msg.Headers.Get(types.HeaderContentLength); ok {
		contentLength, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, coreerrors.Field(coreerrors.KindInvalidField, types.HeaderContentLength, v)
		}
	}

	raw, err := c.Read(contentLength)
	if err != nil {
		return nil, err
	}
	if contentLength > 0 {
		mediaType, ok := msg.Headers.Get(types.HeaderContentType)
		if !ok {
			return nil, coreerrors.New(coreerrors.KindMissingContentType, "body present but Content-Type absent")
		}
		typed, err := body.Decode(mediaType, raw)
		if err != nil {
			return nil, err
		}
		msg.Body = &types.Body{MediaType: mediaType, Raw: append([]byte(nil), raw...), Typed: typed}
	}

	if p.opts.Strict {
		if err := p.validateRequiredHeaders(msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (p *Parser) parseRequestLine(line string) (*types.Message, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "request-line", line)
	}
	method, uriStr, version := parts[0], parts[1], parts[2]
	if p.opts.Strict && version != "SIP/2.0" {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "SIP-Version", version)
	}
	uri, err := types.ParseURI(uriStr)
	if err != nil {
		return nil, err
	}
	msg := types.NewRequest(method, uri)
	msg.SIPVersion = version
	return msg, nil
}

func (p *Parser) parseStatusLine(line string) (*types.Message, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "status-line", line)
	}
	version := parts[0]
	if p.opts.Strict && version != "SIP/2.0" {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "SIP-Version", version)
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, coreerrors.Field(coreerrors.KindBadStartLine, "Status-Code", parts[1])
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	msg := types.NewResponse(code, reason)
	msg.SIPVersion = version
	return msg, nil
}

// parseHeaderBlock reads "Name: value" lines up to the terminating bare
// CRLF, folding SP/HTAB-prefixed continuation lines into the previous
// header's value (§6.1).
func (p *Parser) parseHeaderBlock(c *tokenizer.Cursor, headers *types.Headers) error {
	count := 0
	for {
		line, err := c.ReadLine()
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		if len(line) > p.opts.MaxHeaderLength {
			return coreerrors.Field(coreerrors.KindHeaderTrailingData, "header-line", "too long")
		}

		for {
			b, ok := c.PeekByte()
			if !ok || (b != ' ' && b != '\t') {
				break
			}
			cont, err := c.ReadLine()
			if err != nil {
				return err
			}
			line += " " + strings.TrimLeft(cont, " \t")
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return coreerrors.Field(coreerrors.KindBadStartLine, "header", line)
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if len(name) == 1 {
			if full, ok := types.GetCompactFormMapping(name); ok {
				name = full
			}
		}
		name = types.CanonicalHeaderName(name)

		if def, ok := types.LookupHeader(name); ok {
			for _, v := range splitCommaList(value, def.Flags.AllowMultiple) {
				parsed, err := def.Parse(v)
				if err != nil {
					return err
				}
				headers.Add(name, parsed)
			}
		} else {
			headers.Add(name, value)
		}

		count++
		if count > p.opts.MaxHeaders {
			return coreerrors.Field(coreerrors.KindHeaderTrailingData, "header-count", strconv.Itoa(count))
		}
	}
}

// splitCommaList normalizes a comma-separated multi-valued header line into
// repeated values (§6.1: "internally always normalized to repeated
// values"). Single-valued headers are returned unsplit even if they contain
// a comma (e.g. WWW-Authenticate's params).
func splitCommaList(value string, allowMultiple bool) []string {
	if !allowMultiple || !strings.Contains(value, ",") {
		return []string{value}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func (p *Parser) validateRequiredHeaders(msg *types.Message) error {
	// Via is not in this list: the dialog engine attaches it when a request
	// is sent (§4.E step 4), and the literal S1 REGISTER test vector in
	// spec.md §8 is a bare application-built request with no Via yet.
	required := []string{types.HeaderTo, types.HeaderFrom, types.HeaderCSeq, types.HeaderCallID}
	if msg.IsRequest() {
		required = append(required, types.HeaderMaxForwards)
	}
	for _, name := range required {
		if !msg.Headers.Has(name) {
			return coreerrors.Field(coreerrors.KindMissingHeaderValue, name, "")
		}
	}
	if msg.IsRequest() {
		cseq, _ := msg.Headers.Get(types.HeaderCSeq)
		fields := strings.Fields(cseq)
		if len(fields) != 2 || fields[1] != msg.Method {
			return coreerrors.Field(coreerrors.KindInvalidField, types.HeaderCSeq, cseq)
		}
	}
	return nil
}
