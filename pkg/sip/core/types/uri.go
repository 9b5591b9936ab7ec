// Package types содержит the SIP message model: URI, Address, Header,
// Message (component F of the specification) plus the header-type registry
// used by the parser/builder (component C).
package types

import (
	"fmt"
	"strconv"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/tokenizer"
)

// URI представляет sip:/sips: URI, единственную форму, которую требует
// spec.md (host, port, user, параметры и заголовки).
//
//	sip:user@host:port;param=value?header=value
type URI struct {
	Scheme string // "sip" или "sips"
	User   string
	Host   string
	Port   int // 0 значит "порт не указан" (§9: "absent port means the transport default")

	Params  OrderedParams
	Headers OrderedParams
}

// OrderedParams - список пар ключ/значение с сохранением порядка
// появления, используемый для ;params URI, Via и Contact.
type OrderedParams struct {
	keys   []string
	values map[string]string
}

func (p *OrderedParams) ensure() {
	if p.values == nil {
		p.values = make(map[string]string)
	}
}

// Set добавляет или заменяет параметр, сохраняя исходную позицию при
// повторной установке существующего ключа.
func (p *OrderedParams) Set(key, value string) {
	p.ensure()
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *OrderedParams) Get(key string) (string, bool) {
	if p.values == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

func (p *OrderedParams) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

func (p *OrderedParams) Keys() []string {
	return p.keys
}

func (p OrderedParams) Clone() OrderedParams {
	out := OrderedParams{}
	out.ensure()
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// ParseURI парсит "sip:"/"sips:" URI в форме, описанной в §4.C/§6.3.
func ParseURI(s string) (URI, error) {
	c := tokenizer.NewCursor([]byte(strings.TrimSpace(s)))
	return parseURICursor(c)
}

func parseURICursor(c *tokenizer.Cursor) (URI, error) {
	var u URI

	scheme := c.ReadWhile(func(b byte) bool { return tokenizer.IsLetter(b) })
	scheme = strings.ToLower(scheme)
	if scheme != "sip" && scheme != "sips" {
		return URI{}, coreerrors.Field(coreerrors.KindUnknownEnum, "scheme", scheme)
	}
	if err := c.Eat(':'); err != nil {
		return URI{}, coreerrors.Field(coreerrors.KindBadStartLine, "uri", "missing ':' after scheme")
	}
	u.Scheme = scheme

	// userinfo, если есть '@' до первого из ';','?' или конца
	rest := string(c.Remaining())
	stop := len(rest)
	for i, ch := range rest {
		if ch == ';' || ch == '?' {
			stop = i
			break
		}
	}
	if at := strings.IndexByte(rest[:stop], '@'); at >= 0 {
		u.User = rest[:at]
		c.Read(at + 1) //nolint:errcheck // bounded by rest slice above
	}

	// host[:port]
	rest = string(c.Remaining())
	stop = len(rest)
	for i, ch := range rest {
		if ch == ';' || ch == '?' {
			stop = i
			break
		}
	}
	hostport := rest[:stop]
	c.Read(len(hostport)) //nolint:errcheck

	host, port, err := splitHostPort(hostport)
	if err != nil {
		return URI{}, err
	}
	u.Host = host
	u.Port = port

	u.Params.ensure()
	u.Headers.ensure()

	for c.Peek(';') {
		c.Eat(';') //nolint:errcheck
		key := c.ReadUntil(func(b byte) bool { return b == '=' || b == ';' || b == '?' })
		if c.Peek('=') {
			c.Eat('=') //nolint:errcheck
			val := c.ReadUntil(func(b byte) bool { return b == ';' || b == '?' })
			u.Params.Set(key, val)
		} else {
			u.Params.Set(key, "")
		}
	}

	if c.Peek('?') {
		c.Eat('?') //nolint:errcheck
		for {
			key := c.ReadUntil(func(b byte) bool { return b == '=' || b == '&' })
			if err := c.Eat('='); err != nil {
				return URI{}, coreerrors.Field(coreerrors.KindBadStartLine, "uri", "malformed header param")
			}
			val := c.ReadUntil(func(b byte) bool { return b == '&' })
			u.Headers.Set(key, val)
			if !c.Peek('&') {
				break
			}
			c.Eat('&') //nolint:errcheck
		}
	}

	if !c.EOF() {
		return URI{}, coreerrors.Field(coreerrors.KindHeaderTrailingData, "uri", string(c.Remaining()))
	}

	return u, nil
}

func splitHostPort(hostport string) (string, int, error) {
	if hostport == "" {
		return "", 0, coreerrors.Field(coreerrors.KindBadStartLine, "uri", "empty host")
	}
	if idx := strings.LastIndexByte(hostport, ':'); idx >= 0 {
		// IPv6 literals are bracketed [::1]:5060 — a bare single ':' means
		// a port follows; more than one ':' with no trailing ']' is a bare
		// IPv6 host with no port.
		host := hostport[:idx]
		portStr := hostport[idx+1:]
		if strings.Count(hostport, ":") == 1 || strings.HasSuffix(host, "]") {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return "", 0, coreerrors.Field(coreerrors.KindBadStartLine, "uri.port", portStr)
			}
			return host, port, nil
		}
	}
	return hostport, 0, nil
}

// String serializes the URI back to wire form.
func (u URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteByte(':')
	if u.User != "" {
		b.WriteString(u.User)
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	if u.Port != 0 {
		fmt.Fprintf(&b, ":%d", u.Port)
	}
	for _, k := range u.Params.Keys() {
		v, _ := u.Params.Get(k)
		b.WriteByte(';')
		b.WriteString(k)
		if v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	if keys := u.Headers.Keys(); len(keys) > 0 {
		b.WriteByte('?')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}
			v, _ := u.Headers.Get(k)
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// Clone returns a deep-enough copy (params/headers maps are not shared).
func (u URI) Clone() URI {
	out := u
	out.Params = u.Params.Clone()
	out.Headers = u.Headers.Clone()
	return out
}
