package types

import (
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// Address представляет name-addr/addr-spec значение, используемое в From,
// To, Contact, Route и Record-Route (§4.C): необязательное display-name,
// URI (в угловых скобках или без них) и ;параметры после URI.
type Address struct {
	DisplayName string
	URI         URI
	Params      OrderedParams
}

// Tag возвращает значение параметра tag, если есть (From.tag/To.tag, §3).
func (a Address) Tag() (string, bool) {
	return a.Params.Get("tag")
}

func (a *Address) SetTag(tag string) {
	a.Params.Set("tag", tag)
}

// ParseAddress парсит name-addr или addr-spec форму:
//
//	"Alice" <sip:alice@atlanta.com>;tag=abc
//	<sip:alice@atlanta.com>;tag=abc
//	sip:alice@atlanta.com
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	var addr Address
	addr.Params.ensure()

	if strings.HasPrefix(s, "\"") {
		end := strings.Index(s[1:], "\"")
		if end < 0 {
			return Address{}, coreerrors.Field(coreerrors.KindBadStartLine, "address", "unterminated display-name")
		}
		addr.DisplayName = s[1 : 1+end]
		s = strings.TrimSpace(s[1+end+1:])
	} else if idx := strings.Index(s, "<"); idx > 0 {
		addr.DisplayName = strings.TrimSpace(s[:idx])
		s = s[idx:]
	}

	if strings.HasPrefix(s, "<") {
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return Address{}, coreerrors.Field(coreerrors.KindBadStartLine, "address", "unterminated '<uri>'")
		}
		uri, err := ParseURI(s[1:end])
		if err != nil {
			return Address{}, err
		}
		addr.URI = uri
		s = strings.TrimSpace(s[end+1:])
		for strings.HasPrefix(s, ";") {
			s = s[1:]
			key, val, remainder := splitParam(s)
			addr.Params.Set(key, val)
			s = remainder
		}
		return addr, nil
	}

	// addr-spec без угловых скобок: параметры после URI принадлежат
	// самому заголовку (From/To), не URI, если URI не содержит ';' сам.
	if idx := strings.IndexByte(s, ';'); idx >= 0 {
		uri, err := ParseURI(s[:idx])
		if err != nil {
			return Address{}, err
		}
		addr.URI = uri
		rest := s[idx+1:]
		for rest != "" {
			key, val, remainder := splitParam(rest)
			addr.Params.Set(key, val)
			rest = remainder
		}
		return addr, nil
	}

	uri, err := ParseURI(s)
	if err != nil {
		return Address{}, err
	}
	addr.URI = uri
	return addr, nil
}

// splitParam splits "key=value;rest" or "key;rest" returning key, value and
// the unconsumed remainder (without a leading ';').
func splitParam(s string) (key, val, remainder string) {
	semi := strings.IndexByte(s, ';')
	var chunk string
	if semi < 0 {
		chunk, remainder = s, ""
	} else {
		chunk, remainder = s[:semi], s[semi+1:]
	}
	if eq := strings.IndexByte(chunk, '='); eq >= 0 {
		return chunk[:eq], chunk[eq+1:], remainder
	}
	return chunk, "", remainder
}

// String serializes back to name-addr form when a display-name or params
// are present, addr-spec form otherwise.
func (a Address) String() string {
	var b strings.Builder
	useAngle := a.DisplayName != "" || len(a.Params.Keys()) > 0
	if a.DisplayName != "" {
		b.WriteByte('"')
		b.WriteString(a.DisplayName)
		b.WriteString("\" ")
	}
	if useAngle {
		b.WriteByte('<')
		b.WriteString(a.URI.String())
		b.WriteByte('>')
	} else {
		b.WriteString(a.URI.String())
	}
	for _, k := range a.Params.Keys() {
		v, _ := a.Params.Get(k)
		b.WriteByte(';')
		b.WriteString(k)
		if v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

func (a Address) Clone() Address {
	out := a
	out.URI = a.URI.Clone()
	out.Params = a.Params.Clone()
	return out
}
