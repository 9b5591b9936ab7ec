package types

import (
	"sort"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// HeaderFlags describes how a header type participates in serialization and
// parsing (§3: "priority-top", "allow-multiple").
type HeaderFlags struct {
	PriorityTop   bool // serialize before all non-priority headers
	AllowMultiple bool // may occur more than once / as a comma-separated list
}

// HeaderDef is the registry entry for one header type (§9 registry pattern):
// canonical name, flags, and a Parse function dispatched by name. There is
// no per-header write function: values are stored as the strings Parse
// returns and the writer emits them as they are.
type HeaderDef struct {
	Name  string
	Flags HeaderFlags
	// Parse checks a single header-line value and returns the string form
	// that is stored for it. Headers without typed structure (Via among
	// them) use ParseOpaque.
	Parse func(value string) (string, error)
}

var headerRegistry = map[string]HeaderDef{}

// RegisterHeader adds or replaces a header type in the registry. Called from
// init() for the in-core header set; applications may register extensions.
func RegisterHeader(def HeaderDef) {
	headerRegistry[def.Name] = def
}

// LookupHeader returns the registered definition for a canonical name.
func LookupHeader(canonicalName string) (HeaderDef, bool) {
	def, ok := headerRegistry[canonicalName]
	return def, ok
}

// ParseOpaque is the identity Parse function for headers with no typed
// grammar beyond "trim surrounding whitespace" (Subject, Server, ...).
func ParseOpaque(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

func init() {
	top := HeaderFlags{PriorityTop: true}
	single := HeaderFlags{}
	multi := HeaderFlags{AllowMultiple: true}

	RegisterHeader(HeaderDef{Name: HeaderFrom, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderTo, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderContact, Flags: multi, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderVia, Flags: multi, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderCSeq, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderCallID, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderContentLength, Flags: top, Parse: parseContentLengthValue})
	RegisterHeader(HeaderDef{Name: HeaderContentType, Flags: top, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderMaxForwards, Flags: single, Parse: parseUintValue})
	RegisterHeader(HeaderDef{Name: HeaderExpires, Flags: single, Parse: parseUintValue})
	RegisterHeader(HeaderDef{Name: HeaderMinExpires, Flags: single, Parse: parseUintValue})
	RegisterHeader(HeaderDef{Name: HeaderRoute, Flags: multi, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderRecordRoute, Flags: multi, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderServer, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderSubject, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderAllow, Flags: multi, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderAuthorization, Flags: single, Parse: ParseOpaque})
	RegisterHeader(HeaderDef{Name: HeaderWWWAuthenticate, Flags: single, Parse: ParseOpaque})
}

func parseUintValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", coreerrors.Field(coreerrors.KindMissingHeaderValue, "header-value", value)
	}
	for _, b := range []byte(value) {
		if b < '0' || b > '9' {
			return "", coreerrors.Field(coreerrors.KindBadStartLine, "header-value", value)
		}
	}
	return value, nil
}

func parseContentLengthValue(value string) (string, error) {
	return parseUintValue(value)
}

// Headers is an ordered multimap keyed by canonical header name, preserving
// first-occurrence order of names and insertion order of values within a
// name (§3, §6.1).
type Headers struct {
	names  []string
	values map[string][]string
}

// NewHeaders returns an empty header container.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string][]string)}
}

// CanonicalHeaderName normalizes a header name per §6.1: case-insensitive on
// input, "First-Letter-Each-Word-Uppercase" on output, with compact forms
// and the irregular names (Call-ID, CSeq, WWW-Authenticate) special-cased.
func CanonicalHeaderName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if full, ok := compactForms[lower]; ok {
		return full
	}
	if canonical, ok := irregularHeaderNames[lower]; ok {
		return canonical
	}
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, "-")
}

var irregularHeaderNames = map[string]string{
	"call-id":          HeaderCallID,
	"cseq":             HeaderCSeq,
	"www-authenticate": HeaderWWWAuthenticate,
	"mime-version":     HeaderMIMEVersion,
}

// Add appends a value under name, normalizing the name and recording first
// appearance order.
func (h *Headers) Add(name, value string) {
	name = CanonicalHeaderName(name)
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = append(h.values[name], value)
}

// Set replaces all values under name with a single value.
func (h *Headers) Set(name, value string) {
	name = CanonicalHeaderName(name)
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = []string{value}
}

// Get returns the first value under name, if any.
func (h *Headers) Get(name string) (string, bool) {
	vs, ok := h.values[CanonicalHeaderName(name)]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetAll returns every value under name in insertion order.
func (h *Headers) GetAll(name string) []string {
	return h.values[CanonicalHeaderName(name)]
}

// Has reports whether name has at least one value.
func (h *Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Remove deletes every value under name.
func (h *Headers) Remove(name string) {
	name = CanonicalHeaderName(name)
	if _, ok := h.values[name]; !ok {
		return
	}
	delete(h.values, name)
	for i, n := range h.names {
		if n == name {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Names returns the canonical names in first-occurrence order.
func (h *Headers) Names() []string {
	return h.names
}

// OrderedNames returns the names in writer order: priority-top headers
// first, then the rest; each group is sorted in lexical order, the
// tiebreak required by §6.1.
func (h *Headers) OrderedNames() []string {
	var top, rest []string
	for _, name := range h.names {
		if def, ok := LookupHeader(name); ok && def.Flags.PriorityTop {
			top = append(top, name)
		} else {
			rest = append(rest, name)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i] < top[j] })
	sort.SliceStable(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(top, rest...)
}

// Clone returns a deep copy.
func (h *Headers) Clone() *Headers {
	out := NewHeaders()
	for _, name := range h.names {
		vs := h.values[name]
		clone := append([]string(nil), vs...)
		out.names = append(out.names, name)
		out.values[name] = clone
	}
	return out
}

// Предопределенные имена заголовков
const (
	HeaderVia                = "Via"
	HeaderFrom               = "From"
	HeaderTo                 = "To"
	HeaderCallID             = "Call-ID"
	HeaderCSeq               = "CSeq"
	HeaderContact            = "Contact"
	HeaderMaxForwards        = "Max-Forwards"
	HeaderRoute              = "Route"
	HeaderRecordRoute        = "Record-Route"
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderAuthorization      = "Authorization"
	HeaderWWWAuthenticate    = "WWW-Authenticate"
	HeaderProxyAuthenticate  = "Proxy-Authenticate"
	HeaderProxyAuthorization = "Proxy-Authorization"
	HeaderExpires            = "Expires"
	HeaderAllow              = "Allow"
	HeaderSupported          = "Supported"
	HeaderRequire            = "Require"
	HeaderProxyRequire       = "Proxy-Require"
	HeaderUnsupported        = "Unsupported"
	HeaderRetryAfter         = "Retry-After"
	HeaderUserAgent          = "User-Agent"
	HeaderServer             = "Server"
	HeaderSubject            = "Subject"
	HeaderDate               = "Date"
	HeaderTimestamp          = "Timestamp"
	HeaderWarning            = "Warning"
	HeaderPriority           = "Priority"
	HeaderOrganization       = "Organization"
	HeaderAccept             = "Accept"
	HeaderAcceptEncoding     = "Accept-Encoding"
	HeaderAcceptLanguage     = "Accept-Language"
	HeaderAlertInfo          = "Alert-Info"
	HeaderErrorInfo          = "Error-Info"
	HeaderInReplyTo          = "In-Reply-To"
	HeaderMIMEVersion        = "MIME-Version"
	HeaderMinExpires         = "Min-Expires"
	HeaderReplyTo            = "Reply-To"
	HeaderAuthenticationInfo = "Authentication-Info"
)

// Compact form заголовков (§6.1: compact forms normalize to the full name)
var compactForms = map[string]string{
	"i": HeaderCallID,
	"m": HeaderContact,
	"f": HeaderFrom,
	"t": HeaderTo,
	"v": HeaderVia,
	"c": HeaderContentType,
	"l": HeaderContentLength,
	"k": HeaderSupported,
	"s": HeaderSubject,
}

// GetCompactFormMapping возвращает полное имя для compact form
func GetCompactFormMapping(compact string) (string, bool) {
	full, ok := compactForms[strings.ToLower(compact)]
	return full, ok
}
