package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalHeaderName(t *testing.T) {
	cases := map[string]string{
		"via":              HeaderVia,
		"CALL-ID":          HeaderCallID,
		"cseq":             HeaderCSeq,
		"content-length":   HeaderContentLength,
		"www-authenticate": HeaderWWWAuthenticate,
		"max-forwards":     HeaderMaxForwards,
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalHeaderName(in))
	}
}

func TestCompactFormMapping(t *testing.T) {
	full, ok := GetCompactFormMapping("m")
	require.True(t, ok)
	assert.Equal(t, HeaderContact, full)

	_, ok = GetCompactFormMapping("z")
	assert.False(t, ok, "expected no mapping for 'z'")
}

func TestHeadersAddPreservesOrderAndMultiplicity(t *testing.T) {
	h := NewHeaders()
	h.Add("Via", "SIP/2.0/TCP host1;branch=z9hG4bK1")
	h.Add("via", "SIP/2.0/TCP host2;branch=z9hG4bK2")
	h.Add("From", `"Alice" <sip:alice@atlanta.com>;tag=abc`)

	assert.Equal(t, []string{HeaderVia, HeaderFrom}, h.Names())
	vias := h.GetAll("Via")
	require.Len(t, vias, 2)
	assert.Equal(t, "SIP/2.0/TCP host1;branch=z9hG4bK1", vias[0])
}

func TestHeadersSetReplaces(t *testing.T) {
	h := NewHeaders()
	h.Add("Expires", "3600")
	h.Set("Expires", "60")
	assert.Equal(t, []string{"60"}, h.GetAll("Expires"))
}

func TestHeadersRemove(t *testing.T) {
	h := NewHeaders()
	h.Add("Subject", "test call")
	h.Remove("subject")
	assert.False(t, h.Has("Subject"), "expected Subject removed")
	assert.Empty(t, h.Names())
}

func TestHeadersOrderedNamesPriorityTopFirst(t *testing.T) {
	h := NewHeaders()
	h.Add("Via", "SIP/2.0/TCP host;branch=z9hG4bK1")
	h.Add("Content-Length", "0")
	h.Add("From", `<sip:a@b>`)
	h.Add("Content-Type", "application/sdp")

	order := h.OrderedNames()
	require.Len(t, order, 4)
	assert.Equal(t, HeaderContentLength, order[0])
	assert.Equal(t, HeaderContentType, order[1])
}

func TestHeadersClone(t *testing.T) {
	h := NewHeaders()
	h.Add("To", "<sip:bob@biloxi.com>")
	clone := h.Clone()
	clone.Add("To", "<sip:carol@chicago.com>")
	assert.Len(t, h.GetAll("To"), 1, "clone mutated original")
}

func TestRegisteredHeaderParseRejectsNonNumeric(t *testing.T) {
	def, ok := LookupHeader(HeaderMaxForwards)
	require.True(t, ok, "Max-Forwards not registered")

	_, err := def.Parse("seventy")
	assert.Error(t, err, "expected error parsing non-numeric Max-Forwards")

	v, err := def.Parse("70")
	require.NoError(t, err)
	assert.Equal(t, "70", v)
}

func TestRegisteredContentLengthRejectsEmpty(t *testing.T) {
	def, _ := LookupHeader(HeaderContentLength)
	_, err := def.Parse("")
	assert.Error(t, err, "expected error for empty Content-Length")
}
