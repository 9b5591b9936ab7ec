package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestIsRequest(t *testing.T) {
	uri, err := ParseURI("sip:ims.mnc001.mcc001.3gppnetwork.org")
	require.NoError(t, err)
	m := NewRequest(MethodREGISTER, uri)
	assert.True(t, m.IsRequest())
	assert.False(t, m.IsResponse())
	assert.Equal(t, MethodREGISTER, m.Method)
}

func TestNewResponseIsResponse(t *testing.T) {
	m := NewResponse(StatusOK, "OK")
	assert.True(t, m.IsResponse())
	assert.False(t, m.IsRequest())
	assert.Equal(t, 200, m.StatusCode)
}

func TestSetBodySyncsContentLengthAndType(t *testing.T) {
	m := NewResponse(StatusOK, "OK")
	m.SetBody("application/sdp", []byte("v=0\r\n"))

	ct, ok := m.Headers.Get(HeaderContentType)
	require.True(t, ok)
	assert.Equal(t, "application/sdp", ct)
	assert.Equal(t, len("v=0\r\n"), m.ContentLength())
	assert.NoError(t, m.Validate())
}

func TestClearBodyZeroesContentLength(t *testing.T) {
	m := NewResponse(StatusOK, "OK")
	m.SetBody("application/sdp", []byte("v=0\r\n"))
	m.ClearBody()
	assert.Nil(t, m.Body)
	assert.Equal(t, 0, m.ContentLength())
}

func TestValidateMissingContentTypeWithBody(t *testing.T) {
	m := NewResponse(StatusOK, "OK")
	m.Body = &Body{MediaType: "", Raw: []byte("x")}
	assert.Error(t, m.Validate(), "expected MissingContentType error")
}

func TestValidateContentLengthMismatch(t *testing.T) {
	m := NewResponse(StatusOK, "OK")
	m.SetBody("application/sdp", []byte("v=0\r\n"))
	m.Headers.Set(HeaderContentLength, "999")
	assert.Error(t, m.Validate(), "expected Content-Length mismatch error")
}

func TestMessageCloneIsIndependent(t *testing.T) {
	uri, err := ParseURI("sip:alice@atlanta.com")
	require.NoError(t, err)
	m := NewRequest(MethodREGISTER, uri)
	m.Headers.Add("Call-ID", "abc123")
	m.SetBody("application/sdp", []byte("v=0\r\n"))

	clone := m.Clone()
	clone.Headers.Add("Call-ID", "other")
	clone.Body.Raw[0] = 'X'

	assert.Len(t, m.Headers.GetAll("Call-ID"), 1, "clone mutated original headers")
	assert.Equal(t, byte('v'), m.Body.Raw[0], "clone mutated original body")
}
