package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURIBasic(t *testing.T) {
	u, err := ParseURI("sip:alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sip", u.Scheme)
	assert.Equal(t, "alice", u.User)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, 0, u.Port)
	assert.Equal(t, "sip:alice@example.com", u.String())
}

func TestParseURIWithPortAndParams(t *testing.T) {
	u, err := ParseURI("sips:bob@example.com:5061;transport=tls")
	require.NoError(t, err)
	assert.Equal(t, "sips", u.Scheme)
	assert.Equal(t, 5061, u.Port)
	v, ok := u.Params.Get("transport")
	assert.True(t, ok)
	assert.Equal(t, "tls", v)
}

func TestParseURINoUser(t *testing.T) {
	u, err := ParseURI("sip:ims.mnc001.mcc001.3gppnetwork.org")
	require.NoError(t, err)
	assert.Empty(t, u.User)
	assert.Equal(t, "ims.mnc001.mcc001.3gppnetwork.org", u.Host)
}

func TestParseURIUnknownScheme(t *testing.T) {
	_, err := ParseURI("tel:+15551234567")
	assert.Error(t, err, "expected UnknownEnum for tel: scheme")
}

func TestParseURIRoundTripWithHeaders(t *testing.T) {
	const raw = "sip:carol@chicago.com;method=REGISTER?subject=project"
	u, err := ParseURI(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, u.String())
}

func TestURIClone(t *testing.T) {
	u, err := ParseURI("sip:a@b;x=1")
	require.NoError(t, err)
	clone := u.Clone()
	clone.Params.Set("x", "2")
	v, _ := u.Params.Get("x")
	assert.Equal(t, "1", v, "clone mutated original")
}
