package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressNameAddrWithTag(t *testing.T) {
	a, err := ParseAddress(`"Alice" <sip:alice@atlanta.com>;tag=abc`)
	require.NoError(t, err)
	assert.Equal(t, "Alice", a.DisplayName)
	tag, ok := a.Tag()
	assert.True(t, ok)
	assert.Equal(t, "abc", tag)
	assert.Equal(t, "alice", a.URI.User)
}

func TestParseAddressNoAngleBrackets(t *testing.T) {
	a, err := ParseAddress("sip:bob@biloxi.com")
	require.NoError(t, err)
	assert.Empty(t, a.DisplayName)
	_, ok := a.Tag()
	assert.False(t, ok, "expected no tag")
}

func TestParseAddressAngleBracketsNoTag(t *testing.T) {
	a, err := ParseAddress("<sip:001010000000001@ims.mnc001.mcc001.3gppnetwork.org>")
	require.NoError(t, err)
	assert.Equal(t, "ims.mnc001.mcc001.3gppnetwork.org", a.URI.Host)
}

func TestAddressRoundTrip(t *testing.T) {
	const raw = `"Bob" <sip:bob@biloxi.com>;tag=xyz`
	a, err := ParseAddress(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, a.String())
}

func TestAddressSetTag(t *testing.T) {
	a, err := ParseAddress("sip:alice@atlanta.com")
	require.NoError(t, err)
	a.SetTag("newtag")
	tag, ok := a.Tag()
	assert.True(t, ok)
	assert.Equal(t, "newtag", tag)
}
