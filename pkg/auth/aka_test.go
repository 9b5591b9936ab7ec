package auth

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

func buildTestSet1Nonce(t *testing.T) string {
	t.Helper()
	raw, err := hex.DecodeString(
		"23553CBE9637A89D218AE64DAE47BF35" + // RAND
			"55F328B43577" + // SQN xor AK
			"B9B9" + // AMF
			"4A9FFAC354DFAFB3", // MAC-A
	)
	require.NoError(t, err, "bad literal")
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecodeNonceRoundTrips(t *testing.T) {
	encoded := buildTestSet1Nonce(t)
	n, err := DecodeNonce(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, n.Encode())
}

func TestDecodeNonceRejectsBadLength(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	_, err := DecodeNonce(short)
	assert.Error(t, err, "expected length error")
}

func TestSIMKeysToPasswordMatchesRFC4187TestSet1(t *testing.T) {
	ki, _, _, _, opc := rfc4187TestSet1(t)
	encoded := buildTestSet1Nonce(t)
	n, err := DecodeNonce(encoded)
	require.NoError(t, err)

	res, err := SIMKeysToPassword(ki, opc, n)
	require.NoError(t, err)
	want, _ := hex.DecodeString("A54211D5E3BA50BF")
	assert.Equal(t, hex.EncodeToString(want), hex.EncodeToString(res[:]))
}

func TestSIMKeysToPasswordRejectsBadMAC(t *testing.T) {
	ki, rnd, _, amf, opc := rfc4187TestSet1(t)
	n, err := DecodeNonce(buildTestSet1Nonce(t))
	require.NoError(t, err)
	n.MAC[0] ^= 0xFF // corrupt the MAC so it no longer authenticates

	_, err = SIMKeysToPassword(ki, opc, n)
	assert.Equal(t, coreerrors.KindBadServerInfo, coreerrors.Of(err))
	_ = rnd
	_ = amf
}

func TestBuildDigestParamsProducesDeterministicResponse(t *testing.T) {
	ki, _, _, _, opc := rfc4187TestSet1(t)
	encoded := buildTestSet1Nonce(t)

	p, err := BuildDigestParams(ki, opc, encoded, "user@example.com", "ims.example.com", "REGISTER", "sip:ims.example.com", "cnonce1", 1)
	require.NoError(t, err)
	r1 := p.ComputeResponse()
	r2 := p.ComputeResponse()
	assert.Equal(t, r1, r2, "response must be deterministic for identical params")
	assert.NotEmpty(t, r1)
}

func TestBuildDigestParamsPropagatesBadServerInfo(t *testing.T) {
	ki, _, _, _, opc := rfc4187TestSet1(t)
	raw, _ := hex.DecodeString(
		"23553CBE9637A89D218AE64DAE47BF35" +
			"55F328B43577" +
			"B9B9" +
			"0000000000000000", // wrong MAC
	)
	encoded := base64.StdEncoding.EncodeToString(raw)

	_, err := BuildDigestParams(ki, opc, encoded, "user", "realm", "REGISTER", "sip:x", "cnonce", 1)
	assert.Equal(t, coreerrors.KindBadServerInfo, coreerrors.Of(err))
}
