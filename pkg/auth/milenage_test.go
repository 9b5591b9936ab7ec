package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 4187 Annex C, Test Set 1.
func rfc4187TestSet1(t *testing.T) (ki, rand, sqn, amf, opc []byte) {
	t.Helper()
	mustHex := func(s string) []byte {
		b, err := hex.DecodeString(s)
		require.NoError(t, err, "bad test vector")
		return b
	}
	ki = mustHex("465B5CE8B199B49FAA5F0A2EE238A6BC")
	rand = mustHex("23553CBE9637A89D218AE64DAE47BF35")
	sqn = mustHex("FF9BB4D0B607")
	amf = mustHex("B9B9")
	opc = mustHex("CD63CB71954A9F4E48A5994E37A02BAF")
	return
}

func TestF1MatchesRFC4187TestSet1(t *testing.T) {
	ki, rnd, sqn, amf, opc := rfc4187TestSet1(t)

	macA, _, err := F1(ki, sqn, rnd, opc, amf)
	require.NoError(t, err)
	want, _ := hex.DecodeString("4A9FFAC354DFAFB3")
	assert.Equal(t, hex.EncodeToString(want), hex.EncodeToString(macA[:]))
}

func TestF2F5MatchesRFC4187TestSet1(t *testing.T) {
	ki, rnd, _, _, opc := rfc4187TestSet1(t)

	res, ak, err := F2F5(ki, rnd, opc)
	require.NoError(t, err)
	wantRes, _ := hex.DecodeString("A54211D5E3BA50BF")
	wantAK, _ := hex.DecodeString("AA689C648370")
	assert.Equal(t, hex.EncodeToString(wantRes), hex.EncodeToString(res[:]))
	assert.Equal(t, hex.EncodeToString(wantAK), hex.EncodeToString(ak[:]))
}

func TestF1RejectsWrongSizedInput(t *testing.T) {
	ki, rnd, _, amf, opc := rfc4187TestSet1(t)
	_, _, err := F1(ki, []byte{0x01}, rnd, opc, amf)
	assert.Error(t, err, "expected error for short SQN")
}

func TestF2F5RejectsWrongSizedInput(t *testing.T) {
	ki, _, _, _, opc := rfc4187TestSet1(t)
	_, _, err := F2F5(ki, []byte{0x01, 0x02}, opc)
	assert.Error(t, err, "expected error for short RAND")
}
