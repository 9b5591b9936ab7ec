package auth

import (
	"crypto/subtle"
	"encoding/base64"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// nonceSize is len(RAND) + len(SQN^AK) + len(AMF) + len(MAC): 16+6+2+8.
const nonceSize = RandSize + SQNSize + AMFSize + MACSize

// Nonce is the base64-encoded AKA challenge carried in the
// WWW-Authenticate nonce parameter: RAND || SQN^AK || AMF || MAC-A,
// matching the original's nonce_data layout exactly.
type Nonce struct {
	Rand       [RandSize]byte
	SQNXorAK   [SQNSize]byte
	AMF        [AMFSize]byte
	MAC        [MACSize]byte
}

// DecodeNonce parses the base64 "nonce" challenge parameter into its
// fixed-width fields.
func DecodeNonce(encoded string) (Nonce, error) {
	var n Nonce
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return n, coreerrors.Wrap(coreerrors.KindInvalidField, "aka nonce: bad base64", err)
	}
	if len(raw) != nonceSize {
		return n, coreerrors.Field(coreerrors.KindInvalidField, "nonce", "wrong decoded length")
	}
	copy(n.Rand[:], raw[0:16])
	copy(n.SQNXorAK[:], raw[16:22])
	copy(n.AMF[:], raw[22:24])
	copy(n.MAC[:], raw[24:32])
	return n, nil
}

// Encode reassembles the wire form of the nonce (used by tests and by
// servers constructing a challenge).
func (n Nonce) Encode() string {
	raw := make([]byte, 0, nonceSize)
	raw = append(raw, n.Rand[:]...)
	raw = append(raw, n.SQNXorAK[:]...)
	raw = append(raw, n.AMF[:]...)
	raw = append(raw, n.MAC[:]...)
	return base64.StdEncoding.EncodeToString(raw)
}

// SIMKeysToPassword derives the Digest password (RES) from a USIM's
// long-term key and OPc by running the challenge through MILENAGE and
// verifying the network's MAC, named after the original's
// sim_keys_to_password. A MAC mismatch is reported as KindBadServerInfo
// (the network presented a nonce that does not authenticate under ki/opc),
// never as a generic parse error.
func SIMKeysToPassword(ki, opc []byte, n Nonce) (res [RESSize]byte, err error) {
	xres, ak, err := F2F5(ki, n.Rand[:], opc)
	if err != nil {
		return res, err
	}

	var sqn [SQNSize]byte
	xorBytes(sqn[:], n.SQNXorAK[:], ak[:])

	macA, _, err := F1(ki, sqn[:], n.Rand[:], opc, n.AMF[:])
	if err != nil {
		return res, err
	}

	if subtle.ConstantTimeCompare(macA[:], n.MAC[:]) != 1 {
		return res, coreerrors.New(coreerrors.KindBadServerInfo, "aka: MAC-A mismatch")
	}

	return xres, nil
}

// BuildDigestParams derives the Digest response for an AKAv1-MD5
// challenge: the password fed into the Digest hash is the raw RES bytes
// computed by SIMKeysToPassword, matching the original's auth_aka, which
// calls sim_keys_to_password then feeds its output straight into auth_md5.
func BuildDigestParams(ki, opc []byte, encodedNonce, username, realm, method, uri, cnonce string, nc int) (DigestParams, error) {
	n, err := DecodeNonce(encodedNonce)
	if err != nil {
		return DigestParams{}, err
	}
	res, err := SIMKeysToPassword(ki, opc, n)
	if err != nil {
		return DigestParams{}, err
	}
	return DigestParams{
		Username: username,
		Realm:    realm,
		Password: res[:],
		Method:   method,
		URI:      uri,
		Nonce:    encodedNonce,
		CNonce:   cnonce,
		QOP:      "auth",
		NC:       nc,
	}, nil
}
