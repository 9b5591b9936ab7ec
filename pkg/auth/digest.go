package auth

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// DigestParams carries the fields exchanged in a WWW-Authenticate challenge
// and the Authorization response built from it, named after the original
// auth_md5's operand order rather than RFC 2617's generic terminology.
type DigestParams struct {
	Username string
	Realm    string
	Password []byte // raw bytes; for AKA this is the 8-byte RES, not text
	Method   string
	URI      string
	Nonce    string
	CNonce   string
	QOP      string
	NC       int
}

func md5Hex(parts ...[]byte) string {
	h := md5.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ComputeResponse computes the Digest "response" field:
//
//	A1 = md5(username:realm:password)
//	A2 = md5(method:uri)
//	response = md5hex(hex(A1):nonce:nc:cnonce:qop:hex(A2))
//
// password is taken as raw bytes rather than a text string, matching
// auth_md5's operand order in the original implementation (the AKA path
// feeds it the derived RES, which is not valid UTF-8 text).
func (p DigestParams) ComputeResponse() string {
	a1 := md5Hex([]byte(p.Username), []byte(":"), []byte(p.Realm), []byte(":"), p.Password)
	a2 := md5Hex([]byte(p.Method), []byte(":"), []byte(p.URI))

	nc := fmt.Sprintf("%08x", p.NC)

	return md5Hex(
		[]byte(a1), []byte(":"),
		[]byte(p.Nonce), []byte(":"),
		[]byte(nc), []byte(":"),
		[]byte(p.CNonce), []byte(":"),
		[]byte(p.QOP), []byte(":"),
		[]byte(a2),
	)
}
