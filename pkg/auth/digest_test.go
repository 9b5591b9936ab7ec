package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// RFC 2617 §3.5 worked example.
func TestComputeResponseMatchesRFC2617Example(t *testing.T) {
	p := DigestParams{
		Username: "Mufasa",
		Realm:    "testrealm@host.com",
		Password: []byte("Circle Of Life"),
		Method:   "GET",
		URI:      "/dir/index.html",
		Nonce:    "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		CNonce:   "0a4f113b",
		QOP:      "auth",
		NC:       1,
	}
	assert.Equal(t, "6629fae49393a05397450978507c4ef1", p.ComputeResponse())
}

func TestComputeResponseChangesWithNC(t *testing.T) {
	base := DigestParams{
		Username: "alice", Realm: "r", Password: []byte("secret"),
		Method: "INVITE", URI: "sip:bob@example.com",
		Nonce: "abc123", CNonce: "xyz", QOP: "auth", NC: 1,
	}
	r1 := base.ComputeResponse()
	base.NC = 2
	r2 := base.ComputeResponse()
	assert.NotEqual(t, r1, r2, "response must change when nc changes")
}

func TestComputeResponseAcceptsRawBinaryPassword(t *testing.T) {
	p := DigestParams{
		Username: "310150000000000",
		Realm:    "ims.example.com",
		Password: []byte{0xA5, 0x42, 0x11, 0xD5, 0xE3, 0x99, 0x4D, 0x61},
		Method:   "REGISTER",
		URI:      "sip:ims.example.com",
		Nonce:    "dGVzdG5vbmNl",
		CNonce:   "cnonce1",
		QOP:      "auth",
		NC:       1,
	}
	assert.NotEmpty(t, p.ComputeResponse())
}
