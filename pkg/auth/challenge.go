package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// Challenge is the parsed form of a WWW-Authenticate header value
// ("scheme SP params", params a comma-separated name=value list per §4.C).
type Challenge struct {
	Scheme    string
	Realm     string
	Nonce     string
	Algorithm string
	QOP       string
	Opaque    string
}

// ParseWWWAuthenticate parses a WWW-Authenticate header value into its
// scheme and named parameters. Unknown parameters are ignored; this engine
// only needs realm/nonce/algorithm/qop/opaque (§4.D).
func ParseWWWAuthenticate(value string) (Challenge, error) {
	value = strings.TrimSpace(value)
	sp := strings.IndexByte(value, ' ')
	if sp < 0 {
		return Challenge{}, coreerrors.Field(coreerrors.KindMissingHeaderValue, "WWW-Authenticate", value)
	}
	ch := Challenge{Scheme: value[:sp]}

	for _, param := range splitAuthParams(value[sp+1:]) {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		eq := strings.IndexByte(param, '=')
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(param[:eq])
		val := strings.Trim(strings.TrimSpace(param[eq+1:]), `"`)
		switch strings.ToLower(name) {
		case "realm":
			ch.Realm = val
		case "nonce":
			ch.Nonce = val
		case "algorithm":
			ch.Algorithm = val
		case "qop":
			ch.QOP = val
		case "opaque":
			ch.Opaque = val
		}
	}

	if ch.Realm == "" || ch.Nonce == "" {
		return Challenge{}, coreerrors.Field(coreerrors.KindMissingHeaderValue, "WWW-Authenticate", "missing realm/nonce")
	}
	return ch, nil
}

// splitAuthParams splits a comma-separated auth-param list without
// breaking commas embedded inside quoted-string values.
func splitAuthParams(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// genCNonce produces a random hex string the same length as the server
// nonce (§4.D: "cnonce is a random hexadecimal string whose length matches
// the received server nonce").
func genCNonce(serverNonce string) string {
	n := len(serverNonce)
	if n == 0 {
		n = 16
	}
	byteLen := (n + 1) / 2
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)[:n]
}

// Credential selects between a plain-password Digest credential and an
// AKA SIM-credential set; exactly one of Password or (Ki, OPc) must be
// set (§6.3 "password | (Ki,OPc,AMF)").
type Credential struct {
	Password []byte

	Ki  []byte
	OPc []byte
	AMF []byte // only used to validate the nonce's own AMF echoes correctly; MILENAGE reads AMF from the nonce itself
}

// BuildAuth implements §6.3's build_auth: given a parsed WWW-Authenticate
// challenge, the request method it is authenticating, the user's
// address-of-record host and username, and either a plain password or SIM
// credentials, it returns the fully-populated Authorization header value
// (scheme, algorithm, username, realm, uri, qop, nonce, cnonce, nc,
// response).
func BuildAuth(challenge Challenge, method, userHost, username string, cred Credential, nc int) (string, error) {
	uri := "sip:" + userHost
	cnonce := genCNonce(challenge.Nonce)

	var password []byte
	algorithm := challenge.Algorithm
	if len(cred.Ki) > 0 {
		n, err := DecodeNonce(challenge.Nonce)
		if err != nil {
			return "", err
		}
		res, err := SIMKeysToPassword(cred.Ki, cred.OPc, n)
		if err != nil {
			return "", err
		}
		password = res[:]
		if algorithm == "" {
			algorithm = "AKAv1-MD5"
		}
	} else {
		password = cred.Password
		if algorithm == "" {
			algorithm = "MD5"
		}
	}

	params := DigestParams{
		Username: username,
		Realm:    challenge.Realm,
		Password: password,
		Method:   method,
		URI:      uri,
		Nonce:    challenge.Nonce,
		CNonce:   cnonce,
		QOP:      "auth",
		NC:       nc,
	}
	response := params.ComputeResponse()

	return fmt.Sprintf(
		`Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s", algorithm=%s, qop=auth, nc=%08x, cnonce="%s"`,
		username, challenge.Realm, challenge.Nonce, uri, response, algorithm, nc, cnonce,
	), nil
}
