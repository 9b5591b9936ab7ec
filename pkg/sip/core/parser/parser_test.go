package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

const registerRequest = "REGISTER sip:ims.mnc001.mcc001.3gppnetwork.org SIP/2.0\r\n" +
	"From: <sip:001010000000001@ims.mnc001.mcc001.3gppnetwork.org>;tag=abc\r\n" +
	"To: <sip:001010000000001@ims.mnc001.mcc001.3gppnetwork.org>\r\n" +
	"Call-ID: c1\r\n" +
	"CSeq: 1 REGISTER\r\n" +
	"Max-Forwards: 70\r\n" +
	"Expires: 1800\r\n" +
	"Content-Length: 0\r\n" +
	"\r\n"

func TestParseRequestLine(t *testing.T) {
	msg, err := New().ParseMessage([]byte(registerRequest))
	require.NoError(t, err)
	assert.True(t, msg.IsRequest())
	assert.Equal(t, types.MethodREGISTER, msg.Method)
	assert.Equal(t, "ims.mnc001.mcc001.3gppnetwork.org", msg.RequestURI.Host)
	v, _ := msg.Headers.Get(types.HeaderExpires)
	assert.Equal(t, "1800", v)
}

func TestParseResponseLine(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"From: <sip:a@b>;tag=1\r\n" +
		"To: <sip:a@b>;tag=2\r\n" +
		"Call-ID: c1\r\n" +
		"CSeq: 1 REGISTER\r\n" +
		"Via: SIP/2.0/TCP host;branch=z9hG4bK1\r\n" +
		"Content-Length: 0\r\n\r\n"
	msg, err := New().ParseMessage([]byte(raw))
	require.NoError(t, err)
	assert.True(t, msg.IsResponse())
	assert.Equal(t, 200, msg.StatusCode)
	assert.Equal(t, "OK", msg.ReasonPhrase)
}

func TestParseHeaderContinuationLine(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"From: <sip:a@b>;tag=1\r\n" +
		"To: <sip:a@b>;tag=2\r\n" +
		"Call-ID: c1\r\n" +
		"CSeq: 1 REGISTER\r\n" +
		"Via: SIP/2.0/TCP host;\r\n" +
		" branch=z9hG4bK1\r\n" +
		"Content-Length: 0\r\n\r\n"
	msg, err := New().ParseMessage([]byte(raw))
	require.NoError(t, err)
	v, _ := msg.Headers.Get(types.HeaderVia)
	assert.Equal(t, "SIP/2.0/TCP host; branch=z9hG4bK1", v)
}

func TestParseMultiValuedAllowHeader(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"From: <sip:a@b>;tag=1\r\n" +
		"To: <sip:a@b>;tag=2\r\n" +
		"Call-ID: c1\r\n" +
		"CSeq: 1 OPTIONS\r\n" +
		"Via: SIP/2.0/TCP host;branch=z9hG4bK1\r\n" +
		"Allow: INVITE, ACK, BYE\r\n" +
		"Content-Length: 0\r\n\r\n"
	msg, err := New().ParseMessage([]byte(raw))
	require.NoError(t, err)
	allow := msg.Headers.GetAll(types.HeaderAllow)
	require.Len(t, allow, 3)
	assert.Equal(t, "INVITE", allow[0])
	assert.Equal(t, "BYE", allow[2])
}

func TestParseMessageShortBodyReturnsNotEnoughBytes(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"From: <sip:a@b>;tag=1\r\n" +
		"To: <sip:a@b>;tag=2\r\n" +
		"Call-ID: c1\r\n" +
		"CSeq: 1 INVITE\r\n" +
		"Via: SIP/2.0/TCP host;branch=z9hG4bK1\r\n" +
		"Content-Type: application/sdp\r\n" +
		"Content-Length: 100\r\n\r\n" +
		"short body of 50 bytes padded out to fifty........"
	_, err := New().ParseMessage([]byte(raw))
	assert.Equal(t, coreerrors.KindNotEnoughBytes, coreerrors.Of(err))
}

func TestParseMessageMissingRequiredHeaderFails(t *testing.T) {
	raw := "REGISTER sip:example.com SIP/2.0\r\nCall-ID: c1\r\nContent-Length: 0\r\n\r\n"
	_, err := New().ParseMessage([]byte(raw))
	assert.Error(t, err, "expected error for missing required headers")
}

func TestParseMessageUnknownBodyContentType(t *testing.T) {
	raw := "SIP/2.0 200 OK\r\n" +
		"From: <sip:a@b>;tag=1\r\n" +
		"To: <sip:a@b>;tag=2\r\n" +
		"Call-ID: c1\r\n" +
		"CSeq: 1 INVITE\r\n" +
		"Via: SIP/2.0/TCP host;branch=z9hG4bK1\r\n" +
		"Content-Type: application/unknown-type\r\n" +
		"Content-Length: 4\r\n\r\ntest"
	_, err := New().ParseMessage([]byte(raw))
	assert.Equal(t, coreerrors.KindUnknownBody, coreerrors.Of(err))
}
