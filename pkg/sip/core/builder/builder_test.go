package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arzzra/imsphone/pkg/sip/core/parser"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

func mustAddress(t *testing.T, raw string) types.Address {
	t.Helper()
	a, err := types.ParseAddress(raw)
	require.NoError(t, err)
	return a
}

func TestCreateRequestSetsRequiredHeaders(t *testing.T) {
	from := mustAddress(t, `<sip:001010000000001@ims.mnc001.mcc001.3gppnetwork.org>;tag=abc`)
	to := mustAddress(t, `<sip:001010000000001@ims.mnc001.mcc001.3gppnetwork.org>`)
	uri, err := types.ParseURI("sip:ims.mnc001.mcc001.3gppnetwork.org")
	require.NoError(t, err)

	msg := CreateRequest(types.MethodREGISTER, from, to, uri, "c1", 1, 1800, 70)
	v, _ := msg.Headers.Get(types.HeaderCallID)
	assert.Equal(t, "c1", v)
	v, _ = msg.Headers.Get(types.HeaderCSeq)
	assert.Equal(t, "1 REGISTER", v)
	v, _ = msg.Headers.Get(types.HeaderExpires)
	assert.Equal(t, "1800", v)
}

func TestWriteMessageRoundTripsThroughParser(t *testing.T) {
	from := mustAddress(t, `<sip:alice@atlanta.com>;tag=abc`)
	to := mustAddress(t, `<sip:bob@biloxi.com>`)
	uri, err := types.ParseURI("sip:bob@biloxi.com")
	require.NoError(t, err)
	msg := CreateRequest(types.MethodREGISTER, from, to, uri, "c1", 1, 0, 70)
	msg.Headers.Add(types.HeaderVia, "SIP/2.0/TCP host;branch=z9hG4bK1")

	raw, err := WriteMessage(msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "REGISTER sip:bob@biloxi.com SIP/2.0\r\n"))

	reparsed, err := parser.New().ParseMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, types.MethodREGISTER, reparsed.Method)
	v, _ := reparsed.Headers.Get(types.HeaderCallID)
	assert.Equal(t, "c1", v)
}

func TestWriteMessagePriorityTopHeadersFirst(t *testing.T) {
	msg := types.NewResponse(types.StatusOK, "OK")
	msg.Headers.Set(types.HeaderFrom, "<sip:a@b>;tag=1")
	msg.Headers.Set(types.HeaderTo, "<sip:a@b>;tag=2")
	msg.SetBody("application/sdp", []byte("v=0\r\n"))

	raw, err := WriteMessage(msg)
	require.NoError(t, err)
	text := string(raw)
	clIdx := strings.Index(text, "Content-Length:")
	fromIdx := strings.Index(text, "From:")
	require.True(t, clIdx >= 0 && fromIdx >= 0)
	assert.Less(t, clIdx, fromIdx, "Content-Length not first")
}

func TestCreateResponseCopiesDialogHeaders(t *testing.T) {
	from := mustAddress(t, `<sip:alice@atlanta.com>;tag=abc`)
	to := mustAddress(t, `<sip:bob@biloxi.com>`)
	uri, err := types.ParseURI("sip:bob@biloxi.com")
	require.NoError(t, err)
	req := CreateRequest(types.MethodREGISTER, from, to, uri, "c1", 1, 0, 70)
	req.Headers.Add(types.HeaderVia, "SIP/2.0/TCP host;branch=z9hG4bK1")

	resp := CreateResponse(req, types.StatusOK, "OK")
	v, _ := resp.Headers.Get(types.HeaderCallID)
	assert.Equal(t, "c1", v)
	assert.Len(t, resp.Headers.GetAll(types.HeaderVia), 1)
}

func TestAddTagSetsToTag(t *testing.T) {
	msg := types.NewRequest(types.MethodINVITE, types.URI{Scheme: "sip", Host: "b"})
	msg.Headers.Set(types.HeaderTo, "<sip:bob@biloxi.com>")
	require.NoError(t, AddTag(msg, types.HeaderTo, "xyz"))
	v, _ := msg.Headers.Get(types.HeaderTo)
	assert.Contains(t, v, "tag=xyz")
}
