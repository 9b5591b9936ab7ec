// Package builder implements component C's write side: write_sip(Message)
// and the create_request helper from §9.
package builder

import (
	"strconv"
	"strings"

	"github.com/arzzra/imsphone/pkg/sip/core/body"
	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

// WriteMessage serializes msg to wire bytes. Content-Length is recomputed
// from the body so it always matches what is written (§3, testable
// property 2).
func WriteMessage(msg *types.Message) ([]byte, error) {
	if msg.Body != nil {
		raw := msg.Body.Raw
		if msg.Body.Typed != nil {
			encoded, err := body.Encode(msg.Body.MediaType, msg.Body.Typed)
			if err != nil {
				return nil, err
			}
			raw = encoded
		}
		msg.Headers.Set(types.HeaderContentType, msg.Body.MediaType)
		msg.Headers.Set(types.HeaderContentLength, strconv.Itoa(len(raw)))
		msg.Body.Raw = raw
	} else {
		msg.Headers.Set(types.HeaderContentLength, "0")
	}

	var b strings.Builder
	if msg.IsRequest() {
		b.WriteString(msg.Method)
		b.WriteByte(' ')
		b.WriteString(msg.RequestURI.String())
		b.WriteByte(' ')
		b.WriteString(msg.SIPVersion)
	} else {
		b.WriteString(msg.SIPVersion)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(msg.StatusCode))
		b.WriteByte(' ')
		b.WriteString(msg.ReasonPhrase)
	}
	b.WriteString("\r\n")

	for _, name := range msg.Headers.OrderedNames() {
		for _, value := range msg.Headers.GetAll(name) {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\r\n")
		}
	}
	b.WriteString("\r\n")

	out := []byte(b.String())
	if msg.Body != nil {
		out = append(out, msg.Body.Raw...)
	}
	return out, nil
}

// CreateRequest builds a request carrying the headers common to every
// dialog-forming request (§9: "create_request(method, uris, call_id, cseq,
// expires, max_forwards) → Message").
func CreateRequest(method string, from, to types.Address, requestURI types.URI, callID string, cseq uint32, expires, maxForwards int) *types.Message {
	msg := types.NewRequest(method, requestURI)
	msg.Headers.Set(types.HeaderFrom, from.String())
	msg.Headers.Set(types.HeaderTo, to.String())
	msg.Headers.Set(types.HeaderCallID, callID)
	msg.Headers.Set(types.HeaderCSeq, strconv.FormatUint(uint64(cseq), 10)+" "+method)
	msg.Headers.Set(types.HeaderMaxForwards, strconv.Itoa(maxForwards))
	if expires > 0 {
		msg.Headers.Set(types.HeaderExpires, strconv.Itoa(expires))
	}
	return msg
}

// CreateResponse builds a response copying the dialog-identifying headers
// from the request it answers (From, To, Call-ID, CSeq, every Via).
func CreateResponse(request *types.Message, statusCode int, reasonPhrase string) *types.Message {
	resp := types.NewResponse(statusCode, reasonPhrase)
	if v, ok := request.Headers.Get(types.HeaderFrom); ok {
		resp.Headers.Set(types.HeaderFrom, v)
	}
	if v, ok := request.Headers.Get(types.HeaderTo); ok {
		resp.Headers.Set(types.HeaderTo, v)
	}
	if v, ok := request.Headers.Get(types.HeaderCallID); ok {
		resp.Headers.Set(types.HeaderCallID, v)
	}
	if v, ok := request.Headers.Get(types.HeaderCSeq); ok {
		resp.Headers.Set(types.HeaderCSeq, v)
	}
	for _, via := range request.Headers.GetAll(types.HeaderVia) {
		resp.Headers.Add(types.HeaderVia, via)
	}
	return resp
}

// AddTag sets a tag parameter on the From or To header value in place,
// used when a UAS takes a request into a dialog (§5).
func AddTag(msg *types.Message, headerName, tag string) error {
	raw, ok := msg.Headers.Get(headerName)
	if !ok {
		return coreerrors.Field(coreerrors.KindMissingHeaderValue, headerName, "")
	}
	addr, err := types.ParseAddress(raw)
	if err != nil {
		return err
	}
	addr.SetTag(tag)
	msg.Headers.Set(headerName, addr.String())
	return nil
}
