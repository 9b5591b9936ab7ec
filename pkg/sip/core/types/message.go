package types

import (
	"strconv"
	"strings"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

// Message is the tagged union of request and response (§3): exactly one of
// {RequestLine, StatusLine} is populated, plus a shared header container and
// at most one Body.
type Message struct {
	SIPVersion string

	// Request fields (zero values mean "this is a response").
	Method     string
	RequestURI URI

	// Response fields (StatusCode == 0 means "this is a request").
	StatusCode   int
	ReasonPhrase string

	Headers *Headers
	Body    *Body
}

// Body is a typed value keyed by its media-type string, wrapping whichever
// body codec parsed it (§4.Body, §9 "tagged variant {Sdp, Opaque}").
type Body struct {
	MediaType string
	Raw       []byte  // wire bytes, always populated
	Typed     any     // decoded form from the body registry, nil if undecoded
}

// NewRequest builds a request-line message with an empty header container.
func NewRequest(method string, requestURI URI) *Message {
	return &Message{
		SIPVersion: "SIP/2.0",
		Method:     method,
		RequestURI: requestURI,
		Headers:    NewHeaders(),
	}
}

// NewResponse builds a status-line message with an empty header container.
func NewResponse(statusCode int, reasonPhrase string) *Message {
	return &Message{
		SIPVersion:   "SIP/2.0",
		StatusCode:   statusCode,
		ReasonPhrase: reasonPhrase,
		Headers:      NewHeaders(),
	}
}

// IsRequest reports whether m carries a request-line.
func (m *Message) IsRequest() bool { return m.StatusCode == 0 }

// IsResponse reports whether m carries a status-line.
func (m *Message) IsResponse() bool { return m.StatusCode != 0 }

// SetBody attaches a body and synchronizes Content-Length/Content-Type,
// keeping the invariant "Content-Length on the wire always equals the
// serialized body length; when a body is present, Content-Type is present
// too" (§3).
func (m *Message) SetBody(mediaType string, raw []byte) {
	m.Body = &Body{MediaType: mediaType, Raw: raw}
	m.Headers.Set(HeaderContentType, mediaType)
	m.Headers.Set(HeaderContentLength, strconv.Itoa(len(raw)))
}

// ClearBody removes any body and sets Content-Length to 0.
func (m *Message) ClearBody() {
	m.Body = nil
	m.Headers.Set(HeaderContentLength, "0")
}

// ContentLength returns the declared Content-Length, or the actual body
// length if the header is absent or malformed.
func (m *Message) ContentLength() int {
	if v, ok := m.Headers.Get(HeaderContentLength); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	if m.Body != nil {
		return len(m.Body.Raw)
	}
	return 0
}

// Validate checks the invariants of §3 that are not enforced structurally:
// a body requires Content-Type, and Content-Length must match the body.
func (m *Message) Validate() error {
	if m.Body != nil {
		if _, ok := m.Headers.Get(HeaderContentType); !ok {
			return coreerrors.New(coreerrors.KindMissingContentType, "message has body but no Content-Type")
		}
		if decl := m.ContentLength(); decl != len(m.Body.Raw) {
			return coreerrors.Field(coreerrors.KindInvalidField, "Content-Length", strconv.Itoa(decl))
		}
	}
	return nil
}

// Clone returns a deep copy safe for independent mutation.
func (m *Message) Clone() *Message {
	clone := *m
	clone.RequestURI = m.RequestURI.Clone()
	if m.Headers != nil {
		clone.Headers = m.Headers.Clone()
	}
	if m.Body != nil {
		rawCopy := append([]byte(nil), m.Body.Raw...)
		clone.Body = &Body{MediaType: m.Body.MediaType, Raw: rawCopy, Typed: m.Body.Typed}
	}
	return &clone
}

// Предопределенные методы SIP
const (
	MethodINVITE    = "INVITE"
	MethodACK       = "ACK"
	MethodBYE       = "BYE"
	MethodCANCEL    = "CANCEL"
	MethodOPTIONS   = "OPTIONS"
	MethodREGISTER  = "REGISTER"
	MethodPRACK     = "PRACK"
	MethodSUBSCRIBE = "SUBSCRIBE"
	MethodNOTIFY    = "NOTIFY"
	MethodPUBLISH   = "PUBLISH"
	MethodINFO      = "INFO"
	MethodREFER     = "REFER"
	MethodMESSAGE   = "MESSAGE"
	MethodUPDATE    = "UPDATE"
)

// Предопределенные коды статуса
const (
	StatusTrying                        = 100
	StatusRinging                       = 180
	StatusCallIsBeingForwarded          = 181
	StatusQueued                        = 182
	StatusSessionProgress               = 183
	StatusEarlyDialogTerminated         = 199
	StatusOK                            = 200
	StatusAccepted                      = 202
	StatusNoNotification                = 204
	StatusMultipleChoices               = 300
	StatusMovedPermanently              = 301
	StatusMovedTemporarily              = 302
	StatusUseProxy                      = 305
	StatusAlternativeService            = 380
	StatusBadRequest                    = 400
	StatusUnauthorized                  = 401
	StatusPaymentRequired               = 402
	StatusForbidden                     = 403
	StatusNotFound                      = 404
	StatusMethodNotAllowed              = 405
	StatusNotAcceptable                 = 406
	StatusProxyAuthenticationRequired   = 407
	StatusRequestTimeout                = 408
	StatusGone                          = 410
	StatusConditionalRequestFailed      = 412
	StatusRequestEntityTooLarge         = 413
	StatusRequestURITooLong             = 414
	StatusUnsupportedMediaType          = 415
	StatusUnsupportedURIScheme          = 416
	StatusUnknownResourcePriority       = 417
	StatusBadExtension                  = 420
	StatusExtensionRequired             = 421
	StatusSessionIntervalTooSmall       = 422
	StatusIntervalTooBrief              = 423
	StatusBadLocationInformation        = 424
	StatusUseIdentityHeader             = 428
	StatusProvideReferrerIdentity       = 429
	StatusFlowFailed                    = 430
	StatusAnonymityDisallowed           = 433
	StatusBadIdentityInfo               = 436
	StatusUnsupportedCertificate        = 437
	StatusInvalidIdentityHeader         = 438
	StatusFirstHopLacksOutboundSupport  = 439
	StatusMaxBreadthExceeded            = 440
	StatusBadInfoPackage                = 469
	StatusConsentNeeded                 = 470
	StatusTemporarilyUnavailable        = 480
	StatusCallTransactionDoesNotExist   = 481
	StatusLoopDetected                  = 482
	StatusTooManyHops                   = 483
	StatusAddressIncomplete             = 484
	StatusAmbiguous                     = 485
	StatusBusyHere                      = 486
	StatusRequestTerminated             = 487
	StatusNotAcceptableHere             = 488
	StatusBadEvent                      = 489
	StatusRequestPending                = 491
	StatusUndecipherable                = 493
	StatusSecurityAgreementRequired     = 494
	StatusInternalServerError           = 500
	StatusNotImplemented                = 501
	StatusBadGateway                    = 502
	StatusServiceUnavailable            = 503
	StatusServerTimeout                 = 504
	StatusVersionNotSupported           = 505
	StatusMessageTooLarge               = 513
	StatusPreconditionFailure           = 580
	StatusBusyEverywhere                = 600
	StatusDecline                       = 603
	StatusDoesNotExistAnywhere          = 604
	StatusNotAcceptableGlobal           = 606
	StatusUnwanted                      = 607
	StatusRejected                      = 608
)
