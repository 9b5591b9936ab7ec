package dialog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/arzzra/imsphone/internal/logging"
	"github.com/arzzra/imsphone/internal/metrics"
	"github.com/arzzra/imsphone/pkg/sip/core/parser"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
	"github.com/arzzra/imsphone/pkg/sip/transport"
)

// Session is the Session entity of §3: it owns the single channel to a
// remote endpoint, the local tag-to-dialog index, and listeners per
// inbound method.
type Session struct {
	channel   transport.Channel
	localAddr string
	localPort int
	proto     string

	parser *parser.Parser

	logger  *logging.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	dialogs   map[string]*Dialog // keyed by local tag
	listeners map[string]RequestHandler
}

// NewSession creates a Session bound to a channel that has not yet started
// reading. WithLogger/WithMetrics are optional; omitting either leaves that
// collaborator silent.
func NewSession(ch transport.Channel, localAddr string, localPort int, proto string, opts ...Option) *Session {
	s := &Session{
		channel:   ch,
		localAddr: localAddr,
		localPort: localPort,
		proto:     proto,
		parser:    parser.New(),
		dialogs:   make(map[string]*Dialog),
		listeners: make(map[string]RequestHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts the channel's read loop, wiring inbound messages to
// onNewMessage (§6.3 "Session::open(info, cb)").
func (s *Session) Open() {
	s.channel.OnRead(s.onNewMessage)
	s.channel.OnError(func(code int) {
		s.logger.With(logging.Fields{}).Warn(fmt.Sprintf("session: channel error code=%d", code))
	})
	s.channel.StartRead()
}

// Listen registers a handler for inbound initial requests of the given
// method (§6.3 "Session::listen(method, cb)").
func (s *Session) Listen(method string, handler RequestHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[method] = handler
}

// CreateDialog allocates a client-initiated dialog with a fresh local tag
// (§6.3 "Session::create_dialog() → DialogHandle").
func (s *Session) CreateDialog(callID string) *Dialog {
	localTag := uuid.NewString()[:8]
	d := newDialog(s, localTag, callID)
	s.mu.Lock()
	s.dialogs[localTag] = d
	s.mu.Unlock()
	s.metrics.DialogOpened()
	return d
}

// onNewMessage implements §4.E's inbound routing: parse, find the local
// tag candidate, route to an existing dialog or create a server-side one,
// and reject requests with no registered listener. Parse failures are
// logged and dropped — they never tear down the session (§7).
func (s *Session) onNewMessage(data []byte) {
	msg, err := s.parser.ParseMessage(data)
	if err != nil {
		s.logger.With(logging.Fields{}).Error(err, "session: dropping unparseable message")
		return
	}
	s.metrics.MessageParsed("in")

	localTag, ok := localTagCandidate(msg)
	if ok {
		s.mu.Lock()
		d, found := s.dialogs[localTag]
		s.mu.Unlock()
		if found {
			d.handleInbound(msg)
			return
		}
	}

	if !msg.IsRequest() {
		// Stray response matching no known dialog: drop.
		s.logger.With(logging.Fields{}).Debug(fmt.Sprintf("session: dropping stray response status=%d", msg.StatusCode))
		return
	}

	s.mu.Lock()
	handler, hasListener := s.listeners[msg.Method]
	s.mu.Unlock()

	if !hasListener {
		s.rejectUnknownMethod(msg)
		return
	}

	d := s.createServerDialog(msg)
	handler(d, msg)
}

// localTagCandidate extracts the tag that would identify an existing
// dialog. A dialog's local tag is the tag this session attaches to the
// From header of every request it sends on that dialog (§4.E step 3,
// `Dialog.Request`) and to the To header of every response it sends
// (§4.E "Server response", `Dialog.Respond`). The remote peer echoes
// those headers unchanged, so an inbound response carries our local tag
// back in From.tag, while an inbound in-dialog request carries it in
// To.tag (the tag the peer learned from us).
func localTagCandidate(msg *types.Message) (string, bool) {
	headerName := types.HeaderFrom
	if msg.IsRequest() {
		headerName = types.HeaderTo
	}
	v, ok := msg.Headers.Get(headerName)
	if !ok {
		return "", false
	}
	addr, err := types.ParseAddress(v)
	if err != nil {
		return "", false
	}
	return addr.Tag()
}

// createServerDialog builds a server-side dialog for an inbound initial
// request, assigning its remote tag from the request's From.tag if
// present (§4.E).
func (s *Session) createServerDialog(req *types.Message) *Dialog {
	callID, _ := req.Headers.Get(types.HeaderCallID)
	localTag := uuid.NewString()[:8]
	d := newDialog(s, localTag, callID)

	if from, ok := req.Headers.Get(types.HeaderFrom); ok {
		if addr, err := types.ParseAddress(from); err == nil {
			if tag, ok := addr.Tag(); ok {
				d.remoteTag, d.hasRemote = tag, true
			}
		}
	}
	if event, ok := map[string]string{types.MethodINVITE: "incoming"}[req.Method]; ok {
		d.fireEvent(event)
	}

	s.mu.Lock()
	s.dialogs[localTag] = d
	s.mu.Unlock()
	s.metrics.DialogOpened()
	return d
}

// rejectUnknownMethod implements S5: create a dialog, respond 608,
// preserving From/To/Call-ID/CSeq/Via from the request.
func (s *Session) rejectUnknownMethod(req *types.Message) {
	d := s.createServerDialog(req)
	if err := d.Respond(types.StatusRejected, "Rejected", req); err != nil {
		s.logger.With(logging.Fields{}).Error(err, "session: failed to reject unknown method")
	}
}
