package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/looplab/fsm"

	"github.com/arzzra/imsphone/internal/logging"
	"github.com/arzzra/imsphone/pkg/sip/core/builder"
	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/arzzra/imsphone/pkg/sip/core/types"
	"github.com/arzzra/imsphone/pkg/sip/transaction"
)

// Dialog is the Dialog entity of §3: a local tag, an optional learned
// remote tag, a CSeq counter and a branch-keyed transaction map.
type Dialog struct {
	mu sync.Mutex

	session   *Session
	localTag  string
	remoteTag string
	hasRemote bool
	callID    string
	cseq      uint32

	transactions map[string]*transaction.Transaction

	fsm *fsm.FSM
}

func newDialog(s *Session, localTag, callID string) *Dialog {
	d := &Dialog{
		session:      s,
		localTag:     localTag,
		callID:       callID,
		cseq:         1,
		transactions: make(map[string]*transaction.Transaction),
	}
	d.initFSM()
	return d
}

// initFSM wires the dialog's RFC 3261 lifecycle through looplab/fsm,
// generalizing the teacher's call-session initFSM (pkg/dialog/dialog.go)
// from a sipgo-backed call session to this engine's own message model.
func (d *Dialog) initFSM() {
	d.fsm = fsm.NewFSM(
		string(StateInit),
		fsm.Events{
			{Name: "invite", Src: []string{string(StateInit)}, Dst: string(StateTrying)},
			{Name: "incoming", Src: []string{string(StateInit)}, Dst: string(StateRinging)},
			{Name: "ringing", Src: []string{string(StateTrying)}, Dst: string(StateRinging)},
			{Name: "answered", Src: []string{string(StateTrying), string(StateRinging)}, Dst: string(StateEstablished)},
			{Name: "bye", Src: []string{string(StateEstablished)}, Dst: string(StateTerminating)},
			{Name: "terminated", Src: []string{
				string(StateInit), string(StateTrying), string(StateRinging),
				string(StateEstablished), string(StateTerminating),
			}, Dst: string(StateTerminated)},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				d.session.logger.With(logging.Fields{
					CallID:   d.callID,
					DialogID: d.localTag,
					State:    e.Dst,
				}).Debug("dialog: state transition")
			},
		},
	)
}

// State returns the dialog's current lifecycle position.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State(d.fsm.Current())
}

// fireEvent transitions the FSM, ignoring the "no transition" error — not
// every inbound method changes the dialog's lifecycle state (e.g. INFO,
// OPTIONS inside an established dialog).
func (d *Dialog) fireEvent(event string) {
	_ = d.fsm.Event(context.Background(), event)
}

// eventForOutbound maps an outbound request method to the FSM event it
// should fire, if any.
func eventForOutbound(method string) (string, bool) {
	switch method {
	case types.MethodINVITE:
		return "invite", true
	case types.MethodBYE:
		return "bye", true
	}
	return "", false
}

// eventForInboundResponse maps a final/provisional response to an FSM
// event, if any.
func eventForInboundResponse(method string, status int) (string, bool) {
	if method != types.MethodINVITE {
		return "", false
	}
	switch {
	case status == types.StatusRinging || status == types.StatusSessionProgress:
		return "ringing", true
	case status >= 200 && status < 300:
		return "answered", true
	case status >= 300:
		return "terminated", true
	}
	return "", false
}

// LocalTag returns the tag this dialog owns (From.tag on outbound
// requests, To.tag on responses it sends).
func (d *Dialog) LocalTag() string { return d.localTag }

// Request builds and sends an outbound request within this dialog,
// following §4.E's six-step outbound recipe: branch allocation, CSeq
// assignment, tag attachment, Via, Contact, then serialize-and-send.
func (d *Dialog) Request(msg *types.Message, cb transaction.Callback) (*transaction.Transaction, error) {
	d.mu.Lock()

	branch := transaction.GenerateBranch()
	if _, collision := d.transactions[branch]; collision {
		d.mu.Unlock()
		return nil, coreerrors.Field(coreerrors.KindDuplicateBranch, branch, "")
	}

	seq := d.cseq
	d.cseq++

	// Whether or not the caller already set a CSeq, the method must match
	// the request-line and the sequence number must be the dialog's
	// counter (§4.E step 2).
	msg.Headers.Set(types.HeaderCSeq, fmt.Sprintf("%d %s", seq, msg.Method))

	if from, ok := msg.Headers.Get(types.HeaderFrom); ok {
		addr, err := types.ParseAddress(from)
		if err == nil {
			addr.SetTag(d.localTag)
			msg.Headers.Set(types.HeaderFrom, addr.String())
		}
	}
	if d.hasRemote {
		if to, ok := msg.Headers.Get(types.HeaderTo); ok {
			addr, err := types.ParseAddress(to)
			if err == nil {
				addr.SetTag(d.remoteTag)
				msg.Headers.Set(types.HeaderTo, addr.String())
			}
		}
	}

	proto := d.session.proto
	msg.Headers.Set(types.HeaderVia, fmt.Sprintf("SIP/2.0/%s %s:%d;branch=%s", proto, d.session.localAddr, d.session.localPort, branch))
	msg.Headers.Set(types.HeaderContact, fmt.Sprintf("sip:%s:%d;transport=%s", d.session.localAddr, d.session.localPort, proto))

	tx := &transaction.Transaction{Branch: branch, Original: msg, Callback: cb}
	d.transactions[branch] = tx

	if event, ok := eventForOutbound(msg.Method); ok {
		d.fireEvent(event)
	}
	d.mu.Unlock()
	d.session.metrics.TransactionOpened()

	raw, err := builder.WriteMessage(msg)
	if err != nil {
		return nil, err
	}
	d.session.metrics.MessageParsed("out")
	d.session.channel.Send(raw, nil)
	return tx, nil
}

// Respond builds a response within this dialog per §4.E's server-response
// recipe: copy dialog-identifying headers and every Via/Record-Route from
// the original request, attach Expires/Max-Forwards, set To.tag to the
// dialog's local tag, then serialize and send. This does not consume a
// transaction entry — retransmissions of the original request map to the
// same response via branch lookup on the server side.
func (d *Dialog) Respond(statusCode int, reasonPhrase string, original *types.Message) error {
	resp := builder.CreateResponse(original, statusCode, reasonPhrase)

	for _, rr := range original.Headers.GetAll(types.HeaderRecordRoute) {
		resp.Headers.Add(types.HeaderRecordRoute, rr)
	}
	if v, ok := original.Headers.Get(types.HeaderMaxForwards); ok {
		resp.Headers.Set(types.HeaderMaxForwards, v)
	}
	if v, ok := original.Headers.Get(types.HeaderExpires); ok {
		resp.Headers.Set(types.HeaderExpires, v)
	}

	d.mu.Lock()
	if to, ok := resp.Headers.Get(types.HeaderTo); ok {
		addr, err := types.ParseAddress(to)
		if err == nil {
			addr.SetTag(d.localTag)
			resp.Headers.Set(types.HeaderTo, addr.String())
		}
	}
	d.mu.Unlock()

	raw, err := builder.WriteMessage(resp)
	if err != nil {
		return err
	}
	d.session.metrics.MessageParsed("out")
	d.session.channel.Send(raw, nil)
	return nil
}

// handleInbound routes a message already known to belong to this dialog
// (§4.E "within a dialog"): adopt a not-yet-learned remote tag, then route
// by Via-branch to the matching transaction.
func (d *Dialog) handleInbound(msg *types.Message) {
	d.mu.Lock()
	if !d.hasRemote {
		if msg.IsResponse() {
			if to, ok := msg.Headers.Get(types.HeaderTo); ok {
				if addr, err := types.ParseAddress(to); err == nil {
					if tag, ok := addr.Tag(); ok {
						d.remoteTag, d.hasRemote = tag, true
					}
				}
			}
		} else {
			if from, ok := msg.Headers.Get(types.HeaderFrom); ok {
				if addr, err := types.ParseAddress(from); err == nil {
					if tag, ok := addr.Tag(); ok {
						d.remoteTag, d.hasRemote = tag, true
					}
				}
			}
		}
	}

	branch, ok := viaBranch(msg, d.session.localAddr, d.session.localPort)
	var tx *transaction.Transaction
	if ok {
		tx = d.transactions[branch]
	}

	if msg.IsResponse() {
		if event, ok := eventForInboundResponse(cseqMethod(msg), msg.StatusCode); ok {
			d.fireEvent(event)
		}
	} else if msg.Method == types.MethodBYE {
		d.fireEvent("bye")
	}
	d.mu.Unlock()

	if tx == nil {
		// S4: a reply whose branch does not match any outstanding
		// transaction is dropped.
		return
	}

	closed := tx.Invoke(msg)
	if closed {
		d.mu.Lock()
		delete(d.transactions, branch)
		d.mu.Unlock()
		d.session.metrics.TransactionClosed()
	}
}

// viaBranch extracts the branch parameter from the first Via header whose
// sent-by matches the local address:port (§4.E inbound routing note).
func viaBranch(msg *types.Message, localAddr string, localPort int) (string, bool) {
	localHostPort := fmt.Sprintf("%s:%d", localAddr, localPort)
	for _, via := range msg.Headers.GetAll(types.HeaderVia) {
		if !containsHostPort(via, localHostPort) {
			continue
		}
		if branch, ok := transaction.ExtractBranch(via); ok {
			return branch, true
		}
	}
	return "", false
}

// cseqMethod extracts the method token from a "seq method" CSeq header
// value, used to classify inbound responses (§4.E).
func cseqMethod(msg *types.Message) string {
	v, ok := msg.Headers.Get(types.HeaderCSeq)
	if !ok {
		return ""
	}
	fields := strings.Fields(v)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func containsHostPort(via, hostPort string) bool {
	return strings.Contains(via, hostPort)
}
