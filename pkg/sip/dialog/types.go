// Package dialog implements the Session/Dialog/Transaction control-plane
// entities of §3/§4.E: a Session owns a channel and a tag-to-dialog index,
// a Dialog owns a local/remote tag pair, a CSeq counter and a branch-keyed
// transaction map.
package dialog

import (
	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

// State names the dialog's RFC 3261 lifecycle position. The engine's
// routing logic in §4.E never inspects State itself — it is purely
// observational, driven by the looplab/fsm machine in dialog.go — but
// applications can read it to decide when a call is answered or torn down.
type State string

const (
	StateInit        State = "init"
	StateTrying      State = "trying"
	StateRinging     State = "ringing"
	StateEstablished State = "established"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

// RequestHandler is the listener contract a Session dispatches an inbound
// initial request to (§4.E "invoke the listener with (dialog, message)").
type RequestHandler func(d *Dialog, msg *types.Message) bool
