// Package transaction implements the Transaction entity of §3/§4.E: a
// branch id, the original outbound request, and a response callback whose
// return value decides whether the transaction stays open.
package transaction

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/arzzra/imsphone/pkg/sip/core/types"
)

// Callback is invoked once per inbound message routed to this transaction.
// Returning true ("final") closes the transaction; false keeps it open,
// expecting further provisional/final responses (§4.E).
type Callback func(msg *types.Message) bool

// Transaction is keyed by its branch id within a Dialog's transaction map.
type Transaction struct {
	Branch   string
	Original *types.Message
	Callback Callback
}

// GenerateBranch allocates a fresh 10-hex-character branch id (§3: "a
// 10-hex-character branch id" — deliberately not the RFC 3261
// "z9hG4bK"-prefixed magic cookie form the teacher used, since this engine
// is not required to interoperate with legacy non-RFC-3261 branch
// matching).
func GenerateBranch() string {
	b := make([]byte, 5)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ExtractBranch reads the branch parameter from a single Via header value
// ("SIP/2.0/TCP host:port;branch=xyz").
func ExtractBranch(via string) (string, bool) {
	for _, part := range strings.Split(via, ";") {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx >= 0 && strings.EqualFold(strings.TrimSpace(part[:idx]), "branch") {
			return strings.TrimSpace(part[idx+1:]), true
		}
	}
	return "", false
}

// Invoke runs the transaction's callback and reports whether the
// transaction is now closed ("final"). A transaction with no registered
// callback terminates on the first invocation, per §4.E ("Absence of a
// callback means the transaction terminates on first response").
func (t *Transaction) Invoke(msg *types.Message) (closed bool) {
	if t.Callback == nil {
		return true
	}
	return t.Callback(msg)
}
