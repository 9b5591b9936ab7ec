// Command imsphone is a small REGISTER probe exercising every core
// component end to end: it builds a channel (§6.2), opens a Session,
// sends REGISTER, and on a 401 AKA challenge runs the auth engine and
// retries.
package main

import (
	"fmt"
	"os"

	// Registers "application/sdp" with the body registry (§4.C) so an
	// INVITE/200/ACK body is decoded instead of staying opaque bytes.
	_ "github.com/arzzra/imsphone/pkg/sdp"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
