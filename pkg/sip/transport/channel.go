// Package transport implements the channel collaborator contract (§6.2):
// on_read/on_error/start_read/send, plus the transport factory that opens a
// channel for a given local/remote address pair.
package transport

import (
	"fmt"
	"net"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
	"github.com/sirupsen/logrus"
)

// ReadHandler is invoked once per complete inbound message. Framing (the SIP
// Content-Length rule) is the caller's responsibility, not the channel's.
type ReadHandler func(data []byte)

// ErrorHandler is invoked with a transport error code (§7: ChannelError(code)).
type ErrorHandler func(code int)

// CompletionHandler reports the outcome of a single Send call.
type CompletionHandler func(code int)

// Channel is the collaborator contract a Session depends on (§6.2).
type Channel interface {
	OnRead(cb ReadHandler)
	OnError(cb ErrorHandler)
	StartRead()
	Send(data []byte, completion CompletionHandler)
	LocalAddr() string
	RemoteAddr() string
	Close() error
}

// Endpoint identifies the four-tuple a transport factory opens a channel
// for.
type Endpoint struct {
	LocalAddress  string
	LocalPort     int
	RemoteAddress string
	RemotePort    int
}

func (e Endpoint) localHostPort() string {
	return fmt.Sprintf("%s:%d", e.LocalAddress, e.LocalPort)
}

func (e Endpoint) remoteHostPort() string {
	return fmt.Sprintf("%s:%d", e.RemoteAddress, e.RemotePort)
}

// Factory opens a Channel for a protocol name ("tcp", "ws"). On failure it
// returns the dial error as it is (Open passes it on unwrapped), mirroring
// the teacher's Transport/Manager split (one factory per protocol) reduced
// to the spec's narrower channel contract.
type Factory func(Endpoint) (Channel, error)

var factories = map[string]Factory{}

// RegisterFactory installs a transport factory for a protocol name.
func RegisterFactory(protocol string, f Factory) {
	factories[protocol] = f
}

// Open dials the given protocol/endpoint via its registered factory.
func Open(protocol string, ep Endpoint) (Channel, error) {
	f, ok := factories[protocol]
	if !ok {
		return nil, coreerrors.Field(coreerrors.KindUnknownEnum, "transport", protocol)
	}
	ch, err := f(ep)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"protocol": protocol,
			"remote":   ep.remoteHostPort(),
		}).WithError(err).Warn("transport: dial failed")
		return nil, err
	}
	return ch, nil
}

// dialTCP is shared by the tcp factory and tests that want a raw net.Conn
// without going through the registry.
func dialTCP(ep Endpoint) (net.Conn, error) {
	return net.Dial("tcp", ep.remoteHostPort())
}
