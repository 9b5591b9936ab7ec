package transport

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// wsChannel implements Channel over a gorilla/websocket connection,
// carrying SIP messages one per text/binary frame (RFC 7118 "SIP over
// WebSocket" framing: no Content-Length parsing needed, the frame boundary
// is the message boundary).
type wsChannel struct {
	conn *websocket.Conn

	mu      sync.Mutex
	onRead  ReadHandler
	onError ErrorHandler
}

// NewWebSocketChannel wraps an already-established *websocket.Conn.
func NewWebSocketChannel(conn *websocket.Conn) Channel {
	return &wsChannel{conn: conn}
}

func init() {
	RegisterFactory("ws", func(ep Endpoint) (Channel, error) {
		url := "ws://" + ep.remoteHostPort() + "/"
		dialer := websocket.Dialer{Subprotocols: []string{"sip"}}
		conn, _, err := dialer.Dial(url, nil)
		if err != nil {
			return nil, err
		}
		return NewWebSocketChannel(conn), nil
	})
}

func (c *wsChannel) OnRead(cb ReadHandler)   { c.mu.Lock(); c.onRead = cb; c.mu.Unlock() }
func (c *wsChannel) OnError(cb ErrorHandler) { c.mu.Lock(); c.onError = cb; c.mu.Unlock() }

func (c *wsChannel) StartRead() {
	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				onError := c.onError
				c.mu.Unlock()
				if onError != nil {
					onError(channelErrorCode(err))
				}
				return
			}
			c.mu.Lock()
			onRead := c.onRead
			c.mu.Unlock()
			if onRead != nil {
				onRead(data)
			}
		}
	}()
}

func (c *wsChannel) Send(data []byte, completion CompletionHandler) {
	err := c.conn.WriteMessage(websocket.TextMessage, data)
	if completion != nil {
		completion(channelErrorCode(err))
	}
	if err != nil {
		logrus.WithError(err).Warn("websocket channel: write failed")
	}
}

func (c *wsChannel) LocalAddr() string  { return c.conn.LocalAddr().String() }
func (c *wsChannel) RemoteAddr() string { return c.conn.RemoteAddr().String() }
func (c *wsChannel) Close() error       { return c.conn.Close() }
