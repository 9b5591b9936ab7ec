package transport

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// tcpChannel implements Channel over a persistent net.Conn, framing inbound
// bytes on the SIP header block plus Content-Length exactly as the core
// parser would, so StartRead only ever delivers complete messages to
// OnRead.
type tcpChannel struct {
	conn net.Conn
	r    *bufio.Reader

	mu      sync.Mutex
	onRead  ReadHandler
	onError ErrorHandler
}

// NewTCPChannel wraps an already-connected net.Conn.
func NewTCPChannel(conn net.Conn) Channel {
	return &tcpChannel{conn: conn, r: bufio.NewReader(conn)}
}

func init() {
	RegisterFactory("tcp", func(ep Endpoint) (Channel, error) {
		conn, err := dialTCP(ep)
		if err != nil {
			return nil, err
		}
		return NewTCPChannel(conn), nil
	})
}

func (c *tcpChannel) OnRead(cb ReadHandler)   { c.mu.Lock(); c.onRead = cb; c.mu.Unlock() }
func (c *tcpChannel) OnError(cb ErrorHandler) { c.mu.Lock(); c.onError = cb; c.mu.Unlock() }

// StartRead runs the read loop in its own goroutine, delivering one
// complete SIP message per OnRead callback. Framing does not validate
// header lines: a malformed message is delivered as read, and dropping it
// is left to the OnRead callback (Session logs and drops messages it cannot
// parse). A read error (EOF, I/O failure) is reported via OnError and ends
// the loop.
func (c *tcpChannel) StartRead() {
	go func() {
		for {
			msg, err := c.readOneMessage()
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
				onRead(msg)
			}
		}
	}()
}

func (c *tcpChannel) readOneMessage() ([]byte, error) {
	var header []byte
	contentLength := 0
	for {
		line, err := c.r.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		header = append(header, line...)
		trimmed := strings.TrimRight(string(line), "\r\n")
		if trimmed == "" {
			break
		}
		if idx := strings.IndexByte(trimmed, ':'); idx >= 0 {
			name := strings.TrimSpace(trimmed[:idx])
			if strings.EqualFold(name, "Content-Length") || name == "l" {
				if n, err := strconv.Atoi(strings.TrimSpace(trimmed[idx+1:])); err == nil {
					contentLength = n
				}
			}
		}
	}
	body := make([]byte, contentLength)
	if contentLength > 0 {
		if _, err := io.ReadFull(c.r, body); err != nil {
			return nil, err
		}
	}
	return append(header, body...), nil
}

func (c *tcpChannel) Send(data []byte, completion CompletionHandler) {
	_, err := c.conn.Write(data)
	if completion != nil {
		completion(channelErrorCode(err))
	}
	if err != nil {
		logrus.WithError(err).Warn("tcp channel: write failed")
	}
}

func (c *tcpChannel) LocalAddr() string  { return c.conn.LocalAddr().String() }
func (c *tcpChannel) RemoteAddr() string { return c.conn.RemoteAddr().String() }
func (c *tcpChannel) Close() error       { return c.conn.Close() }

func channelErrorCode(err error) int {
	if err == nil {
		return 0
	}
	if err == io.EOF {
		return 1
	}
	return 2
}
