package transport

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// errUnexpectedText is returned when a peer sends a text frame; Siege-net
// only ever carries binary datagrams over a WebSocket transport.
var errUnexpectedText = errors.New("transport: unexpected websocket text message")

// wsAddr adapts a gorilla/websocket connection's remote address to net.Addr
// for callers that key state by source address the way a UDPTransport does.
type wsAddr struct{ s string }

func (a wsAddr) Network() string { return "ws" }
func (a wsAddr) String() string  { return a.s }

// WebSocketTransport adapts one gorilla/websocket connection to Datagrams:
// one sealed datagram per binary WebSocket message. Unlike UDPTransport it
// serves exactly one peer, so WriteTo ignores its addr argument and
// ReadFrom always reports the same wsAddr.
type WebSocketTransport struct {
	c    *websocket.Conn
	addr wsAddr
}

// NewWebSocketTransport wraps an already-established (dialed or upgraded)
// websocket connection.
func NewWebSocketTransport(c *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{c: c, addr: wsAddr{s: c.RemoteAddr().String()}}
}

// ReadFrom blocks until a binary frame is received or ctx is done.
func (t *WebSocketTransport) ReadFrom(ctx context.Context) ([]byte, net.Addr, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		_ = t.c.SetReadDeadline(deadline)
	} else {
		_ = t.c.SetReadDeadline(time.Time{})
	}
	if ctx.Done() != nil {
		var active atomic.Bool
		active.Store(true)
		stop := context.AfterFunc(ctx, func() {
			if active.Load() {
				_ = t.c.SetReadDeadline(time.Now())
			}
		})
		defer func() {
			active.Store(false)
			stop()
		}()
	}
	for {
		mt, b, err := t.c.ReadMessage()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if cerr := ctx.Err(); cerr != nil {
					return nil, nil, cerr
				}
				if hasDeadline && !time.Now().Before(deadline) {
					return nil, nil, context.DeadlineExceeded
				}
			}
			return nil, nil, err
		}
		switch mt {
		case websocket.BinaryMessage:
			return b, t.addr, nil
		case websocket.TextMessage:
			return nil, nil, errUnexpectedText
		default:
			continue
		}
	}
}

// WriteTo sends b as one binary WebSocket message. addr is ignored: a
// WebSocketTransport always has exactly one peer, the dialed/accepted
// connection it wraps.
func (t *WebSocketTransport) WriteTo(ctx context.Context, b []byte, _ net.Addr) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		_ = t.c.SetWriteDeadline(deadline)
	} else {
		_ = t.c.SetWriteDeadline(time.Time{})
	}
	err := t.c.WriteMessage(websocket.BinaryMessage, b)
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return context.DeadlineExceeded
		}
	}
	return err
}

// Close closes the underlying websocket connection.
func (t *WebSocketTransport) Close() error { return t.c.Close() }

var _ Datagrams = (*WebSocketTransport)(nil)
