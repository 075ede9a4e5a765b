package transport

import (
	"context"
	"net"
	"time"
)

// maxDatagramSize matches packet.MaxRecvWindowSize; kept as a local
// constant so this package does not need to import packet for one number.
const maxDatagramSize = 1500

// UDPTransport implements Datagrams over a single bound *net.UDPConn. One
// UDPTransport serves every Remote sharing that local socket; the caller
// demultiplexes by source net.Addr.
type UDPTransport struct {
	conn *net.UDPConn
}

// ListenUDP binds a UDP socket at addr ("" binds all interfaces) and
// returns a ready-to-use UDPTransport.
func ListenUDP(addr string) (*UDPTransport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return &UDPTransport{conn: conn}, nil
}

// LocalAddr returns the bound local address.
func (t *UDPTransport) LocalAddr() net.Addr { return t.conn.LocalAddr() }

// ReadFrom blocks until a datagram is received or ctx is done.
func (t *UDPTransport) ReadFrom(ctx context.Context) ([]byte, net.Addr, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(deadline)
	} else {
		_ = t.conn.SetReadDeadline(time.Time{})
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			_ = t.conn.SetReadDeadline(time.Now())
		})
		defer stop()
	}
	buf := make([]byte, maxDatagramSize)
	n, addr, err := t.conn.ReadFrom(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, err
	}
	return buf[:n], addr, nil
}

// WriteTo sends a sealed datagram to addr.
func (t *UDPTransport) WriteTo(ctx context.Context, b []byte, addr net.Addr) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	} else {
		_ = t.conn.SetWriteDeadline(time.Time{})
	}
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp", addr.String())
		if err != nil {
			return err
		}
		udpAddr = resolved
	}
	_, err := t.conn.WriteTo(b, udpAddr)
	return err
}

// Close releases the underlying socket.
func (t *UDPTransport) Close() error { return t.conn.Close() }

var _ Datagrams = (*UDPTransport)(nil)
