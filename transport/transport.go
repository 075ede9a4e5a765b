// Package transport carries sealed Siege-net datagrams over a concrete
// medium. The endpoint core never imports this package; it only produces
// and consumes opaque []byte datagrams, which is exactly what Datagrams
// moves.
package transport

import (
	"context"
	"net"
)

// Datagrams is the capability the core needs from a transport: send one
// sealed datagram to an address and receive the next one with its source
// address. A single Datagrams value may be shared across many Remotes.
type Datagrams interface {
	// ReadFrom blocks until a datagram is received or ctx is done.
	ReadFrom(ctx context.Context) (b []byte, addr net.Addr, err error)
	// WriteTo sends a sealed datagram to addr.
	WriteTo(ctx context.Context, b []byte, addr net.Addr) error
	// Close releases the underlying medium.
	Close() error
}
