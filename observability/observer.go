// Package observability defines the event-sink capability the endpoint
// core reports through, and a couple of ready-made implementations
// (Noop, Atomic). The core never imports a concrete metrics or logging
// library directly — it only ever talks to the Observer interface, which
// hosts satisfy however they like (see observability/prom for a
// Prometheus-backed one).
package observability

import (
	"sync/atomic"
	"time"
)

// Observer receives lifecycle events from a single Remote endpoint. All
// methods must be safe to call from whatever goroutine drives the
// endpoint; implementations that need their own locking must do it
// internally.
type Observer interface {
	// PacketSent is called after a packet of the given kind is sealed for
	// sending, with its assigned sequence number.
	PacketSent(kind string, seq uint32)
	// PacketReceived is called after a packet is successfully opened and
	// decoded, before it is returned to the caller.
	PacketReceived(kind string, seq uint32, stale bool)
	// HandshakeCompleted is called once a Remote derives its session key.
	HandshakeCompleted(d time.Duration)
	// ChallengeFailed is called when Ed25519 verification of a responder's
	// nonce signature is rejected.
	ChallengeFailed()
	// ClockNarrowed is called whenever a clock-sync sample tightens the
	// existing offset interval (or establishes the first one).
	ClockNarrowed(offsetMin, offsetMax int32)
	// ClockDrift is called when a clock-sync sample is disjoint from the
	// current offset interval and replaces it. shift is the signed
	// millisecond change in midpoint.
	ClockDrift(shift int32)
}

// noopObserver implements Observer by doing nothing.
type noopObserver struct{}

func (noopObserver) PacketSent(string, uint32)          {}
func (noopObserver) PacketReceived(string, uint32, bool) {}
func (noopObserver) HandshakeCompleted(time.Duration)    {}
func (noopObserver) ChallengeFailed()                    {}
func (noopObserver) ClockNarrowed(int32, int32)          {}
func (noopObserver) ClockDrift(int32)                    {}

// Noop is the default Observer: every event is discarded.
var Noop Observer = noopObserver{}

// Atomic is an Observer that can be swapped out at runtime without
// locking the hot path that reports events, via an atomic.Pointer swap.
// The zero value reports to Noop until Set is called.
type Atomic struct {
	p atomic.Pointer[Observer]
}

// NewAtomic returns an Atomic initialized to Noop.
func NewAtomic() *Atomic {
	a := &Atomic{}
	a.Set(Noop)
	return a
}

// Set replaces the active observer. A nil observer is treated as Noop.
func (a *Atomic) Set(o Observer) {
	if o == nil {
		o = Noop
	}
	a.p.Store(&o)
}

func (a *Atomic) current() Observer {
	if p := a.p.Load(); p != nil {
		return *p
	}
	return Noop
}

func (a *Atomic) PacketSent(kind string, seq uint32)           { a.current().PacketSent(kind, seq) }
func (a *Atomic) PacketReceived(kind string, seq uint32, stale bool) {
	a.current().PacketReceived(kind, seq, stale)
}
func (a *Atomic) HandshakeCompleted(d time.Duration) { a.current().HandshakeCompleted(d) }
func (a *Atomic) ChallengeFailed()                   { a.current().ChallengeFailed() }
func (a *Atomic) ClockNarrowed(min, max int32)       { a.current().ClockNarrowed(min, max) }
func (a *Atomic) ClockDrift(shift int32)             { a.current().ClockDrift(shift) }
