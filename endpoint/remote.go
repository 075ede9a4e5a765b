// Package endpoint implements the Remote Endpoint: the per-peer protocol
// state machine described in spec.md §§3-4. A Remote serializes and seals
// outbound messages, opens and deserializes inbound datagrams, tracks
// sequencing and staleness, runs the X25519/Ed25519 handshake, and narrows
// the remote-clock offset interval from ping/pong round trips.
package endpoint

import (
	"crypto/ecdh"
	"crypto/rand"
	"io"
	"net"
	"sync"

	sncrypto "github.com/SiegeEngine/siege-net/crypto"
	"github.com/SiegeEngine/siege-net/observability"
	"github.com/SiegeEngine/siege-net/packet"
)

// pingRecord is one slot of the 3-entry sent-pings ring: the sequence
// number of an outbound Init or Heartbeat and the local time it was sent.
type pingRecord struct {
	seq  uint32
	sent packet.Timestamp
	used bool
}

// Remote is the mutable per-peer state described in spec.md §3. It is safe
// for concurrent use; every state-mutating method takes an internal lock.
// One Remote corresponds to exactly one peer (no multi-peer multiplexing).
type Remote struct {
	mu sync.Mutex

	addr net.Addr
	rng  io.Reader
	clock packet.Clock
	observer observability.Observer

	nextLocalSeq  uint32
	lastRemoteSeq uint32

	ephPriv *ecdh.PrivateKey // nil once consumed by ComputeSessionKey
	ephPub  [32]byte

	sessionKey [sncrypto.KeySize]byte // all-zero until agreement completes
	nonce      [12]byte

	sentPings      [3]pingRecord
	sentPingsIndex int

	offsetMin *int32
	offsetMax *int32
}

// Option configures optional Remote behavior at construction time.
type Option func(*Remote)

// WithClock overrides the monotonic time source (default: packet.SystemClock).
func WithClock(c packet.Clock) Option {
	return func(r *Remote) { r.clock = c }
}

// WithObserver overrides the event sink (default: observability.Noop).
func WithObserver(o observability.Observer) Option {
	return func(r *Remote) { r.observer = o }
}

// New creates a Remote for addr, reading a fresh 12-byte challenge nonce
// from rng and generating a fresh ephemeral X25519 keypair. The keypair is
// always drawn from crypto/rand.Reader, not from rng. rng may be shared
// read-only across multiple Remotes (e.g. crypto/rand.Reader).
func New(addr net.Addr, rng io.Reader, opts ...Option) (*Remote, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r := &Remote{
		addr:         addr,
		rng:          rng,
		clock:        packet.SystemClock,
		observer:     observability.Noop,
		nextLocalSeq: 1,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := io.ReadFull(r.rng, r.nonce[:]); err != nil {
		return nil, newError(KindAgreementFailed, err)
	}

	priv, pub, err := sncrypto.GenerateEphemeralKeypair()
	if err != nil {
		return nil, newError(KindAgreementFailed, err)
	}
	r.ephPriv = priv
	r.ephPub = pub

	return r, nil
}

// Addr returns the remote's transport address, as supplied to New. It is
// informational only; the core never uses it for I/O.
func (r *Remote) Addr() net.Addr { return r.addr }

// NextSeqNumber returns the current outbound sequence counter and
// increments it. The first call on a fresh Remote returns 1.
func (r *Remote) NextSeqNumber() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextSeqNumberLocked()
}

func (r *Remote) nextSeqNumberLocked() uint32 {
	seq := r.nextLocalSeq
	r.nextLocalSeq++
	return seq
}

// RollNonce refreshes the initiator's 12-byte challenge nonce from rng.
func (r *Remote) RollNonce() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollNonceLocked()
}

func (r *Remote) rollNonceLocked() error {
	if _, err := io.ReadFull(r.rng, r.nonce[:]); err != nil {
		return newError(KindAgreementFailed, err)
	}
	return nil
}

// Nonce returns the current 12-byte challenge nonce.
func (r *Remote) Nonce() [12]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nonce
}

// SerializePacket seals msg for sending with no in-reply-to correlation.
func (r *Remote) SerializePacket(msg packet.Message, magic, version uint32) ([]byte, error) {
	return r.serialize(msg, magic, version, 0)
}

// SerializeReplyPacket seals msg for sending, stamping inReplyTo in the header.
func (r *Remote) SerializeReplyPacket(msg packet.Message, magic, version uint32, inReplyTo uint32) ([]byte, error) {
	return r.serialize(msg, magic, version, inReplyTo)
}

func (r *Remote) serialize(msg packet.Message, magic, version uint32, inReplyTo uint32) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.nextSeqNumberLocked()
	now := r.clock.Now()

	if packet.IsPing(msg) {
		r.sentPings[r.sentPingsIndex] = pingRecord{seq: seq, sent: now, used: true}
		r.sentPingsIndex = (r.sentPingsIndex + 1) % len(r.sentPings)
	}

	header := packet.NewHeader(now, seq, inReplyTo, packet.MaxRecvWindowSize)
	plaintext := header.Encode(make([]byte, 0, packet.HeaderLen+32))
	plaintext = packet.EncodeMessage(plaintext, msg)

	mav := packet.EncodeMagicAndVersion(magic, version)

	var nonce [sncrypto.NonceSize]byte
	if _, err := io.ReadFull(r.rng, nonce[:]); err != nil {
		return nil, newError(KindCryptoFailure, err)
	}

	sealed, err := sncrypto.Seal(r.sessionKey, nonce, mav, plaintext)
	if err != nil {
		return nil, newError(KindCryptoFailure, err)
	}

	out := make([]byte, 0, len(mav)+len(nonce)+len(sealed))
	out = append(out, mav...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)

	r.observer.PacketSent(msg.Kind().String(), seq)
	return out, nil
}

// DeserializePacket opens and decodes a datagram previously validated by
// packet.ValidateMagicAndVersion. It returns the decoded message, its
// sequence number, and whether it is stale (sequence number not strictly
// greater than the highest previously observed from this peer).
func (r *Remote) DeserializePacket(data []byte) (msg packet.Message, seq uint32, stale bool, err error) {
	const prefixLen = packet.MagicAndVersionLen + sncrypto.NonceSize
	if len(data) < prefixLen+sncrypto.TagSize {
		return nil, 0, false, newError(KindInvalidPacket, nil)
	}

	mav := data[0:packet.MagicAndVersionLen]
	var nonce [sncrypto.NonceSize]byte
	copy(nonce[:], data[packet.MagicAndVersionLen:prefixLen])
	sealed := data[prefixLen:]

	r.mu.Lock()
	defer r.mu.Unlock()

	plaintext, err := sncrypto.Open(r.sessionKey, nonce, mav, sealed)
	if err != nil {
		return nil, 0, false, newError(KindInvalidPacket, err)
	}

	header, n, err := packet.DecodeHeader(plaintext)
	if err != nil {
		return nil, 0, false, newError(KindInvalidPacket, err)
	}
	if err := header.Validate(); err != nil {
		return nil, 0, false, newError(KindInvalidPacket, err)
	}

	body := plaintext[n:]
	decoded, _, err := packet.DecodeMessage(body)
	if err != nil {
		return nil, 0, false, newError(KindInvalidPacket, err)
	}

	if header.SequenceNumber > r.lastRemoteSeq {
		r.lastRemoteSeq = header.SequenceNumber
		stale = false
	} else {
		stale = true
	}

	if header.InReplyTo != 0 {
		r.correlatePingLocked(header.InReplyTo, header.Timestamp)
	}

	r.observer.PacketReceived(decoded.Kind().String(), header.SequenceNumber, stale)
	return decoded, header.SequenceNumber, stale, nil
}

func (r *Remote) correlatePingLocked(inReplyTo uint32, bounce packet.Timestamp) {
	for _, rec := range r.sentPings {
		if rec.used && rec.seq == inReplyTo {
			r.synchronizeLocked(rec.sent, bounce, r.clock.Now())
			return
		}
	}
}
