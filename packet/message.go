package packet

import (
	"errors"

	"github.com/SiegeEngine/siege-net/internal/bin"
)

// Kind is the one-byte wire discriminant selecting a Message's concrete type.
type Kind uint8

const (
	KindInit             Kind = 0
	KindInitAck          Kind = 1
	KindUpgradeRequired  Kind = 2
	KindHeartbeat        Kind = 3
	KindHeartbeatAck     Kind = 4
	KindShutdown         Kind = 5
	KindShutdownComplete Kind = 6
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "Init"
	case KindInitAck:
		return "InitAck"
	case KindUpgradeRequired:
		return "UpgradeRequired"
	case KindHeartbeat:
		return "Heartbeat"
	case KindHeartbeatAck:
		return "HeartbeatAck"
	case KindShutdown:
		return "Shutdown"
	case KindShutdownComplete:
		return "ShutdownComplete"
	default:
		return "Unknown"
	}
}

// ErrUnknownKind is returned by DecodeMessage when the leading discriminant
// byte does not name a known Kind.
var ErrUnknownKind = errors.New("packet: unknown message kind")

// ErrTruncatedMessage is returned by DecodeMessage when the body is shorter
// than its kind requires.
var ErrTruncatedMessage = errors.New("packet: truncated message body")

// Message is implemented by every wire message kind. IsPing reports whether
// an outbound message of this kind should have its send time recorded for
// clock-sync correlation (true only for Init and Heartbeat, per spec).
type Message interface {
	Kind() Kind
	encodeBody(dst []byte) []byte
}

func (Init) Kind() Kind             { return KindInit }
func (InitAck) Kind() Kind          { return KindInitAck }
func (UpgradeRequired) Kind() Kind  { return KindUpgradeRequired }
func (Heartbeat) Kind() Kind        { return KindHeartbeat }
func (HeartbeatAck) Kind() Kind     { return KindHeartbeatAck }
func (Shutdown) Kind() Kind         { return KindShutdown }
func (ShutdownComplete) Kind() Kind { return KindShutdownComplete }

// IsPing reports whether m's kind is one whose send time must be recorded
// for clock-sync correlation (Init or Heartbeat).
func IsPing(m Message) bool {
	switch m.Kind() {
	case KindInit, KindHeartbeat:
		return true
	default:
		return false
	}
}

// Init is the initiator's handshake opener: its ephemeral X25519 public key
// and its 12-byte challenge nonce.
type Init struct {
	PublicKey [32]byte
	Nonce     [12]byte
}

func (m Init) encodeBody(dst []byte) []byte {
	dst = append(dst, m.PublicKey[:]...)
	dst = append(dst, m.Nonce[:]...)
	return dst
}

func decodeInit(b []byte) (Init, int, error) {
	if len(b) < 32+12 {
		return Init{}, 0, ErrTruncatedMessage
	}
	var m Init
	copy(m.PublicKey[:], b[0:32])
	copy(m.Nonce[:], b[32:44])
	return m, 44, nil
}

// InitAck is the responder's handshake reply: its own ephemeral public key
// and a 64-byte Ed25519 signature over the initiator's nonce, carried as two
// 32-byte halves purely for wire encoding.
type InitAck struct {
	PublicKey      [32]byte
	NonceResponse1 [32]byte
	NonceResponse2 [32]byte
}

// NewInitAck splits a 64-byte nonce_response into its two wire halves.
func NewInitAck(publicKey [32]byte, nonceResponse [64]byte) InitAck {
	var m InitAck
	m.PublicKey = publicKey
	copy(m.NonceResponse1[:], nonceResponse[0:32])
	copy(m.NonceResponse2[:], nonceResponse[32:64])
	return m
}

// GetNonceResponse reassembles the two wire halves into the original
// 64-byte Ed25519 signature.
func (m InitAck) GetNonceResponse() [64]byte {
	var out [64]byte
	copy(out[0:32], m.NonceResponse1[:])
	copy(out[32:64], m.NonceResponse2[:])
	return out
}

func (m InitAck) encodeBody(dst []byte) []byte {
	dst = append(dst, m.PublicKey[:]...)
	dst = append(dst, m.NonceResponse1[:]...)
	dst = append(dst, m.NonceResponse2[:]...)
	return dst
}

func decodeInitAck(b []byte) (InitAck, int, error) {
	if len(b) < 32+32+32 {
		return InitAck{}, 0, ErrTruncatedMessage
	}
	var m InitAck
	copy(m.PublicKey[:], b[0:32])
	copy(m.NonceResponse1[:], b[32:64])
	copy(m.NonceResponse2[:], b[64:96])
	return m, 96, nil
}

// UpgradeRequired tells a peer it is speaking a version this endpoint no
// longer (or not yet) supports.
type UpgradeRequired struct {
	Version uint32
}

func (m UpgradeRequired) encodeBody(dst []byte) []byte {
	var buf [4]byte
	bin.PutU32LE(buf[:], m.Version)
	return append(dst, buf[:]...)
}

func decodeUpgradeRequired(b []byte) (UpgradeRequired, int, error) {
	if len(b) < 4 {
		return UpgradeRequired{}, 0, ErrTruncatedMessage
	}
	return UpgradeRequired{Version: bin.U32LE(b[0:4])}, 4, nil
}

// Heartbeat is an empty keepalive/ping message.
type Heartbeat struct{}

func (Heartbeat) encodeBody(dst []byte) []byte { return dst }
func decodeHeartbeat([]byte) (Heartbeat, int, error) {
	return Heartbeat{}, 0, nil
}

// HeartbeatAck is an empty reply to a Heartbeat.
type HeartbeatAck struct{}

func (HeartbeatAck) encodeBody(dst []byte) []byte { return dst }
func decodeHeartbeatAck([]byte) (HeartbeatAck, int, error) {
	return HeartbeatAck{}, 0, nil
}

// Shutdown is an empty application-level notice of an impending close.
type Shutdown struct{}

func (Shutdown) encodeBody(dst []byte) []byte { return dst }
func decodeShutdown([]byte) (Shutdown, int, error) {
	return Shutdown{}, 0, nil
}

// ShutdownComplete is an empty acknowledgement that a Shutdown was handled.
type ShutdownComplete struct{}

func (ShutdownComplete) encodeBody(dst []byte) []byte { return dst }
func decodeShutdownComplete([]byte) (ShutdownComplete, int, error) {
	return ShutdownComplete{}, 0, nil
}

// EncodeMessage serializes m as its one-byte Kind discriminant followed by
// its body fields, little-endian, appending to dst.
func EncodeMessage(dst []byte, m Message) []byte {
	dst = append(dst, uint8(m.Kind()))
	return m.encodeBody(dst)
}

// DecodeMessage reads a discriminant byte followed by a body from b and
// returns the concrete Message. Unknown discriminants fail with
// ErrUnknownKind; short bodies fail with ErrTruncatedMessage.
func DecodeMessage(b []byte) (Message, int, error) {
	if len(b) < 1 {
		return nil, 0, ErrTruncatedMessage
	}
	kind := Kind(b[0])
	body := b[1:]
	switch kind {
	case KindInit:
		m, n, err := decodeInit(body)
		return m, n + 1, err
	case KindInitAck:
		m, n, err := decodeInitAck(body)
		return m, n + 1, err
	case KindUpgradeRequired:
		m, n, err := decodeUpgradeRequired(body)
		return m, n + 1, err
	case KindHeartbeat:
		m, n, err := decodeHeartbeat(body)
		return m, n + 1, err
	case KindHeartbeatAck:
		m, n, err := decodeHeartbeatAck(body)
		return m, n + 1, err
	case KindShutdown:
		m, n, err := decodeShutdown(body)
		return m, n + 1, err
	case KindShutdownComplete:
		m, n, err := decodeShutdownComplete(body)
		return m, n + 1, err
	default:
		return nil, 0, ErrUnknownKind
	}
}
