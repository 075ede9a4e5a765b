package endpoint

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"testing"

	"github.com/SiegeEngine/siege-net/packet"
)

func TestHandshakeAgreementSymmetric(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	initiator, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New(initiator): %v", err)
	}
	responder, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New(responder): %v", err)
	}

	initPub := initiator.ephPub
	respPub := responder.ephPub

	if err := initiator.ComputeSessionKey(respPub); err != nil {
		t.Fatalf("initiator.ComputeSessionKey: %v", err)
	}
	if err := responder.ComputeSessionKey(initPub); err != nil {
		t.Fatalf("responder.ComputeSessionKey: %v", err)
	}

	if initiator.sessionKey != responder.sessionKey {
		t.Fatal("session keys differ between initiator and responder")
	}
}

func TestComputeSessionKeyFailsOnSecondConsume(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	r, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var peer [32]byte
	copy(peer[:], r.ephPub[:])

	if err := r.ComputeSessionKey(peer); err != nil {
		t.Fatalf("first ComputeSessionKey: %v", err)
	}
	if err := r.ComputeSessionKey(peer); err == nil {
		t.Fatal("expected error on second ComputeSessionKey call")
	}
}

func TestValidateNonceSignature(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	r, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	serverPub, serverPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	nonce := r.Nonce()
	sig := ed25519.Sign(serverPriv, nonce[:])

	if err := r.ValidateNonceSignature(sig, serverPub); err != nil {
		t.Fatalf("ValidateNonceSignature(valid): %v", err)
	}

	badSig := append([]byte(nil), sig...)
	badSig[0] ^= 0xFF
	if err := r.ValidateNonceSignature(badSig, serverPub); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestNewInitAckRoundTripsNonceResponse(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	r, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var sig [64]byte
	for i := range sig {
		sig[i] = byte(i)
	}

	ack, err := r.NewInitAck(sig)
	if err != nil {
		t.Fatalf("NewInitAck: %v", err)
	}
	if got := ack.GetNonceResponse(); got != sig {
		t.Fatal("nonce response did not round-trip through InitAck")
	}
}

// TestInitAckSealedUnderZeroSessionKey exercises the ordering the harness
// must respect: InitAck is sealed the same way Init is, under the all-zero
// pre-session key, so the initiator (which opens InitAck before it has
// derived its own session key) can open it. A responder that derives its
// session key before sealing the reply would seal it under the wrong key
// and the initiator's DeserializePacket below would fail the AEAD tag.
func TestInitAckSealedUnderZeroSessionKey(t *testing.T) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	initiator, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New(initiator): %v", err)
	}
	responder, err := New(addr, rand.Reader)
	if err != nil {
		t.Fatalf("New(responder): %v", err)
	}

	init, err := initiator.NewInit()
	if err != nil {
		t.Fatalf("NewInit: %v", err)
	}
	sealedInit, err := initiator.SerializePacket(init, testMagic, testVersion)
	if err != nil {
		t.Fatalf("SerializePacket(Init): %v", err)
	}

	msg, seq, _, err := responder.DeserializePacket(sealedInit)
	if err != nil {
		t.Fatalf("responder.DeserializePacket(Init): %v", err)
	}
	gotInit, ok := msg.(packet.Init)
	if !ok {
		t.Fatalf("decoded %T, want packet.Init", msg)
	}

	var sig64 [64]byte
	ack, err := responder.NewInitAck(sig64)
	if err != nil {
		t.Fatalf("NewInitAck: %v", err)
	}

	// Seal and send the reply before deriving the real session key, exactly
	// as the harness now does.
	sealedAck, err := responder.SerializeReplyPacket(ack, testMagic, testVersion, seq)
	if err != nil {
		t.Fatalf("SerializeReplyPacket(InitAck): %v", err)
	}
	if err := responder.ComputeSessionKey(gotInit.PublicKey); err != nil {
		t.Fatalf("responder.ComputeSessionKey: %v", err)
	}

	// The initiator must be able to open this with its own all-zero
	// pre-session key, before it has derived its session key either.
	ackMsg, _, _, err := initiator.DeserializePacket(sealedAck)
	if err != nil {
		t.Fatalf("initiator.DeserializePacket(InitAck): %v", err)
	}
	if _, ok := ackMsg.(packet.InitAck); !ok {
		t.Fatalf("decoded %T, want packet.InitAck", ackMsg)
	}
}
