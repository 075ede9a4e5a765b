package endpoint

import (
	"crypto/ed25519"
	"errors"
	"time"

	sncrypto "github.com/SiegeEngine/siege-net/crypto"
	"github.com/SiegeEngine/siege-net/packet"
)

var errEphemeralKeyConsumed = errors.New("endpoint: ephemeral private key already consumed")

// NewInit builds the initiator's handshake opener. It rerolls the
// challenge nonce and reads the local ephemeral public key; the ephemeral
// private key itself is not consumed here (only ComputeSessionKey consumes
// it). Fails with KindAgreementFailed if the ephemeral key was already
// consumed by a prior ComputeSessionKey call.
func (r *Remote) NewInit() (packet.Init, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ephPriv == nil {
		return packet.Init{}, newError(KindAgreementFailed, errEphemeralKeyConsumed)
	}
	if err := r.rollNonceLocked(); err != nil {
		return packet.Init{}, err
	}
	return packet.Init{PublicKey: r.ephPub, Nonce: r.nonce}, nil
}

// NewInitAck builds the responder's handshake reply. nonceResponse is the
// 64-byte Ed25519 signature the host computed over the initiator's nonce
// using the responder's long-term key; the core never computes signatures
// itself. Fails with KindAgreementFailed if the ephemeral key was already consumed.
func (r *Remote) NewInitAck(nonceResponse [64]byte) (packet.InitAck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ephPriv == nil {
		return packet.InitAck{}, newError(KindAgreementFailed, errEphemeralKeyConsumed)
	}
	return packet.NewInitAck(r.ephPub, nonceResponse), nil
}

// ComputeSessionKey consumes the local ephemeral private key, performs
// X25519 agreement against remotePublicKey, and derives the 16-byte
// AES-128 session key from the first 16 bytes of the shared secret. A
// second call (the ephemeral key already consumed) fails with
// KindAgreementFailed, as does any X25519 fault.
func (r *Remote) ComputeSessionKey(remotePublicKey [32]byte) error {
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ephPriv == nil {
		return newError(KindAgreementFailed, errEphemeralKeyConsumed)
	}
	key, err := sncrypto.DeriveSessionKey(r.ephPriv, remotePublicKey)
	if err != nil {
		return newError(KindAgreementFailed, err)
	}
	r.ephPriv = nil
	r.sessionKey = key
	r.observer.HandshakeCompleted(time.Since(start))
	return nil
}

// ValidateNonceSignature verifies signature as an Ed25519 signature over
// this Remote's stored challenge nonce, using the responder's long-term
// public key. Verification failure is reported as KindRemoteFailedChallenge.
func (r *Remote) ValidateNonceSignature(signature []byte, serverPublicKey ed25519.PublicKey) error {
	r.mu.Lock()
	nonce := r.nonce
	r.mu.Unlock()

	if !sncrypto.VerifyChallenge(serverPublicKey, nonce[:], signature) {
		r.observer.ChallengeFailed()
		return newError(KindRemoteFailedChallenge, nil)
	}
	return nil
}
