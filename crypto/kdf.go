package crypto

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
)

// ErrAgreementFailed wraps any X25519 key-agreement fault (bad peer public
// key, curve rejection, etc).
var ErrAgreementFailed = errors.New("crypto: key agreement failed")

// GenerateEphemeralKeypair produces a fresh X25519 keypair for the
// handshake's ephemeral exchange.
func GenerateEphemeralKeypair() (priv *ecdh.PrivateKey, pub [32]byte, err error) {
	priv, err = ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, pub, ErrAgreementFailed
	}
	copy(pub[:], priv.PublicKey().Bytes())
	return priv, pub, nil
}

// DeriveSessionKey runs X25519(priv, peerPublicKey) and keeps the first 16
// bytes of the 32-byte shared secret as the AES-128 session key. This is
// deliberately not HKDF: it is a wire-compatibility requirement inherited
// from the original implementation (see DESIGN.md); do not "improve" it.
func DeriveSessionKey(priv *ecdh.PrivateKey, peerPublicKey [32]byte) ([KeySize]byte, error) {
	var out [KeySize]byte
	peerKey, err := ecdh.X25519().NewPublicKey(peerPublicKey[:])
	if err != nil {
		return out, ErrAgreementFailed
	}
	shared, err := priv.ECDH(peerKey)
	if err != nil {
		return out, ErrAgreementFailed
	}
	copy(out[:], shared[:KeySize])
	return out, nil
}

// VerifyChallenge verifies an Ed25519 signature over message using the
// given long-term public key. It returns false, not an error, on a bad
// signature or malformed key/signature length — callers translate that into
// the RemoteFailedChallenge error kind.
func VerifyChallenge(serverPublicKey ed25519.PublicKey, message, signature []byte) bool {
	if len(serverPublicKey) != ed25519.PublicKeySize {
		return false
	}
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(serverPublicKey, message, signature)
}
