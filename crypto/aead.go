// Package crypto implements the AEAD construction and key-agreement
// primitives the Siege-net wire format requires: AES-128-GCM sealing with a
// 4-byte associated-data prefix, X25519 key agreement, and Ed25519 challenge
// verification. The KDF deliberately keeps the first 16 bytes of the raw
// X25519 shared secret rather than running it through HKDF — this is a
// wire-compatibility requirement, not an oversight (see DESIGN.md).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// NonceSize is the AEAD nonce length: the 12 bytes carried at datagram offset 4.
const NonceSize = 12

// TagSize is the AEAD authentication tag length appended after the sealed body.
const TagSize = 16

// KeySize is the AES-128 session key length.
const KeySize = 16

func newAESGCM(key [KeySize]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if aead.NonceSize() != NonceSize {
		return nil, fmt.Errorf("crypto: unexpected gcm nonce size %d", aead.NonceSize())
	}
	if aead.Overhead() != TagSize {
		return nil, fmt.Errorf("crypto: unexpected gcm tag size %d", aead.Overhead())
	}
	return aead, nil
}

// Seal encrypts-and-authenticates plaintext under key, using nonce and
// associatedData exactly as presented (the caller is responsible for using
// the 12-byte per-datagram nonce and the 4-byte magic+version prefix). It
// returns ciphertext||tag.
func Seal(key [KeySize]byte, nonce [NonceSize]byte, associatedData, plaintext []byte) ([]byte, error) {
	aead, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce[:], plaintext, associatedData), nil
}

// Open verifies-and-decrypts a ciphertext||tag blob produced by Seal. A
// failed tag check returns a non-nil error and no plaintext.
func Open(key [KeySize]byte, nonce [NonceSize]byte, associatedData, sealed []byte) ([]byte, error) {
	aead, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], sealed, associatedData)
}
