package crypto

import "testing"

func TestSealOpenRoundTrip(t *testing.T) {
	var key [KeySize]byte
	var nonce [NonceSize]byte
	for i := range key {
		key[i] = byte(i)
	}
	for i := range nonce {
		nonce[i] = byte(i * 2)
	}
	ad := []byte{1, 2, 3, 4}
	plaintext := []byte("hello siege-net")

	sealed, err := Seal(key, nonce, ad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(sealed) != len(plaintext)+TagSize {
		t.Fatalf("sealed length = %d, want %d", len(sealed), len(plaintext)+TagSize)
	}

	opened, err := Open(key, nonce, ad, sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Fatalf("opened = %q, want %q", opened, plaintext)
	}
}

func TestOpenRejectsTamperedTag(t *testing.T) {
	var key [KeySize]byte
	var nonce [NonceSize]byte
	ad := []byte{9, 9, 9, 9}
	sealed, err := Seal(key, nonce, ad, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := Open(key, nonce, ad, sealed); err == nil {
		t.Fatal("expected Open to reject a tampered tag")
	}
}

func TestOpenRejectsWrongAssociatedData(t *testing.T) {
	var key [KeySize]byte
	var nonce [NonceSize]byte
	sealed, err := Seal(key, nonce, []byte{1, 2, 3, 4}, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(key, nonce, []byte{5, 6, 7, 8}, sealed); err == nil {
		t.Fatal("expected Open to reject mismatched associated data")
	}
}

func TestSealZeroKeyWorks(t *testing.T) {
	// The handshake's Init/InitAck pair is sealed under the all-zero
	// pre-session key; both sides must accept this.
	var key [KeySize]byte
	var nonce [NonceSize]byte
	sealed, err := Seal(key, nonce, []byte{0, 0, 0, 0}, []byte("init"))
	if err != nil {
		t.Fatalf("Seal with zero key: %v", err)
	}
	if _, err := Open(key, nonce, []byte{0, 0, 0, 0}, sealed); err != nil {
		t.Fatalf("Open with zero key: %v", err)
	}
}
