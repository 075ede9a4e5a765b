package packet

import "testing"

func TestMessageRoundTrip(t *testing.T) {
	cases := []Message{
		Init{PublicKey: [32]byte{1}, Nonce: [12]byte{2}},
		NewInitAck([32]byte{3}, [64]byte{4}),
		UpgradeRequired{Version: 42},
		Heartbeat{},
		HeartbeatAck{},
		Shutdown{},
		ShutdownComplete{},
	}
	for _, m := range cases {
		buf := EncodeMessage(nil, m)
		got, n, err := DecodeMessage(buf)
		if err != nil {
			t.Fatalf("%v: DecodeMessage: %v", m.Kind(), err)
		}
		if n != len(buf) {
			t.Fatalf("%v: consumed %d of %d bytes", m.Kind(), n, len(buf))
		}
		if got.Kind() != m.Kind() {
			t.Fatalf("kind mismatch: got %v, want %v", got.Kind(), m.Kind())
		}
	}
}

func TestInitAckNonceResponseSplit(t *testing.T) {
	var resp [64]byte
	for i := range resp {
		resp[i] = 99
	}
	ack := NewInitAck([32]byte{}, resp)
	got := ack.GetNonceResponse()
	if got != resp {
		t.Fatal("nonce response did not round-trip through the 32-byte halves")
	}
}

func TestDecodeMessageUnknownKind(t *testing.T) {
	if _, _, err := DecodeMessage([]byte{0xEE}); err != ErrUnknownKind {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	if _, _, err := DecodeMessage(nil); err != ErrTruncatedMessage {
		t.Fatalf("got %v, want ErrTruncatedMessage", err)
	}
	if _, _, err := DecodeMessage([]byte{byte(KindInit), 1, 2}); err != ErrTruncatedMessage {
		t.Fatalf("got %v, want ErrTruncatedMessage", err)
	}
}

func TestIsPing(t *testing.T) {
	if !IsPing(Init{}) || !IsPing(Heartbeat{}) {
		t.Fatal("Init and Heartbeat must be pings")
	}
	if IsPing(HeartbeatAck{}) || IsPing(Shutdown{}) {
		t.Fatal("only Init and Heartbeat are pings")
	}
}
