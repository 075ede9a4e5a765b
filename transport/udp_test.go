package transport

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestUDPTransportRoundTrip(t *testing.T) {
	a, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP a: %v", err)
	}
	defer a.Close()
	b, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP b: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload := []byte("siege-net datagram")
	if err := a.WriteTo(ctx, payload, b.LocalAddr()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	got, _, err := b.ReadFrom(ctx)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadFrom = %q, want %q", got, payload)
	}
}

func TestUDPTransportReadFromHonorsContextCancel(t *testing.T) {
	a, err := ListenUDP("127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, _, err := a.ReadFrom(ctx)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected an error after context cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("ReadFrom did not return after context cancellation")
	}
}
