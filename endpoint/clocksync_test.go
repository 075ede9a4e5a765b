package endpoint

import (
	"testing"
	"time"

	"github.com/SiegeEngine/siege-net/observability"
	"github.com/SiegeEngine/siege-net/packet"
)

type zeroClock struct{}

func (zeroClock) Now() packet.Timestamp { return 0 }

type driftCountingObserver struct {
	narrowed int
	drifted  int
}

func (o *driftCountingObserver) PacketSent(string, uint32)          {}
func (o *driftCountingObserver) PacketReceived(string, uint32, bool) {}
func (o *driftCountingObserver) HandshakeCompleted(time.Duration)   {}
func (o *driftCountingObserver) ChallengeFailed()                   {}
func (o *driftCountingObserver) ClockNarrowed(int32, int32)         { o.narrowed++ }
func (o *driftCountingObserver) ClockDrift(int32)                   { o.drifted++ }

func newTestRemote(obs observability.Observer) *Remote {
	if obs == nil {
		obs = observability.Noop
	}
	return &Remote{clock: zeroClock{}, observer: obs}
}

func TestSynchronizeLockedAdoptsFirstSample(t *testing.T) {
	r := newTestRemote(nil)
	r.synchronizeLocked(100, 50, 102)

	min, max := *r.offsetMin, *r.offsetMax
	if min != 49 || max != 53 {
		t.Fatalf("offset = [%d,%d], want [49,53]", min, max)
	}
}

func TestSynchronizeLockedIntersectsOverlapping(t *testing.T) {
	r := newTestRemote(nil)
	r.synchronizeLocked(100, 50, 102) // [49,53]
	r.synchronizeLocked(100, 49, 101) // candidate [50,53], overlaps -> [50,53]

	min, max := *r.offsetMin, *r.offsetMax
	if min != 50 || max != 53 {
		t.Fatalf("offset = [%d,%d], want [50,53]", min, max)
	}
}

func TestSynchronizeLockedReplacesDisjoint(t *testing.T) {
	obs := &driftCountingObserver{}
	r := newTestRemote(obs)
	r.synchronizeLocked(100, 50, 102) // [49,53]
	r.synchronizeLocked(300, 50, 302) // candidate [249,253], disjoint

	min, max := *r.offsetMin, *r.offsetMax
	if min != 249 || max != 253 {
		t.Fatalf("offset = [%d,%d], want [249,253]", min, max)
	}
	if obs.drifted != 1 {
		t.Fatalf("drifted = %d, want 1", obs.drifted)
	}
}

func TestNowFailsBeforeSync(t *testing.T) {
	r := newTestRemote(nil)
	if _, err := r.Now(); err == nil {
		t.Fatal("expected error before any sync sample")
	}
}

func TestClockWindowSizeAfterSync(t *testing.T) {
	r := newTestRemote(nil)
	r.synchronizeLocked(100, 50, 102)
	width, ok := r.ClockWindowSize()
	if !ok || width != 4 {
		t.Fatalf("width=%d ok=%v, want 4 true", width, ok)
	}
}
