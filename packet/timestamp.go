package packet

import (
	"fmt"
	"sync"
	"time"
)

// Timestamp is milliseconds since some monotonic origin, as a wrapping
// 32-bit unsigned counter. Differences between two Timestamps are taken as
// a signed 32-bit quantity, wrapping is acceptable for session-length
// durations.
type Timestamp uint32

// Sub returns self-other as a signed 32-bit millisecond difference.
func (t Timestamp) Sub(other Timestamp) int32 {
	return int32(int64(t) - int64(other))
}

// Add returns t shifted by the given signed millisecond offset, wrapping on overflow.
func (t Timestamp) Add(ms int32) Timestamp {
	return Timestamp(int64(t) + int64(ms))
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%d", uint32(t))
}

// Clock supplies the current Timestamp. The core never reads the wall clock
// directly; every Remote is constructed with a Clock so tests can drive
// time deterministically.
type Clock interface {
	Now() Timestamp
}

// monotonicClock measures elapsed time since a single shared origin
// established the first time it is used, mirroring the original
// implementation's process-wide lazy-initialized start instant.
type monotonicClock struct{}

var (
	originOnce sync.Once
	origin     time.Time
)

func ensureOrigin() {
	originOnce.Do(func() { origin = time.Now() })
}

func (monotonicClock) Now() Timestamp {
	ensureOrigin()
	return Timestamp(uint32(time.Since(origin).Milliseconds()))
}

// SystemClock is the default Clock, backed by a single process-wide
// monotonic origin recorded on first use.
var SystemClock Clock = monotonicClock{}
