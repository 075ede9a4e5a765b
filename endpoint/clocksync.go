package endpoint

import "github.com/SiegeEngine/siege-net/packet"

// synchronizeLocked refines the bounded offset interval from one
// correlated ping/pong sample. sent and recv are in local time; bounce is
// the remote-stamped timestamp echoed back in the reply. All three are
// already known to be within 1ms rounding of each other's true relationship
// (sent <= bounce+offset <= recv, modulo rounding), so:
//
//	offset_min = (sent - bounce) - 1
//	offset_max = (recv - bounce) + 1
func (r *Remote) synchronizeLocked(sent, bounce, recv packet.Timestamp) {
	candidateMin := sent.Sub(bounce) - 1
	candidateMax := recv.Sub(bounce) + 1

	if r.offsetMin == nil || r.offsetMax == nil {
		r.setOffsetLocked(candidateMin, candidateMax)
		r.observer.ClockNarrowed(candidateMin, candidateMax)
		return
	}

	smin, smax := *r.offsetMin, *r.offsetMax

	if candidateMin > smax || candidateMax < smin {
		oldMid := midpoint(smin, smax)
		r.setOffsetLocked(candidateMin, candidateMax)
		newMid := midpoint(candidateMin, candidateMax)
		r.observer.ClockDrift(newMid - oldMid)
		return
	}

	narrowed := false
	if candidateMin > smin {
		smin = candidateMin
		narrowed = true
	}
	if candidateMax < smax {
		smax = candidateMax
		narrowed = true
	}
	r.setOffsetLocked(smin, smax)
	if narrowed {
		r.observer.ClockNarrowed(smin, smax)
	}
}

func (r *Remote) setOffsetLocked(min, max int32) {
	r.offsetMin = &min
	r.offsetMax = &max
}

func midpoint(min, max int32) int32 {
	return (min + max) / 2
}

// Now returns the remote's current time, as best as this Remote can
// determine it: the local clock shifted by the midpoint of the current
// offset interval. Fails with KindNotSynchronized until at least one
// sample has been correlated.
func (r *Remote) Now() (packet.Timestamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.offsetMin == nil || r.offsetMax == nil {
		return 0, newError(KindNotSynchronized, nil)
	}
	if *r.offsetMax < *r.offsetMin {
		return 0, newError(KindNotSynchronized, nil)
	}
	offset := midpoint(*r.offsetMin, *r.offsetMax)
	return r.clock.Now().Add(offset), nil
}

// ClockWindowSize returns the current width of the bounded offset
// interval, or ok=false if synchronization has not yet occurred.
func (r *Remote) ClockWindowSize() (width int32, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.offsetMin == nil || r.offsetMax == nil {
		return 0, false
	}
	return *r.offsetMax - *r.offsetMin, true
}
