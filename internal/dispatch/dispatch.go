// Package dispatch implements the Frame Dispatcher (C7): computing the
// frame count and per-frame timestamps for a render run, then
// partitioning frame indices round-robin across a fixed worker count so
// every worker's share is independent of how fast any other worker runs.
package dispatch

import (
	"math"
	"time"
)

// Plan is the full schedule for one render run: how many frames, the
// timestamp each one sits at, and which worker owns each frame index.
type Plan struct {
	FrameCount int
	FrameTime  []time.Duration
	Workers    int
}

// New computes a Plan for an animation of the given duration rendered at
// fps across workers. FrameCount is ceil(duration*fps). Frame i's time is
// i/(FrameCount-1) * duration for every frame but the last, which always
// sits exactly at duration, so the final frame never samples past the
// animation's own end regardless of fps/duration rounding.
func New(duration time.Duration, fps int, workers int) Plan {
	if workers < 1 {
		workers = 1
	}
	seconds := duration.Seconds()
	count := int(math.Ceil(seconds * float64(fps)))
	if count < 0 {
		count = 0
	}

	times := make([]time.Duration, count)
	for i := 0; i < count; i++ {
		if i == count-1 {
			times[i] = duration
			continue
		}
		times[i] = time.Duration(float64(i) / float64(count-1) * float64(duration))
	}

	return Plan{FrameCount: count, FrameTime: times, Workers: workers}
}

// Shares returns, for each worker index in [0, Workers), the frame
// indices it owns, assigned round-robin so every worker's share differs
// in size by at most one frame regardless of frame count.
func (p Plan) Shares() [][]int {
	shares := make([][]int, p.Workers)
	for i := 0; i < p.FrameCount; i++ {
		w := i % p.Workers
		shares[w] = append(shares[w], i)
	}
	return shares
}
