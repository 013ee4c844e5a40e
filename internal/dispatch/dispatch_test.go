package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_FrameCountAndTimestamps(t *testing.T) {
	duration := 2 * time.Second
	plan := New(duration, 30, 4)
	assert.Equal(t, 60, plan.FrameCount)
	assert.Equal(t, time.Duration(0), plan.FrameTime[0])
	assert.Equal(t, duration, plan.FrameTime[plan.FrameCount-1])

	want := time.Duration(float64(30) / float64(plan.FrameCount-1) * float64(duration))
	assert.Equal(t, want, plan.FrameTime[30])
}

func TestShares_RoundRobinCoversEveryFrameExactlyOnce(t *testing.T) {
	plan := New(1*time.Second, 10, 3)
	shares := plan.Shares()

	seen := make(map[int]bool)
	for _, share := range shares {
		for _, idx := range share {
			assert.False(t, seen[idx], "frame %d assigned twice", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, plan.FrameCount)

	for i, share := range shares {
		for _, idx := range share {
			assert.Equal(t, i, idx%3)
		}
	}
}

func TestShares_BalancedWithinOneFrame(t *testing.T) {
	plan := New(1*time.Second, 7, 3)
	shares := plan.Shares()
	min, max := len(shares[0]), len(shares[0])
	for _, s := range shares {
		if len(s) < min {
			min = len(s)
		}
		if len(s) > max {
			max = len(s)
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}
