package hal

import (
	"sync"
	"time"
)

// Clock provides the blocking delays the firmware uses. A delay always runs to
// completion.
type Clock interface {
	Sleep(d time.Duration)
}

// RealClock sleeps in wall-clock time, divided by Scale.
type RealClock struct {
	Scale float64
}

// Sleep implements Clock.
func (c RealClock) Sleep(d time.Duration) {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	time.Sleep(time.Duration(float64(d) / scale))
}

// VirtualClock advances simulated time without waiting.
type VirtualClock struct {
	mu      sync.Mutex
	elapsed time.Duration
	onSleep func(time.Duration)
}

// NewVirtualClock returns a clock at zero elapsed time. onSleep, if set, is
// called after every Sleep with the requested duration.
func NewVirtualClock(onSleep func(time.Duration)) *VirtualClock {
	return &VirtualClock{onSleep: onSleep}
}

// Sleep implements Clock.
func (c *VirtualClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.elapsed += d
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(d)
	}
}

// Elapsed returns the total simulated time slept so far.
func (c *VirtualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}
