package timing

import (
	"fmt"
	"time"

	"github.com/valerio/go-jeebie-core/jeebie/video"
)

// Limiter paces emulated frames against the wall clock.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset restarts the schedule from now, e.g. after a pause.
	Reset()
}

// CPUFrequency is the DMG master clock in ticks per second.
const CPUFrequency = 4194304

// TargetFPS is the DMG refresh rate, about 59.73 Hz.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(video.FrameCycles)
}

// FrameDuration returns the wall time of a single frame.
func FrameDuration() time.Duration {
	return TicksDuration(video.FrameCycles)
}

// TicksDuration converts a tick count into wall time.
func TicksDuration(ticks int) time.Duration {
	return time.Duration(float64(ticks) * float64(time.Second) / CPUFrequency)
}

// Kind names a Limiter implementation.
type Kind string

const (
	KindNone     Kind = "none"
	KindTicker   Kind = "ticker"
	KindAdaptive Kind = "adaptive"
)

// New returns a limiter of the given kind pacing frames of length period.
func New(kind Kind, period time.Duration) (Limiter, error) {
	switch kind {
	case KindNone, "":
		return NewNoOpLimiter(), nil
	case KindTicker:
		return NewTickerLimiter(period), nil
	case KindAdaptive:
		return NewAdaptiveLimiter(period), nil
	}
	return nil, fmt.Errorf("unknown limiter %q", kind)
}

// NewNoOpLimiter returns a limiter that never waits.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}
