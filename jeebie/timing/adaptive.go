package timing

import (
	"log/slog"
	"time"
)

const (
	spinThreshold  = 2 * time.Millisecond
	resyncLag      = 5 * time.Millisecond
	driftTolerance = 10 * time.Millisecond
	driftWindow    = 60
)

// AdaptiveLimiter sleeps for most of the wait and spins for the last
// millisecond, correcting accumulated drift every driftWindow frames.
type AdaptiveLimiter struct {
	period time.Duration
	next   time.Time
	frames int64
	now    func() time.Time
	logger *slog.Logger
}

func NewAdaptiveLimiter(period time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		period: period,
		next:   time.Now(),
		now:    time.Now,
		logger: slog.Default(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	wait := a.next.Sub(now)

	switch {
	case wait >= spinThreshold:
		time.Sleep(wait - time.Millisecond)
		a.spin()
	case wait > 0:
		a.spin()
	case wait < -resyncLag:
		// too far behind, start a fresh schedule instead of bursting
		a.next = now
	}

	a.next = a.next.Add(a.period)
	a.frames++

	if a.frames%driftWindow == 0 {
		drift := a.now().Sub(a.next)
		if drift.Abs() > driftTolerance {
			a.next = a.next.Add(drift / 10)
			a.logger.Debug("frame timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"frames", a.frames)
		}
	}
}

func (a *AdaptiveLimiter) spin() {
	for a.now().Before(a.next) {
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.frames = 0
}

// Frames returns the number of frames waited for since the last Reset.
func (a *AdaptiveLimiter) Frames() int64 {
	return a.frames
}
