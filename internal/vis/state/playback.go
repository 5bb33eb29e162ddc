// Package state holds the visualizer's UI state.
package state

import "time"

const (
	minInterval = 20 * time.Millisecond
	maxInterval = 5 * time.Second
)

// Playback decides when the next automatic tick is due.
type Playback struct {
	Playing  bool
	Interval time.Duration // Wall time between automatic ticks
	last     time.Time
}

// NewPlayback creates a paused playback.
func NewPlayback(interval time.Duration) *Playback {
	return &Playback{Interval: clampInterval(interval)}
}

// Toggle starts or pauses playback. The first tick after starting is due
// immediately.
func (p *Playback) Toggle(now time.Time) {
	p.Playing = !p.Playing
	if p.Playing {
		p.last = now.Add(-p.Interval)
	}
}

// Pause stops playback.
func (p *Playback) Pause() { p.Playing = false }

// Due reports whether a tick should run at now and, if so, marks it run.
func (p *Playback) Due(now time.Time) bool {
	if !p.Playing || now.Sub(p.last) < p.Interval {
		return false
	}
	p.last = now
	return true
}

// Wait returns how long until the next tick is due.
func (p *Playback) Wait(now time.Time) time.Duration {
	return max(p.last.Add(p.Interval).Sub(now), 0)
}

// Faster halves the interval.
func (p *Playback) Faster() { p.Interval = clampInterval(p.Interval / 2) }

// Slower doubles the interval.
func (p *Playback) Slower() { p.Interval = clampInterval(p.Interval * 2) }

func clampInterval(d time.Duration) time.Duration {
	return min(max(d, minInterval), maxInterval)
}
