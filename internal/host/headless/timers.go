package headless

import (
	"sort"
	"time"

	"github.com/Faultbox/scatterbrush/internal/brush"
)

type timer struct {
	interval time.Duration
	due      time.Duration
	fn       func()
}

// Timers is a manual clock. Nothing fires until Advance or Fire is called.
type Timers struct {
	now    time.Duration
	next   brush.TimerHandle
	timers map[brush.TimerHandle]*timer
}

// NewTimers creates an empty clock.
func NewTimers() *Timers {
	return &Timers{timers: make(map[brush.TimerHandle]*timer)}
}

// Add implements brush.Timers.
func (t *Timers) Add(interval time.Duration, fn func()) brush.TimerHandle {
	t.next++
	t.timers[t.next] = &timer{interval: interval, due: t.now + interval, fn: fn}
	return t.next
}

// Remove implements brush.Timers.
func (t *Timers) Remove(h brush.TimerHandle) {
	delete(t.timers, h)
}

// Len returns the number of registered timers.
func (t *Timers) Len() int { return len(t.timers) }

func (t *Timers) handles() []brush.TimerHandle {
	hs := make([]brush.TimerHandle, 0, len(t.timers))
	for h := range t.timers {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// Fire runs every registered timer once, in registration order.
func (t *Timers) Fire() {
	for _, h := range t.handles() {
		if tm, ok := t.timers[h]; ok {
			tm.fn()
		}
	}
}

// Advance moves the clock forward and runs every timer that comes due,
// as many times as its interval fits.
func (t *Timers) Advance(d time.Duration) {
	end := t.now + d
	for {
		var (
			first brush.TimerHandle
			due   time.Duration
		)
		for _, h := range t.handles() {
			tm := t.timers[h]
			if tm.due <= end && (first == 0 || tm.due < due) {
				first, due = h, tm.due
			}
		}
		if first == 0 {
			break
		}
		tm := t.timers[first]
		t.now = tm.due
		tm.due += max(tm.interval, time.Millisecond)
		tm.fn()
	}
	t.now = end
}
