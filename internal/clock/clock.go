// Package clock provides the one-tick-per-second scheduling primitive the
// timer engine consumes. A Ticker never calls its callback concurrently with
// itself; implementations that run on their own goroutine hand each tick to a
// Loop so every callback executes on the loop's goroutine.
package clock

import (
	"context"
	"time"
)

// Ticker delivers one call to the registered callback per elapsed tick while active.
type Ticker interface {
	// Start activates the ticker. It is a no-op when already active.
	Start(fn func())
	// Stop deactivates the ticker. Ticks already in flight are discarded.
	Stop()
	Active() bool
}

// Driven is a Ticker whose ticks are delivered by its owner, e.g. from a UI
// event loop or a test.
type Driven struct {
	fn     func()
	active bool
	firing bool
}

func (d *Driven) Start(fn func()) {
	if d.active {
		return
	}
	d.fn = fn
	d.active = true
}

func (d *Driven) Stop() {
	d.active = false
}

func (d *Driven) Active() bool {
	return d.active
}

// Fire delivers a single tick. It reports false when the ticker is inactive
// or when called from inside the callback.
func (d *Driven) Fire() bool {
	if !d.active || d.fn == nil || d.firing {
		return false
	}
	d.firing = true
	defer func() { d.firing = false }()
	d.fn()
	return true
}

// Advance fires up to n ticks, stopping early once the ticker goes inactive.
// It returns the number of ticks delivered.
func (d *Driven) Advance(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if !d.Fire() {
			break
		}
		delivered++
	}
	return delivered
}

// Loop is a single-goroutine executor. Functions posted to it run one at a
// time, in order, on the goroutine that called Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 16
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post schedules fn. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Wall is a Ticker backed by a time.Ticker. The ticking goroutine only posts
// to the loop; Start, Stop and the callback must all run on the loop.
type Wall struct {
	interval time.Duration
	loop     *Loop

	active bool
	gen    uint64
	stop   chan struct{}
}

func NewWall(interval time.Duration, loop *Loop) *Wall {
	if interval <= 0 {
		interval = time.Second
	}
	return &Wall{interval: interval, loop: loop}
}

func (w *Wall) Start(fn func()) {
	if w.active {
		return
	}
	w.active = true
	w.gen++
	w.stop = make(chan struct{})
	go w.run(w.gen, fn, w.stop)
}

func (w *Wall) Stop() {
	if !w.active {
		return
	}
	w.active = false
	close(w.stop)
}

func (w *Wall) Active() bool {
	return w.active
}

func (w *Wall) run(gen uint64, fn func(), stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ok := w.loop.Post(func() {
				// A tick queued before Stop or a restart belongs to an old run.
				if w.active && w.gen == gen {
					fn()
				}
			})
			if !ok {
				return
			}
		}
	}
}
