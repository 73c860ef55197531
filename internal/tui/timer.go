package tui

import (
	"github.com/sadopc/focus/internal/clock"
	"github.com/sadopc/focus/internal/timer"
)

// timerModel adapts the engine to the Bubble Tea loop. Each tickMsg fires
// the driven ticker once; completions are queued and handed back to the
// caller after the tick has been processed.
type timerModel struct {
	engine *timer.Engine
	ticker *clock.Driven

	// Shared with the engine callback; pointers survive value copies.
	done *[]timer.TickResult
}

func newTimerModel(workMinutes, breakMinutes int) timerModel {
	done := &[]timer.TickResult{}
	ticker := &clock.Driven{}
	engine := timer.New(ticker,
		timer.WithCustomMinutes(workMinutes, breakMinutes),
		timer.WithPhaseComplete(func(r timer.TickResult) {
			*done = append(*done, r)
		}),
	)
	return timerModel{engine: engine, ticker: ticker, done: done}
}

// tick delivers one second and returns the phases that completed on it.
func (t timerModel) tick() []timer.TickResult {
	t.ticker.Fire()
	if len(*t.done) == 0 {
		return nil
	}
	completed := *t.done
	*t.done = nil
	return completed
}

func (t timerModel) running() bool {
	return t.engine.Running()
}

// paused reports a stopped engine that still holds a partial count.
func (t timerModel) paused() bool {
	return !t.engine.Running() && t.engine.Elapsed() > 0
}

func (t timerModel) toggle() {
	if t.engine.Running() {
		t.engine.Stop()
		return
	}
	if t.engine.Elapsed() > 0 {
		t.engine.Start()
	}
}
