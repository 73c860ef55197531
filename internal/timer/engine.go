package timer

import (
	"fmt"

	"github.com/sadopc/focus/internal/clock"
	"github.com/sadopc/focus/internal/model"
)

type Mode int

const (
	ModeFree Mode = iota
	ModePomodoro
	ModeCustom
)

var modeNames = map[Mode]string{
	ModeFree:     "Free Timer",
	ModePomodoro: "Pomodoro",
	ModeCustom:   "Custom Timer",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Next cycles Free -> Pomodoro -> Custom -> Free.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

// ParseMode accepts "free", "pomodoro" or "custom".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "free":
		return ModeFree, nil
	case "pomodoro":
		return ModePomodoro, nil
	case "custom":
		return ModeCustom, nil
	}
	return ModeFree, fmt.Errorf("unknown mode %q (want free, pomodoro or custom)", s)
}

type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "Break"
	}
	return "Focus"
}

// Fixed Pomodoro lengths in seconds.
const (
	PomodoroWorkSeconds  = 25 * 60
	PomodoroBreakSeconds = 5 * 60
)

type Outcome int

const (
	// TickIgnored means the engine was idle when the tick arrived.
	TickIgnored Outcome = iota
	TickContinue
	TickCompleted
)

// TickResult describes what a single tick did.
type TickResult struct {
	Outcome Outcome
	Mode    Mode
	Phase   Phase
	Elapsed int
	Display string
}

func (r TickResult) Completed() bool {
	return r.Outcome == TickCompleted
}

// Engine is the focus timer state machine. It is not safe for concurrent
// use; all calls, including tick delivery, must come from one goroutine.
type Engine struct {
	ticker clock.Ticker

	mode    Mode
	phase   Phase
	elapsed int
	target  int

	customWork  int // seconds
	customBreak int // seconds

	display    string
	onDisplay  func(string)
	onComplete func(TickResult)
}

type Option func(*Engine)

// WithDisplay registers the per-second display callback.
func WithDisplay(fn func(string)) Option {
	return func(e *Engine) { e.onDisplay = fn }
}

// WithPhaseComplete registers the phase-complete signal. It runs after the
// completing tick has been fully processed and the engine has stopped.
func WithPhaseComplete(fn func(TickResult)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithCustomMinutes sets the initial custom work and break lengths.
func WithCustomMinutes(work, brk int) Option {
	return func(e *Engine) {
		e.customWork = work * 60
		e.customBreak = brk * 60
	}
}

// New creates an idle engine in Free mode.
func New(ticker clock.Ticker, opts ...Option) *Engine {
	e := &Engine{
		ticker:      ticker,
		mode:        ModeFree,
		phase:       PhaseWork,
		customWork:  model.DefaultWorkMinutes * 60,
		customBreak: model.DefaultBreakMinutes * 60,
		display:     FormatClock(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Start() {
	if e.ticker.Active() {
		return
	}
	e.ticker.Start(e.handleTick)
}

func (e *Engine) Stop() {
	e.ticker.Stop()
}

func (e *Engine) Running() bool {
	return e.ticker.Active()
}

// Reset stops the engine, clears the count and re-derives the target for
// the current mode and phase. The new display is emitted immediately.
func (e *Engine) Reset() {
	e.ticker.Stop()
	e.elapsed = 0
	e.target = e.targetFor(e.mode, e.phase)
	e.emit(FormatClock(e.target))
}

func (e *Engine) SetMode(m Mode) {
	e.mode = m
	e.Reset()
}

func (e *Engine) SetPhase(p Phase) {
	e.phase = p
	e.target = e.targetFor(e.mode, p)
	e.Reset()
}

// NextPhase toggles between work and break.
func (e *Engine) NextPhase() {
	if e.phase == PhaseWork {
		e.SetPhase(PhaseBreak)
		return
	}
	e.SetPhase(PhaseWork)
}

// SetCustomWorkMinutes expects a value already validated by the caller.
func (e *Engine) SetCustomWorkMinutes(n int) {
	e.customWork = n * 60
	if e.mode == ModeCustom && e.phase == PhaseWork {
		e.Reset()
	}
}

// SetCustomBreakMinutes expects a value already validated by the caller.
func (e *Engine) SetCustomBreakMinutes(n int) {
	e.customBreak = n * 60
	if e.mode == ModeCustom && e.phase == PhaseBreak {
		e.Reset()
	}
}

// Tick advances the engine by one second. Ticks that arrive while the engine
// is idle are ignored. When a countdown reaches zero the engine stops itself
// and reports TickCompleted; it never emits a negative value.
func (e *Engine) Tick() TickResult {
	res := TickResult{Mode: e.mode, Phase: e.phase}
	if !e.ticker.Active() {
		res.Outcome = TickIgnored
		res.Elapsed = e.elapsed
		res.Display = e.display
		return res
	}

	e.elapsed++
	res.Elapsed = e.elapsed

	if e.mode == ModeFree {
		e.emit(FormatClock(e.elapsed))
		res.Outcome = TickContinue
		res.Display = e.display
		return res
	}

	remaining := e.target - e.elapsed
	if remaining <= 0 {
		e.ticker.Stop()
		res.Outcome = TickCompleted
		res.Display = e.display
		return res
	}

	e.emit(FormatClock(remaining))
	res.Outcome = TickContinue
	res.Display = e.display
	return res
}

func (e *Engine) handleTick() {
	res := e.Tick()
	if res.Completed() && e.onComplete != nil {
		e.onComplete(res)
	}
}

func (e *Engine) emit(text string) {
	e.display = text
	if e.onDisplay != nil {
		e.onDisplay(text)
	}
}

func (e *Engine) targetFor(m Mode, p Phase) int {
	switch m {
	case ModePomodoro:
		if p == PhaseWork {
			return PomodoroWorkSeconds
		}
		return PomodoroBreakSeconds
	case ModeCustom:
		if p == PhaseWork {
			return e.customWork
		}
		return e.customBreak
	}
	return 0
}

func (e *Engine) Mode() Mode { return e.mode }
func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Elapsed() int { return e.elapsed }
func (e *Engine) Target() int { return e.target }
func (e *Engine) Display() string { return e.display }
func (e *Engine) CustomWorkMinutes() int { return e.customWork / 60 }
func (e *Engine) CustomBreakMinutes() int { return e.customBreak / 60 }

// Remaining is the countdown left in the current phase; zero in Free mode.
func (e *Engine) Remaining() int {
	if e.mode == ModeFree || e.target <= e.elapsed {
		return 0
	}
	return e.target - e.elapsed
}

// Progress is the completed fraction of the current countdown phase.
func (e *Engine) Progress() float64 {
	if e.mode == ModeFree || e.target <= 0 {
		return 0
	}
	p := float64(e.elapsed) / float64(e.target)
	if p > 1 {
		return 1
	}
	return p
}

// FormatClock renders seconds as zero-padded HH:MM:SS. Hours do not wrap.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
