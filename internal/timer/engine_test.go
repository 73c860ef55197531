package timer

import (
	"testing"

	"github.com/sadopc/focus/internal/clock"
)

type recorder struct {
	displays  []string
	completed []TickResult
}

func (r *recorder) last() string {
	if len(r.displays) == 0 {
		return ""
	}
	return r.displays[len(r.displays)-1]
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *clock.Driven, *recorder) {
	t.Helper()
	rec := &recorder{}
	ticker := &clock.Driven{}
	opts = append([]Option{
		WithDisplay(func(s string) { rec.displays = append(rec.displays, s) }),
		WithPhaseComplete(func(r TickResult) { rec.completed = append(rec.completed, r) }),
	}, opts...)
	return New(ticker, opts...), ticker, rec
}

// ============================================================
// Formatting
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{1500, "00:25:00"},
		{3661, "01:01:01"},
		{100 * 3600, "100:00:00"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestModeAndPhaseNames(t *testing.T) {
	if ModeFree.String() != "Free Timer" || ModePomodoro.String() != "Pomodoro" || ModeCustom.String() != "Custom Timer" {
		t.Fatal("unexpected mode names")
	}
	if PhaseWork.String() != "Focus" || PhaseBreak.String() != "Break" {
		t.Fatal("unexpected phase names")
	}
	if ModeCustom.Next() != ModeFree {
		t.Fatal("mode cycle should wrap to Free")
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("pomodoro")
	if err != nil || m != ModePomodoro {
		t.Fatalf("ParseMode(pomodoro) = %v, %v", m, err)
	}
	if _, err := ParseMode("hourly"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

// ============================================================
// Free mode
// ============================================================

func TestNewEngineDefaults(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if e.Mode() != ModeFree || e.Phase() != PhaseWork {
		t.Fatalf("expected Free/Work, got %v/%v", e.Mode(), e.Phase())
	}
	if e.Running() {
		t.Fatal("new engine should be idle")
	}
	if e.Display() != "00:00:00" {
		t.Fatalf("unexpected initial display %q", e.Display())
	}
	if e.CustomWorkMinutes() != 30 || e.CustomBreakMinutes() != 10 {
		t.Fatalf("unexpected custom defaults %d/%d", e.CustomWorkMinutes(), e.CustomBreakMinutes())
	}
}

func TestFreeModeCountsUp(t *testing.T) {
	e, ticker, rec := newTestEngine(t)
	e.Start()

	for n := 1; n <= 125; n++ {
		ticker.Fire()
		if rec.last() != FormatClock(n) {
			t.Fatalf("after tick %d display = %q, want %q", n, rec.last(), FormatClock(n))
		}
	}
	if e.Elapsed() != 125 {
		t.Fatalf("expected elapsed 125, got %d", e.Elapsed())
	}
	if len(rec.completed) != 0 {
		t.Fatal("free mode should never complete")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	e, ticker, _ := newTestEngine(t)
	e.Start()
	e.Start()
	ticker.Fire()
	if e.Elapsed() != 1 {
		t.Fatalf("expected a single tick to count once, got %d", e.Elapsed())
	}
}

func TestStopFreezesCount(t *testing.T) {
	e, ticker, _ := newTestEngine(t)
	e.Start()
	ticker.Advance(10)
	e.Stop()

	if e.Running() {
		t.Fatal("engine should be idle after Stop")
	}
	if ticker.Fire() {
		t.Fatal("no ticks should be delivered while stopped")
	}
	if e.Elapsed() != 10 {
		t.Fatalf("Stop should keep elapsed, got %d", e.Elapsed())
	}

	e.Start()
	ticker.Fire()
	if e.Elapsed() != 11 {
		t.Fatalf("resume should continue counting, got %d", e.Elapsed())
	}
}

func TestTickWhileIdleIgnored(t *testing.T) {
	e, _, _ := newTestEngine(t)
	res := e.Tick()
	if res.Outcome != TickIgnored {
		t.Fatalf("expected TickIgnored, got %v", res.Outcome)
	}
	if e.Elapsed() != 0 {
		t.Fatal("idle tick should not count")
	}
}

// ============================================================
// Reset
// ============================================================

func TestResetEmitsImmediately(t *testing.T) {
	e, ticker, rec := newTestEngine(t)
	e.Start()
	ticker.Advance(5)

	before := len(rec.displays)
	e.Reset()
	if len(rec.displays) != before+1 {
		t.Fatal("Reset should emit exactly one display update")
	}
	if rec.last() != "00:00:00" {
		t.Fatalf("free reset should show zero, got %q", rec.last())
	}
	if e.Running() || e.Elapsed() != 0 {
		t.Fatal("Reset should stop and clear the count")
	}
}

func TestResetIdempotent(t *testing.T) {
	e, _, rec := newTestEngine(t)
	e.SetMode(ModePomodoro)

	e.Reset()
	first := rec.last()
	e.Reset()
	second := rec.last()
	if first != second || first != "00:25:00" {
		t.Fatalf("reset twice should show the same target: %q then %q", first, second)
	}
}

// ============================================================
// Pomodoro and custom modes
// ============================================================

func TestPomodoroWorkCompletesOnce(t *testing.T) {
	e, ticker, rec := newTestEngine(t)
	e.SetMode(ModePomodoro)
	if rec.last() != "00:25:00" {
		t.Fatalf("SetMode should emit target, got %q", rec.last())
	}
	e.Start()

	delivered := ticker.Advance(1499)
	if delivered != 1499 || len(rec.completed) != 0 {
		t.Fatalf("should not complete before tick 1500 (delivered=%d completed=%d)", delivered, len(rec.completed))
	}
	if rec.last() != "00:00:01" {
		t.Fatalf("expected last countdown 00:00:01, got %q", rec.last())
	}

	ticker.Fire()
	if len(rec.completed) != 1 {
		t.Fatalf("expected exactly one completion, got %d", len(rec.completed))
	}
	if e.Running() {
		t.Fatal("engine should stop itself on completion")
	}
	res := rec.completed[0]
	if res.Phase != PhaseWork || res.Mode != ModePomodoro || res.Elapsed != PomodoroWorkSeconds {
		t.Fatalf("unexpected completion result %+v", res)
	}

	if ticker.Advance(10) != 0 {
		t.Fatal("no ticks should be delivered after completion")
	}
	if len(rec.completed) != 1 {
		t.Fatal("completion should fire only once")
	}
}

func TestCountdownNeverEmitsNegative(t *testing.T) {
	e, ticker, rec := newTestEngine(t)
	e.SetMode(ModeCustom)
	e.SetCustomWorkMinutes(1)
	e.Start()
	ticker.Advance(1000)

	for _, d := range rec.displays {
		if d[0] == '-' {
			t.Fatalf("negative display emitted: %q", d)
		}
	}
	if len(rec.completed) != 1 {
		t.Fatalf("expected one completion, got %d", len(rec.completed))
	}
	if e.Remaining() != 0 {
		t.Fatalf("remaining should be 0 after completion, got %d", e.Remaining())
	}
}

func TestPomodoroBreakTarget(t *testing.T) {
	e, _, rec := newTestEngine(t)
	e.SetMode(ModePomodoro)
	e.SetPhase(PhaseBreak)
	if e.Target() != PomodoroBreakSeconds || rec.last() != "00:05:00" {
		t.Fatalf("unexpected break target %d / %q", e.Target(), rec.last())
	}
}

func TestNextPhaseToggles(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetMode(ModePomodoro)
	e.NextPhase()
	if e.Phase() != PhaseBreak {
		t.Fatal("expected break after NextPhase")
	}
	e.NextPhase()
	if e.Phase() != PhaseWork {
		t.Fatal("expected work after second NextPhase")
	}
}

func TestCustomDurations(t *testing.T) {
	e, _, rec := newTestEngine(t, WithCustomMinutes(45, 15))
	e.SetMode(ModeCustom)
	if e.Target() != 45*60 || rec.last() != "00:45:00" {
		t.Fatalf("unexpected custom work target %d / %q", e.Target(), rec.last())
	}
	e.SetPhase(PhaseBreak)
	if e.Target() != 15*60 {
		t.Fatalf("unexpected custom break target %d", e.Target())
	}
}

func TestSetCustomWorkResetsOnlyMatchingPhase(t *testing.T) {
	e, ticker, rec := newTestEngine(t)
	e.SetMode(ModeCustom)
	e.Start()
	ticker.Advance(3)

	// Changing the break length while on the work phase leaves the count alone.
	e.SetCustomBreakMinutes(20)
	if e.Elapsed() != 3 || !e.Running() {
		t.Fatal("changing the other phase should not reset")
	}

	e.SetCustomWorkMinutes(50)
	if e.Elapsed() != 0 || e.Running() {
		t.Fatal("changing the current phase should reset")
	}
	if rec.last() != "00:50:00" {
		t.Fatalf("expected new target display, got %q", rec.last())
	}
}

func TestSetCustomMinutesOutsideCustomMode(t *testing.T) {
	e, ticker, _ := newTestEngine(t)
	e.SetMode(ModePomodoro)
	e.Start()
	ticker.Advance(2)

	e.SetCustomWorkMinutes(5)
	if e.Elapsed() != 2 {
		t.Fatal("custom minutes should not reset a Pomodoro run")
	}
	if e.CustomWorkMinutes() != 5 {
		t.Fatalf("expected stored 5 minutes, got %d", e.CustomWorkMinutes())
	}
}

func TestCompletionHandlerCanSwitchPhase(t *testing.T) {
	ticker := &clock.Driven{}
	var e *Engine
	e = New(ticker,
		WithCustomMinutes(1, 1),
		WithPhaseComplete(func(r TickResult) {
			if r.Phase == PhaseWork {
				e.NextPhase()
				e.Start()
			}
		}),
	)
	e.SetMode(ModeCustom)
	e.Start()

	ticker.Advance(60)
	if e.Phase() != PhaseBreak || !e.Running() {
		t.Fatalf("handler should have moved to a running break, phase=%v running=%v", e.Phase(), e.Running())
	}
	ticker.Advance(60)
	if e.Running() {
		t.Fatal("break should complete and stop")
	}
}

func TestProgress(t *testing.T) {
	e, ticker, _ := newTestEngine(t, WithCustomMinutes(1, 1))
	if e.Progress() != 0 {
		t.Fatal("free mode progress should be 0")
	}
	e.SetMode(ModeCustom)
	e.Start()
	ticker.Advance(30)
	if e.Progress() != 0.5 {
		t.Fatalf("expected 0.5 progress, got %v", e.Progress())
	}
	if e.Remaining() != 30 {
		t.Fatalf("expected 30s remaining, got %d", e.Remaining())
	}
}
