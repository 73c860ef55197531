package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/store"
	"github.com/sadopc/focus/internal/timer"
)

var testNow = time.Date(2024, 5, 10, 18, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	gw, err := store.OpenSQLiteMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	s := store.New(gw, store.WithNow(func() time.Time { return testNow }))
	t.Cleanup(func() { s.Close() })
	return s
}

// execute runs the CLI against a data file in a temp dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{
		"--config", filepath.Join(dir, "missing.toml"),
		"--data", filepath.Join(dir, "data.json"),
	}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

// ============================================================
// Headless session
// ============================================================

func TestRunSessionCompletesCycles(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetTimerMinutes(1, 1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := runSession(ctx, s, sessionOptions{
		Mode:              timer.ModeCustom,
		Category:          "Coding",
		Cycles:            2,
		MinSessionSeconds: 60,
		Interval:          time.Millisecond,
		Out:               &out,
		Now:               func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("session should finish before the deadline")
	}

	sessions := s.State().Sessions
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	for _, sess := range sessions {
		if sess.Category != "Coding" || sess.DurationSeconds != 60 {
			t.Fatalf("unexpected session %+v", sess)
		}
	}
	if !strings.Contains(out.String(), "saved 1m of Coding") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunSessionInterruptSavesFreeTime(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := runSession(ctx, s, sessionOptions{
		Mode:              timer.ModeFree,
		MinSessionSeconds: 1,
		Interval:          time.Millisecond,
		Out:               &out,
	})
	if err != nil {
		t.Fatal(err)
	}

	sessions := s.State().Sessions
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Category != "English" || sessions[0].DurationSeconds < 1 {
		t.Fatalf("unexpected session %+v", sessions[0])
	}
}

func TestRunSessionInterruptBelowMinimum(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := runSession(ctx, s, sessionOptions{
		Mode:              timer.ModeFree,
		MinSessionSeconds: 1_000_000,
		Interval:          time.Millisecond,
		Out:               &out,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.State().Sessions) != 0 {
		t.Fatal("short session should not be saved")
	}
}

func TestRunSessionUnknownCategory(t *testing.T) {
	s := newTestStore(t)
	err := runSession(context.Background(), s, sessionOptions{Category: "Nope", Out: &bytes.Buffer{}})
	if !errors.Is(err, store.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRunSessionNoCategories(t *testing.T) {
	s := newTestStore(t)
	for _, c := range append([]model.Category(nil), s.State().Categories...) {
		s.RemoveCategory(c.Name)
	}
	err := runSession(context.Background(), s, sessionOptions{Out: &bytes.Buffer{}})
	if !errors.Is(err, errNoCategory) {
		t.Fatalf("expected errNoCategory, got %v", err)
	}
}

// ============================================================
// Commands
// ============================================================

func TestPrintStats(t *testing.T) {
	s := newTestStore(t)
	s.RecordSession("Math", 5400, "2024-05-10")
	s.RecordSession("Old", 600, "2024-05-09")

	var out bytes.Buffer
	printStats(&out, s.State(), func() time.Time { return testNow }, 2)

	for _, want := range []string{"Today", "1h 30m", "Old (removed)", "2024-05-09", "Streak"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("stats output missing %q:\n%s", want, out.String())
		}
	}
}

func TestApplySettings(t *testing.T) {
	s := newTestStore(t)

	if err := applySettings(s, "45", "", "light"); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.PomodoroWorkMinutes != 45 || st.PomodoroBreakMinutes != model.DefaultBreakMinutes {
		t.Fatalf("unexpected minutes %d/%d", st.PomodoroWorkMinutes, st.PomodoroBreakMinutes)
	}
	if st.Theme != model.ThemeLight {
		t.Fatal("theme should be light")
	}
}

func TestApplySettingsRejectsAllOnError(t *testing.T) {
	s := newTestStore(t)

	if err := applySettings(s, "45", "0", ""); !errors.Is(err, model.ErrBreakMinutesRange) {
		t.Fatalf("expected ErrBreakMinutesRange, got %v", err)
	}
	if s.State().PomodoroWorkMinutes != model.DefaultWorkMinutes {
		t.Fatal("a rejected value should leave every setting unchanged")
	}
	if err := applySettings(s, "", "", "blue"); !errors.Is(err, model.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestCategoriesCommands(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, dir, "categories", "add", "Reading", "--color", "#a29bfe"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "categories", "add", "Reading"); !errors.Is(err, store.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := execute(t, dir, "categories", "add", "Chess", "--color", "red"); !errors.Is(err, model.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if _, err := execute(t, dir, "categories", "remove", "Math"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "categories", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Reading") || !strings.Contains(out, "#a29bfe") {
		t.Fatalf("list should show the new category:\n%s", out)
	}
	if strings.Contains(out, "Math") || strings.Contains(out, "Chess") {
		t.Fatalf("list should not show removed categories:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")

	out, err := execute(t, dir, "export", "--format", "csv", "--out", dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "exported 0 sessions") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	if _, err := execute(t, dir, "export", "--format", "xml", "--out", dest); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestSettingsCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "settings", "--work", "50", "--break", "10")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "50 min") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := execute(t, dir, "settings", "--work", "500"); err == nil {
		t.Fatal("out of range minutes should fail")
	}
}

func TestStorageFlag(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "--storage", "xml", "stats"); err == nil {
		t.Fatal("unknown storage should fail")
	}
	if _, err := execute(t, dir, "--storage", "sqlite", "stats"); err != nil {
		t.Fatal(err)
	}
}
