package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
	"github.com/sadopc/focus/internal/store"
	"github.com/sadopc/focus/internal/timer"
)

const recentSessions = 5

type focusModel struct {
	store  *store.Store
	opts   Options
	timer  timerModel
	width  int
	height int

	progress progress.Model

	// Category picker state
	picking      bool
	pickerCursor int
}

func newFocusModel(s *store.Store, opts Options) focusModel {
	st := s.State()
	return focusModel{
		store:    s,
		opts:     opts,
		timer:    newTimerModel(st.PomodoroWorkMinutes, st.PomodoroBreakMinutes),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
	f.progress.Width = max(10, min(60, w-14))
}

func (f focusModel) today() string {
	return f.opts.Now().Format(model.DateLayout)
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		var cmds []tea.Cmd
		for _, res := range f.timer.tick() {
			cmds = append(cmds, f.phaseCompleted(res))
		}
		return f, tea.Batch(cmds...)

	case settingsSavedMsg:
		f.timer.engine.SetCustomWorkMinutes(msg.work)
		f.timer.engine.SetCustomBreakMinutes(msg.brk)
		return f, nil

	case tea.KeyMsg:
		if f.picking {
			return f.updatePicker(msg)
		}

		e := f.timer.engine
		switch {
		case key.Matches(msg, keys.Start):
			if e.Running() {
				return f, nil
			}
			if _, ok := f.store.SelectedCategory(); !ok {
				return f, statusCmd("No categories yet. Press 2 to add one.", true)
			}
			e.Start()
			return f, nil

		case key.Matches(msg, keys.Pause):
			f.timer.toggle()
			return f, nil

		case key.Matches(msg, keys.Stop):
			return f, f.stopAndSave()

		case key.Matches(msg, keys.Mode):
			e.SetMode(e.Mode().Next())
			return f, statusCmd("Mode: "+e.Mode().String(), false)

		case key.Matches(msg, keys.Skip):
			if e.Mode() == timer.ModeFree {
				return f, nil
			}
			e.NextPhase()
			return f, statusCmd("Phase: "+e.Phase().String(), false)

		case key.Matches(msg, keys.Category):
			cats := f.store.State().Categories
			if len(cats) == 0 {
				return f, statusCmd("No categories yet. Press 2 to add one.", true)
			}
			f.picking = true
			f.pickerCursor = 0
			if c, ok := f.store.SelectedCategory(); ok {
				f.pickerCursor = max(0, f.store.State().CategoryIndex(c.Name))
			}
			return f, nil
		}
	}
	return f, nil
}

func (f focusModel) updatePicker(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	cats := f.store.State().Categories
	switch {
	case key.Matches(msg, keys.Up):
		if f.pickerCursor > 0 {
			f.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickerCursor < len(cats)-1 {
			f.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		f.picking = false
		if f.pickerCursor >= len(cats) {
			return f, nil
		}
		name := cats[f.pickerCursor].Name
		if err := f.store.SelectCategory(name); err != nil {
			return f, statusCmd("Error: "+err.Error(), true)
		}
		return f, statusCmd("Category: "+name, false)
	case key.Matches(msg, keys.Back):
		f.picking = false
	}
	return f, nil
}

// phaseCompleted runs after the completing tick has returned. A finished
// focus phase is recorded at its full length; either way the timer moves to
// the other phase and waits for the user to start it.
func (f focusModel) phaseCompleted(res timer.TickResult) tea.Cmd {
	e := f.timer.engine
	e.NextPhase()

	if res.Phase == timer.PhaseBreak {
		return statusCmd("Break over. Press s to focus."+f.bell(), false)
	}

	c, ok := f.store.SelectedCategory()
	if !ok {
		return statusCmd("Focus complete, but no category to record it against."+f.bell(), true)
	}
	if _, err := f.store.RecordSession(c.Name, int64(res.Elapsed), f.today()); err != nil {
		return statusCmd("Error saving session: "+err.Error(), true)
	}
	text := fmt.Sprintf("Focus complete: %s of %s. Break time!", stats.FormatDuration(int64(res.Elapsed)), c.Name)
	return statusCmd(text+f.bell(), false)
}

// stopAndSave stops the timer, records the elapsed time when it reaches the
// minimum session length and resets the current phase.
func (f focusModel) stopAndSave() tea.Cmd {
	e := f.timer.engine
	e.Stop()
	elapsed := int64(e.Elapsed())
	defer e.Reset()

	if elapsed == 0 {
		return nil
	}
	if elapsed < f.opts.MinSessionSeconds {
		return statusCmd(fmt.Sprintf("Session under %s not saved", stats.FormatDuration(f.opts.MinSessionSeconds)), false)
	}
	c, ok := f.store.SelectedCategory()
	if !ok {
		return statusCmd("No category selected; session not saved", true)
	}
	if _, err := f.store.RecordSession(c.Name, elapsed, f.today()); err != nil {
		return statusCmd("Error saving session: "+err.Error(), true)
	}
	return statusCmd(fmt.Sprintf("Saved %s of %s", stats.FormatDuration(elapsed), c.Name), false)
}

func (f focusModel) bell() string {
	if f.opts.Bell {
		return " \a"
	}
	return ""
}

func (f focusModel) view() string {
	if f.width < 20 {
		return "Terminal too small"
	}

	contentWidth := f.width - 4

	var bottomPanel string
	if f.picking {
		bottomPanel = f.renderCategoryPicker(contentWidth)
	} else {
		bottomPanel = f.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		f.renderTimerPanel(contentWidth),
		f.renderSummaryPanel(contentWidth),
		bottomPanel,
	)
}

func (f focusModel) renderTimerPanel(w int) string {
	e := f.timer.engine

	label := e.Mode().String()
	if e.Mode() != timer.ModeFree {
		label += " · " + e.Phase().String()
	}
	modeLine := highlightStyle.Render(label)

	categoryLine := mutedStyle.Render("no category")
	if c, ok := f.store.SelectedCategory(); ok {
		categoryLine = dot(c.Color) + " " + normalItemStyle.Render(c.Name)
	}

	var timeDisplay, indicator string
	panel := panelStyle
	switch {
	case f.timer.running():
		timeDisplay = timerRunningStyle.Width(w - 6).Render(e.Display())
		indicator = successStyle.Render("●  RUNNING")
		panel = activePanelStyle
	case f.timer.paused():
		timeDisplay = timerPausedStyle.Width(w - 6).Render(e.Display())
		indicator = warningStyle.Render("⏸  PAUSED")
		panel = activePanelStyle
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(e.Display())
		indicator = mutedStyle.Render("■  STOPPED   press s to start")
	}

	rows := []string{modeLine, timeDisplay, indicator, categoryLine}
	if e.Mode() != timer.ModeFree {
		rows = append(rows, f.progress.ViewAs(e.Progress()))
	}
	return panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (f focusModel) renderSummaryPanel(w int) string {
	agg := stats.New(f.store.State(), stats.WithNow(f.opts.Now))

	streak := f.store.State().Streak
	days := "days"
	if streak == 1 {
		days = "day"
	}
	line := fmt.Sprintf("%s %s   %s %s   %s %s",
		titleStyle.Render("Today"), highlightStyle.Render(stats.FormatDuration(agg.TodayTotal())),
		titleStyle.Render("Week"), highlightStyle.Render(stats.FormatDuration(agg.WeekTotal())),
		titleStyle.Render("Streak"), accentStyle.Render(fmt.Sprintf("%d %s", streak, days)),
	)
	return panelStyle.Width(w).Render(line)
}

func (f focusModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	sessions := f.store.State().Sessions
	if len(sessions) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		))
	}

	rows := []string{title}
	for i := len(sessions) - 1; i >= 0 && i >= len(sessions)-recentSessions; i-- {
		s := sessions[i]
		when := s.Date
		if !s.EndTime.IsZero() {
			when += " " + s.EndTime.Format("15:04")
		}
		rows = append(rows, fmt.Sprintf("  %s %-16s %-20s %s",
			dot(f.store.State().ColorOf(s.Category)), when, s.Category, s.FormattedDuration()))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (f focusModel) renderCategoryPicker(w int) string {
	rows := []string{titleStyle.Render("Select Category")}
	for i, c := range f.store.State().Categories {
		cursor := "  "
		style := normalItemStyle
		if i == f.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, dot(c.Color), c.Name)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
