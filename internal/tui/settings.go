package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/store"
)

type settingsModel struct {
	store  *store.Store
	opts   Options
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workMinutes  *string
	breakMinutes *string
	theme        *string
}

func newSettingsModel(s *store.Store, opts Options) settingsModel {
	work, brk, theme := "", "", ""
	return settingsModel{
		store:        s,
		opts:         opts,
		workMinutes:  &work,
		breakMinutes: &brk,
		theme:        &theme,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := s.store.State()
	*s.workMinutes = strconv.Itoa(st.PomodoroWorkMinutes)
	*s.breakMinutes = strconv.Itoa(st.PomodoroBreakMinutes)
	*s.theme = string(st.Theme)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Custom focus (min)").
				Description(fmt.Sprintf("%d to %d", model.MinWorkMinutes, model.MaxWorkMinutes)).
				Value(s.workMinutes).
				Validate(func(v string) error {
					_, err := model.ParseWorkMinutes(v)
					return err
				}),
			huh.NewInput().Title("Custom break (min)").
				Description(fmt.Sprintf("%d to %d", model.MinBreakMinutes, model.MaxBreakMinutes)).
				Value(s.breakMinutes).
				Validate(func(v string) error {
					_, err := model.ParseBreakMinutes(v)
					return err
				}),
		).Title("Custom Timer"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", string(model.ThemeDark)),
					huh.NewOption("Light", string(model.ThemeLight)),
				).Value(s.theme),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveSettings()
	}

	return s, cmd
}

// saveSettings persists the form values. The fields were validated by the
// form, but are parsed again so a bad value never reaches the store.
func (s settingsModel) saveSettings() tea.Cmd {
	work, err := model.ParseWorkMinutes(*s.workMinutes)
	if err != nil {
		return statusCmd("Error: "+err.Error(), true)
	}
	brk, err := model.ParseBreakMinutes(*s.breakMinutes)
	if err != nil {
		return statusCmd("Error: "+err.Error(), true)
	}
	theme, err := model.ParseTheme(*s.theme)
	if err != nil {
		return statusCmd("Error: "+err.Error(), true)
	}

	if err := s.store.SetTimerMinutes(work, brk); err != nil {
		return statusCmd("Error saving settings: "+err.Error(), true)
	}
	if err := s.store.SetTheme(theme); err != nil {
		return statusCmd("Error saving settings: "+err.Error(), true)
	}
	applyTheme(theme)

	return tea.Batch(
		func() tea.Msg { return settingsSavedMsg{work: work, brk: brk} },
		statusCmd("Settings saved", false),
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	st := s.store.State()
	row := func(k, v string) string {
		label := lipgloss.NewStyle().Width(24).Render(k)
		return fmt.Sprintf("  %s %s", label, highlightStyle.Render(v))
	}

	bell := "off"
	if s.opts.Bell {
		bell = "on"
	}

	rows := []string{
		title,
		"",
		row("Custom focus", fmt.Sprintf("%d min", st.PomodoroWorkMinutes)),
		row("Custom break", fmt.Sprintf("%d min", st.PomodoroBreakMinutes)),
		row("Theme", string(st.Theme)),
		row("Bell", bell),
		row("Minimum session", fmt.Sprintf("%d s", s.opts.MinSessionSeconds)),
	}
	if s.opts.DataPath != "" {
		rows = append(rows, row("Data", s.opts.DataPath))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
