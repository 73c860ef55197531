// Package store owns the application state and persists it through a
// Gateway after every mutation.
package store

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrUnknownStorage   = errors.New("unknown storage backend")
)

// Gateway loads and saves the whole application state. Load never fails:
// a missing or unreadable source yields the default state.
type Gateway interface {
	Load() *model.AppState
	Save(state *model.AppState) error
}

// Store applies mutations to a single in-memory AppState and saves it after
// each one. A failed save is logged and returned; the in-memory state keeps
// the mutation.
type Store struct {
	gw    Gateway
	state *model.AppState
	now   func() time.Time
}

type Option func(*Store)

// WithNow overrides the clock used to timestamp recorded sessions.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the state through gw.
func New(gw Gateway, opts ...Option) *Store {
	s := &Store{gw: gw, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.state = gw.Load()
	if s.state == nil {
		s.state = model.DefaultState()
	}
	s.state.Normalize()
	return s
}

// Open returns the gateway for the named backend ("json" or "sqlite").
func Open(kind, path string) (Gateway, error) {
	switch kind {
	case "", "json":
		return &JSONFile{Path: path}, nil
	case "sqlite":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("open storage %q: %w", kind, ErrUnknownStorage)
}

// State returns the owned state. Callers must not mutate it directly.
func (s *Store) State() *model.AppState {
	return s.state
}

func (s *Store) Close() error {
	if c, ok := s.gw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Save persists the current state.
func (s *Store) Save() error {
	if err := s.gw.Save(s.state); err != nil {
		log.Printf("save state: %v", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// RecordSession updates the streak against the previous session date,
// appends a session ending now and marks date as the last session date.
func (s *Store) RecordSession(category string, durationSeconds int64, date string) (model.Session, error) {
	stats.UpdateStreak(s.state, date)

	sess := model.NewSession(category, durationSeconds, date, s.now())
	sess.ID = uuid.NewString()
	s.state.Sessions = append(s.state.Sessions, sess)
	s.state.LastSessionDate = date

	return sess, s.Save()
}

// AddCategory appends a category. An existing name is left untouched and
// ErrCategoryExists is returned without saving. Colors must be #rrggbb.
func (s *Store) AddCategory(name, color string) (model.Category, error) {
	name, err := model.CleanCategoryName(name)
	if err != nil {
		return model.Category{}, err
	}
	if existing, ok := s.state.Category(name); ok {
		return existing, fmt.Errorf("add category %q: %w", name, ErrCategoryExists)
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}
	if err := model.ValidateColor(color); err != nil {
		return model.Category{}, fmt.Errorf("add category %q: %w", name, err)
	}
	c := model.Category{Name: name, Color: color}
	s.state.Categories = append(s.state.Categories, c)
	return c, s.Save()
}

// RemoveCategory removes the category entry. Sessions recorded against it
// are kept.
func (s *Store) RemoveCategory(name string) error {
	i := s.state.CategoryIndex(name)
	if i < 0 {
		return fmt.Errorf("remove category %q: %w", name, ErrCategoryNotFound)
	}
	s.state.Categories = append(s.state.Categories[:i], s.state.Categories[i+1:]...)
	if s.state.SelectedCategory == name {
		s.state.SelectedCategory = ""
	}
	return s.Save()
}

// SelectCategory remembers the category the timer records against.
func (s *Store) SelectCategory(name string) error {
	if _, ok := s.state.Category(name); !ok {
		return fmt.Errorf("select category %q: %w", name, ErrCategoryNotFound)
	}
	if s.state.SelectedCategory == name {
		return nil
	}
	s.state.SelectedCategory = name
	return s.Save()
}

// SelectedCategory returns the remembered category, falling back to the
// first one when the remembered name no longer exists.
func (s *Store) SelectedCategory() (model.Category, bool) {
	if c, ok := s.state.Category(s.state.SelectedCategory); ok {
		return c, true
	}
	if len(s.state.Categories) > 0 {
		return s.state.Categories[0], true
	}
	return model.Category{}, false
}

func (s *Store) SetTheme(t model.Theme) error {
	if !t.Valid() {
		return model.ErrUnknownTheme
	}
	s.state.Theme = t
	return s.Save()
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Store) ToggleTheme() (model.Theme, error) {
	t := s.state.Theme.Toggle()
	return t, s.SetTheme(t)
}

// SetTimerMinutes stores the custom work and break lengths. Out-of-range
// values are rejected before anything changes.
func (s *Store) SetTimerMinutes(work, brk int) error {
	if err := model.ValidateWorkMinutes(work); err != nil {
		return err
	}
	if err := model.ValidateBreakMinutes(brk); err != nil {
		return err
	}
	s.state.PomodoroWorkMinutes = work
	s.state.PomodoroBreakMinutes = brk
	return s.Save()
}
