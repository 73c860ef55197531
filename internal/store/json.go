package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sadopc/focus/internal/model"
)

// JSONFile stores the state as a single indented JSON document.
type JSONFile struct {
	Path string
}

// Load reads the state file. Files written by early versions, where
// categories was a list of plain names, are migrated and saved back at once.
// Any failure yields the default state.
func (f *JSONFile) Load() *model.AppState {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("read state file %s: %v", f.Path, err)
		}
		return model.DefaultState()
	}

	state, migrated, err := decodeState(data)
	if err != nil {
		log.Printf("parse state file %s: %v; starting fresh", f.Path, err)
		return model.DefaultState()
	}
	if migrated {
		log.Printf("migrated %s from the name-only category format", f.Path)
		if err := f.Save(state); err != nil {
			log.Printf("save migrated state: %v", err)
		}
	}
	return state
}

// Save writes to a temporary file next to Path and renames it into place.
func (f *JSONFile) Save(state *model.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".focus-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

type categoriesShape struct {
	Categories []json.RawMessage `json:"categories"`
}

type legacySession struct {
	Category        string `json:"category"`
	DurationSeconds int64  `json:"durationSeconds"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
}

type legacyState struct {
	Categories      []string        `json:"categories"`
	Sessions        []legacySession `json:"sessions"`
	Streak          int             `json:"streak"`
	LastSessionDate string          `json:"lastSessionDate"`
}

// decodeState parses either format. The second result reports whether the
// legacy format was found.
func decodeState(data []byte) (*model.AppState, bool, error) {
	var p categoriesShape
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, err
	}
	if len(p.Categories) > 0 && bytes.HasPrefix(bytes.TrimSpace(p.Categories[0]), []byte(`"`)) {
		state, err := migrateLegacy(data)
		return state, true, err
	}

	// Absent fields keep their defaults.
	state := model.DefaultState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, false, err
	}
	assignMissingIDs(state)
	state.Normalize()
	return state, false, nil
}

func migrateLegacy(data []byte) (*model.AppState, error) {
	var old legacyState
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("decode legacy state: %w", err)
	}

	state := model.DefaultState()
	state.Categories = make([]model.Category, 0, len(old.Categories))
	for i, name := range old.Categories {
		state.Categories = append(state.Categories, model.Category{Name: name, Color: model.PaletteColor(i)})
	}
	for _, s := range old.Sessions {
		state.Sessions = append(state.Sessions, model.Session{
			ID:              uuid.NewString(),
			Category:        s.Category,
			DurationSeconds: s.DurationSeconds,
			Date:            s.Date,
			StartTime:       model.ParseTimestamp(s.StartTime),
			EndTime:         model.ParseTimestamp(s.EndTime),
		})
	}
	state.Streak = old.Streak
	state.LastSessionDate = old.LastSessionDate
	state.Theme = model.ThemeDark
	state.Normalize()
	return state, nil
}

func assignMissingIDs(state *model.AppState) {
	for i := range state.Sessions {
		if state.Sessions[i].ID == "" {
			state.Sessions[i].ID = uuid.NewString()
		}
	}
}
