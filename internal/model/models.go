package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day key used by sessions and the streak.
const DateLayout = "2006-01-02"

// timestampLayout matches the local date-time strings written by earlier versions.
const timestampLayout = "2006-01-02T15:04:05"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Session struct {
	ID              string    `json:"id,omitempty"`
	Category        string    `json:"category"`
	DurationSeconds int64     `json:"durationSeconds"`
	Date            string    `json:"date"` // YYYY-MM-DD
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
}

// NewSession builds a session that ended at end and lasted durationSeconds.
func NewSession(category string, durationSeconds int64, date string, end time.Time) Session {
	end = end.Truncate(time.Second)
	return Session{
		Category:        category,
		DurationSeconds: durationSeconds,
		Date:            date,
		StartTime:       end.Add(-time.Duration(durationSeconds) * time.Second),
		EndTime:         end,
	}
}

// FormattedDuration renders the duration as "{h}h {m}m".
func (s Session) FormattedDuration() string {
	h := s.DurationSeconds / 3600
	m := (s.DurationSeconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", h, m)
}

type sessionJSON struct {
	ID              string `json:"id,omitempty"`
	Category        string `json:"category"`
	DurationSeconds int64  `json:"durationSeconds"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
}

// MarshalJSON writes timestamps as local date-times without a zone, the
// format the state file has always used.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		ID:              s.ID,
		Category:        s.Category,
		DurationSeconds: s.DurationSeconds,
		Date:            s.Date,
		StartTime:       FormatTimestamp(s.StartTime),
		EndTime:         FormatTimestamp(s.EndTime),
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.Category = raw.Category
	s.DurationSeconds = raw.DurationSeconds
	s.Date = raw.Date
	s.StartTime = ParseTimestamp(raw.StartTime)
	s.EndTime = ParseTimestamp(raw.EndTime)
	return nil
}

// FormatTimestamp returns "" for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(timestampLayout)
}

// ParseTimestamp accepts local date-times (with or without fractional
// seconds) and RFC 3339. Unparseable values yield the zero time.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(time.Local)
	}
	for _, layout := range []string{timestampLayout, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

type AppState struct {
	Categories           []Category `json:"categories"`
	Sessions             []Session  `json:"sessions"`
	Streak               int        `json:"streak"`
	LastSessionDate      string     `json:"lastSessionDate"`
	Theme                Theme      `json:"theme"`
	SelectedCategory     string     `json:"selectedCategory"`
	PomodoroWorkMinutes  int        `json:"pomodoroWorkMinutes"`
	PomodoroBreakMinutes int        `json:"pomodoroBreakMinutes"`
}
