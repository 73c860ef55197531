// Package export writes recorded sessions to CSV, JSON or YAML files.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/focus/internal/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted format names, also used as file extensions.
var Formats = []string{"csv", "json", "yaml"}

// Write exports sessions in the named format.
func Write(format string, sessions []model.Session, categories []model.Category, path string) error {
	switch strings.ToLower(format) {
	case "csv":
		return ToCSV(sessions, categories, path)
	case "json":
		return ToJSON(sessions, categories, path)
	case "yaml", "yml":
		return ToYAML(sessions, categories, path)
	}
	return fmt.Errorf("export %q: %w", format, ErrUnknownFormat)
}

type record struct {
	ID          string `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Date        string `json:"date" yaml:"date"`
	StartTime   string `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

// records flattens sessions in their recorded order. Sessions of removed
// categories keep their name and get no color.
func records(sessions []model.Session, categories []model.Category) []record {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	out := make([]record, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, record{
			ID:          s.ID,
			Category:    s.Category,
			Color:       colors[s.Category],
			Date:        s.Date,
			StartTime:   model.FormatTimestamp(s.StartTime),
			EndTime:     model.FormatTimestamp(s.EndTime),
			DurationSec: s.DurationSeconds,
			Duration:    s.FormattedDuration(),
		})
	}
	return out
}
