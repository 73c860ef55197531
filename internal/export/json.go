package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focus/internal/model"
)

type document struct {
	ExportedAt   string   `json:"exported_at" yaml:"exported_at"`
	Count        int      `json:"count" yaml:"count"`
	TotalSeconds int64    `json:"total_seconds" yaml:"total_seconds"`
	Sessions     []record `json:"sessions" yaml:"sessions"`
}

func newDocument(sessions []model.Session, categories []model.Category) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Sessions:   records(sessions, categories),
	}
	for _, s := range sessions {
		doc.TotalSeconds += s.DurationSeconds
	}
	return doc
}

func ToJSON(sessions []model.Session, categories []model.Category, path string) error {
	data, err := json.MarshalIndent(newDocument(sessions, categories), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
