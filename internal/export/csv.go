package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/focus/internal/model"
)

func ToCSV(sessions []model.Session, categories []model.Category, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Category", "Color", "Date", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, r := range records(sessions, categories) {
		row := []string{
			r.ID,
			r.Category,
			r.Color,
			r.Date,
			r.StartTime,
			r.EndTime,
			fmt.Sprintf("%d", r.DurationSec),
			r.Duration,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
