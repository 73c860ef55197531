package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focus/internal/model"
)

func sampleData() ([]model.Session, []model.Category) {
	end := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)

	sessions := []model.Session{
		model.NewSession("Coding", 3600, "2024-06-01", end),
		model.NewSession("Math", 1860, "2024-06-01", end.Add(time.Hour)),
		{Category: "Chess", DurationSeconds: 90, Date: "2023-12-30"}, // migrated, no times
	}
	sessions[0].ID = "a1"
	sessions[1].ID = "b2"
	sessions[2].ID = "c3"

	categories := []model.Category{
		{Name: "Coding", Color: "#65f7a1"},
		{Name: "Math", Color: "#ffb86b"},
	}
	return sessions, categories
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	sessions, categories := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sessions, categories, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Category", "Color", "Date", "Start", "End", "Duration (s)", "Duration"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "a1" || row[1] != "Coding" || row[2] != "#65f7a1" || row[3] != "2024-06-01" {
		t.Fatalf("unexpected first row %v", row)
	}
	if row[4] != "2024-06-01T09:00:00" || row[5] != "2024-06-01T10:00:00" {
		t.Fatalf("unexpected times %q - %q", row[4], row[5])
	}
	if row[6] != "3600" || row[7] != "1h 0m" {
		t.Fatalf("unexpected durations %q / %q", row[6], row[7])
	}

	if records[2][7] != "0h 31m" {
		t.Fatalf("Duration = %q, want 0h 31m", records[2][7])
	}

	// Removed category: no color, and no times for a migrated session.
	old := records[3]
	if old[1] != "Chess" || old[2] != "" || old[4] != "" || old[5] != "" {
		t.Fatalf("unexpected migrated row %v", old)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	sessions := []model.Session{{ID: "x", Category: `Deep "work", mostly`, DurationSeconds: 60, Date: "2024-06-01"}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(sessions, nil, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][1] != `Deep "work", mostly` {
		t.Fatalf("category name mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	sessions, categories := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sessions, categories, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result document
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Sessions) != 3 {
		t.Fatalf("count = %d, sessions = %d, want 3", result.Count, len(result.Sessions))
	}
	if result.TotalSeconds != 3600+1860+90 {
		t.Fatalf("total_seconds = %d", result.TotalSeconds)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	r := result.Sessions[0]
	if r.ID != "a1" || r.Category != "Coding" || r.DurationSec != 3600 || r.Duration != "1h 0m" {
		t.Fatalf("unexpected first record %+v", r)
	}
	if result.Sessions[2].Color != "" || result.Sessions[2].StartTime != "" {
		t.Fatalf("migrated record should omit color and times, got %+v", result.Sessions[2])
	}
	if strings.Contains(string(data), `"color": ""`) {
		t.Fatal("empty color should be omitted")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result document
	json.Unmarshal(data, &result)

	if result.Count != 0 || len(result.Sessions) != 0 {
		t.Fatalf("expected empty export, got %+v", result)
	}
	if !strings.Contains(string(data), `"sessions": []`) {
		t.Fatal("empty export should write an empty list, not null")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be pretty-printed")
	}
}

// ============================================================
// YAML
// ============================================================

func TestToYAML(t *testing.T) {
	sessions, categories := sampleData()
	path := filepath.Join(t.TempDir(), "test.yaml")

	if err := ToYAML(sessions, categories, path); err != nil {
		t.Fatalf("ToYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result document
	if err := yaml.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if result.Count != 3 || len(result.Sessions) != 3 {
		t.Fatalf("count = %d, sessions = %d", result.Count, len(result.Sessions))
	}
	if result.Sessions[1].Category != "Math" || result.Sessions[1].Color != "#ffb86b" {
		t.Fatalf("unexpected second record %+v", result.Sessions[1])
	}
	if !strings.Contains(string(data), "duration_seconds: 3600") {
		t.Fatal("YAML should use snake_case keys")
	}
}

func TestToYAMLBadPath(t *testing.T) {
	if err := ToYAML(nil, nil, "/nonexistent/dir/file.yaml"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Write
// ============================================================

func TestWriteDispatch(t *testing.T) {
	sessions, categories := sampleData()
	dir := t.TempDir()

	for _, format := range append(Formats, "YML") {
		path := filepath.Join(dir, "out."+strings.ToLower(format))
		if err := Write(format, sessions, categories, path); err != nil {
			t.Fatalf("Write(%s): %v", format, err)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("Write(%s) produced no file", format)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write("xlsx", nil, nil, filepath.Join(t.TempDir(), "out.xlsx"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
