package store

import (
	"database/sql"
	"fmt"
)

// Scalar AppState fields live in the settings table under these keys.
const (
	keyStreak           = "streak"
	keyLastSessionDate  = "last_session_date"
	keyTheme            = "theme"
	keySelectedCategory = "selected_category"
	keyWorkMinutes      = "work_minutes"
	keyBreakMinutes     = "break_minutes"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func setSetting(e execer, key, value string) error {
	_, err := e.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func getAllSettings(q querier) (map[string]string, error) {
	rows, err := q.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}
