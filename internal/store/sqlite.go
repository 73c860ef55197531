package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sadopc/focus/internal/model"
)

const currentVersion = 1

// SQLite keeps the state in a SQLite database. Categories are rewritten on
// every save; sessions are append-only and inserted once by ID.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenSQLiteMemory creates an in-memory database for testing.
func OpenSQLiteMemory() (*SQLite, error) {
	return OpenSQLite(":memory:")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *SQLite) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS categories (
		position  INTEGER NOT NULL,
		name      TEXT PRIMARY KEY,
		color     TEXT NOT NULL DEFAULT '#65f7a1'
	);

	CREATE TABLE IF NOT EXISTS sessions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		category    TEXT NOT NULL,
		duration    INTEGER NOT NULL DEFAULT 0,
		date        TEXT NOT NULL,
		start_time  TEXT NOT NULL DEFAULT '',
		end_time    TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads the state. An empty or unreadable database yields the default
// state.
func (s *SQLite) Load() *model.AppState {
	state, err := s.load()
	if err != nil {
		log.Printf("load state from database: %v; starting fresh", err)
		return model.DefaultState()
	}
	if state == nil {
		return model.DefaultState()
	}
	state.Normalize()
	return state
}

func (s *SQLite) load() (*model.AppState, error) {
	settings, err := getAllSettings(s.db)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}

	state := model.DefaultState()
	state.Streak, _ = strconv.Atoi(settings[keyStreak])
	state.LastSessionDate = settings[keyLastSessionDate]
	state.Theme = model.Theme(settings[keyTheme])
	state.SelectedCategory = settings[keySelectedCategory]
	state.PomodoroWorkMinutes, _ = strconv.Atoi(settings[keyWorkMinutes])
	state.PomodoroBreakMinutes, _ = strconv.Atoi(settings[keyBreakMinutes])

	if state.Categories, err = s.listCategories(); err != nil {
		return nil, err
	}
	if state.Sessions, err = s.listSessions(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SQLite) listCategories() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT name, color FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Name, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLite) listSessions() ([]model.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, category, duration, date, start_time, end_time FROM sessions ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var sess model.Session
		var start, end string
		if err := rows.Scan(&sess.ID, &sess.Category, &sess.DurationSeconds, &sess.Date, &start, &end); err != nil {
			return nil, err
		}
		sess.StartTime = model.ParseTimestamp(start)
		sess.EndTime = model.ParseTimestamp(end)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Save writes the state in one transaction.
func (s *SQLite) Save(state *model.AppState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for i, c := range state.Categories {
		if _, err := tx.Exec(
			`INSERT INTO categories (position, name, color) VALUES (?, ?, ?)`, i, c.Name, c.Color,
		); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	for i := range state.Sessions {
		sess := &state.Sessions[i]
		if sess.ID == "" {
			sess.ID = uuid.NewString()
		}
		if _, err := tx.Exec(
			`INSERT INTO sessions (id, category, duration, date, start_time, end_time)
			 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			sess.ID, sess.Category, sess.DurationSeconds, sess.Date,
			model.FormatTimestamp(sess.StartTime), model.FormatTimestamp(sess.EndTime),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	settings := map[string]string{
		keyStreak:           strconv.Itoa(state.Streak),
		keyLastSessionDate:  state.LastSessionDate,
		keyTheme:            string(state.Theme),
		keySelectedCategory: state.SelectedCategory,
		keyWorkMinutes:      strconv.Itoa(state.PomodoroWorkMinutes),
		keyBreakMinutes:     strconv.Itoa(state.PomodoroBreakMinutes),
	}
	for k, v := range settings {
		if err := setSetting(tx, k, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
