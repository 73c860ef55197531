// Package config loads the optional TOML configuration file. A missing file
// or missing keys fall back to defaults; paths accept a leading "~".
//
// Example config.toml:
//
//	storage = "sqlite"
//	data_path = "~/notes/focus.db"
//	log_file = "~/.cache/focus.log"
//	bell = false
//	min_session_seconds = 120
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"

	defaultMinSessionSeconds = 60
)

var ErrUnknownStorage = errors.New("storage must be json or sqlite")

type Config struct {
	Storage           string
	DataPath          string
	LogFile           string
	Bell              bool
	MinSessionSeconds int64
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := defaultDir()
	return Config{
		Storage:           StorageJSON,
		DataPath:          filepath.Join(dir, defaultDataFile(StorageJSON)),
		LogFile:           filepath.Join(dir, "focus.log"),
		Bell:              true,
		MinSessionSeconds: defaultMinSessionSeconds,
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.toml")
}

// Load parses the config at path, or at DefaultPath when path is empty.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Storage           string `toml:"storage"`
		DataPath          string `toml:"data_path"`
		LogFile           string `toml:"log_file"`
		Bell              *bool  `toml:"bell"`
		MinSessionSeconds *int64 `toml:"min_session_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if s := strings.ToLower(strings.TrimSpace(raw.Storage)); s != "" {
		cfg.Storage = s
	}
	if err := cfg.SetStorage(cfg.Storage); err != nil {
		return Config{}, err
	}
	if p := strings.TrimSpace(raw.DataPath); p != "" {
		cfg.DataPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogFile); p != "" {
		cfg.LogFile = mustExpand(p)
	}
	if raw.Bell != nil {
		cfg.Bell = *raw.Bell
	}
	if raw.MinSessionSeconds != nil && *raw.MinSessionSeconds >= 0 {
		cfg.MinSessionSeconds = *raw.MinSessionSeconds
	}

	return cfg, nil
}

// SetStorage switches the backend. When the data path is still the default
// for the previous backend it follows the switch.
func (c *Config) SetStorage(kind string) error {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != StorageJSON && kind != StorageSQLite {
		return fmt.Errorf("storage %q: %w", kind, ErrUnknownStorage)
	}
	dir := defaultDir()
	for _, k := range []string{StorageJSON, StorageSQLite} {
		if c.DataPath == filepath.Join(dir, defaultDataFile(k)) {
			c.DataPath = filepath.Join(dir, defaultDataFile(kind))
			break
		}
	}
	c.Storage = kind
	return nil
}

// SetDataPath overrides the data location, expanding "~".
func (c *Config) SetDataPath(path string) {
	if strings.TrimSpace(path) != "" {
		c.DataPath = mustExpand(path)
	}
}

func defaultDataFile(storage string) string {
	if storage == StorageSQLite {
		return "focus.db"
	}
	return "data.json"
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "focus")
	}
	return mustExpand("~/.config/focus")
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
