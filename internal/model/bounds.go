package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 120
	MinBreakMinutes = 1
	MaxBreakMinutes = 60
)

var (
	ErrNotANumber        = errors.New("not a number")
	ErrWorkMinutesRange  = fmt.Errorf("work time must be between %d and %d minutes", MinWorkMinutes, MaxWorkMinutes)
	ErrBreakMinutesRange = fmt.Errorf("break time must be between %d and %d minutes", MinBreakMinutes, MaxBreakMinutes)
	ErrUnknownTheme      = errors.New("theme must be light or dark")
	ErrEmptyCategoryName = errors.New("category name is empty")
	ErrInvalidColor      = errors.New("color must be a hex value like #a29bfe")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func ValidateWorkMinutes(n int) error {
	if n < MinWorkMinutes || n > MaxWorkMinutes {
		return ErrWorkMinutesRange
	}
	return nil
}

func ValidateBreakMinutes(n int) error {
	if n < MinBreakMinutes || n > MaxBreakMinutes {
		return ErrBreakMinutesRange
	}
	return nil
}

// ParseWorkMinutes parses user input for the custom work duration.
func ParseWorkMinutes(s string) (int, error) {
	n, err := parseMinutes(s)
	if err != nil {
		return 0, err
	}
	return n, ValidateWorkMinutes(n)
}

// ParseBreakMinutes parses user input for the custom break duration.
func ParseBreakMinutes(s string) (int, error) {
	n, err := parseMinutes(s)
	if err != nil {
		return 0, err
	}
	return n, ValidateBreakMinutes(n)
}

func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNotANumber)
	}
	return n, nil
}

// ParseTheme accepts "light" or "dark", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrUnknownTheme
	}
	return t, nil
}

// CleanCategoryName trims the name and rejects empty input.
func CleanCategoryName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", ErrEmptyCategoryName
	}
	return name, nil
}

// ValidateColor accepts #rrggbb hex colors only.
func ValidateColor(s string) error {
	if !hexColor.MatchString(s) {
		return fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return nil
}
