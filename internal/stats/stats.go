// Package stats aggregates recorded sessions and maintains the daily streak.
// Aggregations are read-only; UpdateStreak is the only function that writes
// to the state.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/focus/internal/model"
)

type Aggregator struct {
	state *model.AppState
	now   func() time.Time
}

type Option func(*Aggregator)

// WithNow overrides the clock used to determine "today".
func WithNow(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func New(state *model.AppState, opts ...Option) *Aggregator {
	a := &Aggregator{state: state, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Today returns the current local calendar date.
func (a *Aggregator) Today() string {
	return a.now().Format(model.DateLayout)
}

func (a *Aggregator) TodayTotal() int64 {
	today := a.Today()
	var total int64
	for _, s := range a.state.Sessions {
		if s.Date == today {
			total += s.DurationSeconds
		}
	}
	return total
}

// LastNDaysTotal sums sessions dated within the last n days, today included.
// Sessions with unparseable dates are skipped.
func (a *Aggregator) LastNDaysTotal(n int) int64 {
	if n <= 0 {
		return 0
	}
	today := dayOf(a.now())
	start := today.AddDate(0, 0, -(n - 1))

	var total int64
	for _, s := range a.state.Sessions {
		d, err := time.Parse(model.DateLayout, s.Date)
		if err != nil {
			continue
		}
		if !d.Before(start) {
			total += s.DurationSeconds
		}
	}
	return total
}

func (a *Aggregator) WeekTotal() int64  { return a.LastNDaysTotal(7) }
func (a *Aggregator) MonthTotal() int64 { return a.LastNDaysTotal(30) }

func (a *Aggregator) AllTimeTotal() int64 {
	var total int64
	for _, s := range a.state.Sessions {
		total += s.DurationSeconds
	}
	return total
}

// CategoryTotals maps every category name found in sessions, including
// names of removed categories, to its summed duration.
func (a *Aggregator) CategoryTotals() map[string]int64 {
	totals := make(map[string]int64)
	for _, s := range a.state.Sessions {
		totals[s.Category] += s.DurationSeconds
	}
	return totals
}

type CategoryTotal struct {
	Name    string
	Color   string
	Seconds int64
	Removed bool // no longer in the category list
}

// SortedCategoryTotals returns CategoryTotals ordered by duration, largest
// first, ties broken by name.
func (a *Aggregator) SortedCategoryTotals() []CategoryTotal {
	totals := a.CategoryTotals()
	out := make([]CategoryTotal, 0, len(totals))
	for name, secs := range totals {
		_, exists := a.state.Category(name)
		out = append(out, CategoryTotal{
			Name:    name,
			Color:   a.state.ColorOf(name),
			Seconds: secs,
			Removed: !exists,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DayTotal is one day's time split by category.
type DayTotal struct {
	Date       string
	Total      int64
	ByCategory map[string]int64
}

// DailyTotals returns one entry per day for the last n days, oldest first.
func (a *Aggregator) DailyTotals(n int) []DayTotal {
	if n <= 0 {
		return nil
	}
	today := dayOf(a.now())
	days := make([]DayTotal, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		date := today.AddDate(0, 0, i-(n-1)).Format(model.DateLayout)
		days[i] = DayTotal{Date: date, ByCategory: map[string]int64{}}
		index[date] = i
	}
	for _, s := range a.state.Sessions {
		i, ok := index[s.Date]
		if !ok {
			continue
		}
		days[i].Total += s.DurationSeconds
		days[i].ByCategory[s.Category] += s.DurationSeconds
	}
	return days
}

// FormatDuration renders "{h}h {m}m" for an hour or more, otherwise "{m}m".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
