package stats

import (
	"time"

	"github.com/sadopc/focus/internal/model"
)

// NextStreak computes the streak after a session logged on today, given the
// current streak and the date of the previous session.
//
// A gap of one day extends the streak, a longer gap restarts it at 1 and a
// second session on the same day leaves it unchanged. A today earlier than
// last (clock moved backwards) also leaves it unchanged. An unreadable last
// date counts as no previous session.
func NextStreak(streak int, last, today string) int {
	if last == "" {
		return 1
	}
	lastDay, err := time.Parse(model.DateLayout, last)
	if err != nil {
		return 1
	}
	todayDay, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return streak
	}

	days := int(todayDay.Sub(lastDay).Hours() / 24)
	switch {
	case days == 1:
		return streak + 1
	case days > 1:
		return 1
	default:
		return streak
	}
}

// UpdateStreak applies NextStreak to the state using its current
// LastSessionDate. The caller sets LastSessionDate afterwards.
func UpdateStreak(state *model.AppState, today string) {
	state.Streak = NextStreak(state.Streak, state.LastSessionDate, today)
}
