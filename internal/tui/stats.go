package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
	"github.com/sadopc/focus/internal/store"
)

// Chart ranges, in days, cycled with the mode key.
var chartRanges = []int{7, 14}

type statsModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	rangeIdx int
	share    progress.Model
}

func newStatsModel(s *store.Store, now func() time.Time) statsModel {
	return statsModel{
		store: s,
		now:   now,
		share: progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithWidth(24)),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) days() int {
	return chartRanges[r.rangeIdx]
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Mode) {
		r.rangeIdx = (r.rangeIdx + 1) % len(chartRanges)
	}
	return r, nil
}

func (r statsModel) view() string {
	w := r.width - 4
	agg := stats.New(r.store.State(), stats.WithNow(r.now))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(fmt.Sprintf("last %d days", r.days())),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			r.renderTotals(agg), "",
			r.renderChart(agg), "",
			r.renderCategoryTable(agg, w), "",
			mutedStyle.Render("  m: chart range"),
		),
	)
}

func (r statsModel) renderTotals(agg *stats.Aggregator) string {
	cell := func(label string, secs int64) string {
		return fmt.Sprintf("%s %s", mutedStyle.Render(label), highlightStyle.Render(stats.FormatDuration(secs)))
	}
	return strings.Join([]string{
		"  " + cell("Today", agg.TodayTotal()),
		cell("Week", agg.WeekTotal()),
		cell("Month", agg.MonthTotal()),
		cell("All time", agg.AllTimeTotal()),
		fmt.Sprintf("%s %s", mutedStyle.Render("Streak"), accentStyle.Render(fmt.Sprint(r.store.State().Streak))),
	}, "   ")
}

// renderChart draws one bar per day, stacked by category, in minutes.
func (r statsModel) renderChart(agg *stats.Aggregator) string {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	st := r.store.State()
	chart := barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range agg.DailyTotals(r.days()) {
		label := day.Date
		if d, err := time.Parse(model.DateLayout, day.Date); err == nil {
			label = d.Format("Mon 02")
			if r.days() > 7 {
				label = d.Format("02")
			}
		}

		var values []barchart.BarValue
		for _, c := range sortedKeys(day.ByCategory) {
			values = append(values, barchart.BarValue{
				Name:  c,
				Value: float64(day.ByCategory[c]) / 60,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(st.ColorOf(c))),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func (r statsModel) renderCategoryTable(agg *stats.Aggregator, w int) string {
	totals := agg.SortedCategoryTotals()
	if len(totals) == 0 {
		return mutedStyle.Render("  No sessions recorded yet")
	}
	all := agg.AllTimeTotal()

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-22s %10s  %s", "Category", "Total", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 60)))))

	for _, t := range totals {
		name := t.Name
		if t.Removed {
			name += " (removed)"
		}
		share := 0.0
		if all > 0 {
			share = float64(t.Seconds) / float64(all)
		}
		rows = append(rows, fmt.Sprintf("  %s %-20s %10s  %s",
			dot(t.Color), name, stats.FormatDuration(t.Seconds), r.share.ViewAs(share)))
	}
	return strings.Join(rows, "\n")
}

func sortedKeys(m map[string]int64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
