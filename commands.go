package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focus/internal/export"
	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
	"github.com/sadopc/focus/internal/store"
)

// withStore loads the config, opens the store and closes it after fn.
func withStore(g *globalFlags, fn func(*store.Store) error) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newStatsCmd(g *globalFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals, streak and time per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(s *store.Store) error {
				printStats(cmd.OutOrStdout(), s.State(), time.Now, days)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days to list in the daily breakdown")
	return cmd
}

func printStats(w io.Writer, st *model.AppState, now func() time.Time, days int) {
	agg := stats.New(st, stats.WithNow(now))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Today\t%s\n", stats.FormatDuration(agg.TodayTotal()))
	fmt.Fprintf(tw, "Week\t%s\n", stats.FormatDuration(agg.WeekTotal()))
	fmt.Fprintf(tw, "Month\t%s\n", stats.FormatDuration(agg.MonthTotal()))
	fmt.Fprintf(tw, "All time\t%s\n", stats.FormatDuration(agg.AllTimeTotal()))
	fmt.Fprintf(tw, "Streak\t%d\n", st.Streak)
	tw.Flush()

	if totals := agg.SortedCategoryTotals(); len(totals) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tTOTAL")
		for _, t := range totals {
			name := t.Name
			if t.Removed {
				name += " (removed)"
			}
			fmt.Fprintf(tw, "%s\t%s\n", name, stats.FormatDuration(t.Seconds))
		}
		tw.Flush()
	}

	if days > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTOTAL")
		for _, d := range agg.DailyTotals(days) {
			fmt.Fprintf(tw, "%s\t%s\n", d.Date, stats.FormatDuration(d.Total))
		}
		tw.Flush()
	}
}

func newCategoriesCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List, add or remove categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(s *store.Store) error {
				printCategories(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	var color string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(g, func(s *store.Store) error {
				if color == "" {
					color = model.PaletteColor(len(s.State().Categories))
				}
				c, err := s.AddCategory(args[0], color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", c.Name, c.Color)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&color, "color", "", "hex color (default: next palette color)")

	removeCmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a category; its sessions are kept",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(g, func(s *store.Store) error {
				if err := s.RemoveCategory(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <name>",
		Short: "Select the category new sessions are recorded against",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(g, func(s *store.Store) error {
				return s.SelectCategory(args[0])
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE:  cmd.RunE,
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd, selectCmd)
	return cmd
}

func printCategories(w io.Writer, s *store.Store) {
	selected, _ := s.SelectedCategory()
	totals := stats.New(s.State()).CategoryTotals()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tCOLOR\tTOTAL")
	for _, c := range s.State().Categories {
		marker := ""
		if c.Name == selected.Name {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, c.Name, c.Color, stats.FormatDuration(totals[c.Name]))
	}
	tw.Flush()
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions to " + strings.Join(export.Formats, ", "),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(s *store.Store) error {
				path := out
				if path == "" {
					home, err := os.UserHomeDir()
					if err != nil {
						return fmt.Errorf("resolve home dir: %w", err)
					}
					path = filepath.Join(home, fmt.Sprintf("focus-export-%s.%s", time.Now().Format(model.DateLayout), format))
				}
				st := s.State()
				if err := export.Write(format, st.Sessions, st.Categories, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", len(st.Sessions), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format: "+strings.Join(export.Formats, "|"))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ~/focus-export-DATE.FORMAT)")
	return cmd
}

func newSettingsCmd(g *globalFlags) *cobra.Command {
	var work, brk, theme string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the custom timer and theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(g, func(s *store.Store) error {
				if err := applySettings(s, work, brk, theme); err != nil {
					return err
				}
				st := s.State()
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Custom focus\t%d min\n", st.PomodoroWorkMinutes)
				fmt.Fprintf(tw, "Custom break\t%d min\n", st.PomodoroBreakMinutes)
				fmt.Fprintf(tw, "Theme\t%s\n", st.Theme)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&work, "work", "", fmt.Sprintf("custom focus minutes (%d-%d)", model.MinWorkMinutes, model.MaxWorkMinutes))
	cmd.Flags().StringVar(&brk, "break", "", fmt.Sprintf("custom break minutes (%d-%d)", model.MinBreakMinutes, model.MaxBreakMinutes))
	cmd.Flags().StringVar(&theme, "theme", "", "light|dark")
	return cmd
}

// applySettings validates every given value before changing any of them.
func applySettings(s *store.Store, work, brk, theme string) error {
	st := s.State()
	w, b := st.PomodoroWorkMinutes, st.PomodoroBreakMinutes
	var err error
	if work != "" {
		if w, err = model.ParseWorkMinutes(work); err != nil {
			return err
		}
	}
	if brk != "" {
		if b, err = model.ParseBreakMinutes(brk); err != nil {
			return err
		}
	}
	var t model.Theme
	if theme != "" {
		if t, err = model.ParseTheme(theme); err != nil {
			return err
		}
	}

	if work != "" || brk != "" {
		if err := s.SetTimerMinutes(w, b); err != nil {
			return err
		}
	}
	if t != "" {
		return s.SetTheme(t)
	}
	return nil
}
