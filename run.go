package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focus/internal/clock"
	"github.com/sadopc/focus/internal/model"
	"github.com/sadopc/focus/internal/stats"
	"github.com/sadopc/focus/internal/store"
	"github.com/sadopc/focus/internal/timer"
)

var errNoCategory = errors.New("no category to record against")

func newRunCmd(g *globalFlags) *cobra.Command {
	var mode, category string
	var cycles int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a timer in the terminal without the UI",
		Long: "Run a focus timer on the wall clock. Free mode counts up until interrupted;\n" +
			"pomodoro and custom modes alternate focus and break for --cycles focus phases.\n" +
			"Interrupting saves the current focus time when it reaches the minimum length.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := timer.ParseMode(mode)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runSession(ctx, s, sessionOptions{
				Mode:              m,
				Category:          category,
				Cycles:            cycles,
				MinSessionSeconds: cfg.MinSessionSeconds,
				Bell:              cfg.Bell,
				Interval:          time.Second,
				Out:               cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "pomodoro", "timer mode: free|pomodoro|custom")
	cmd.Flags().StringVar(&category, "category", "", "category to record against (default: the selected one)")
	cmd.Flags().IntVar(&cycles, "cycles", 1, "focus phases to complete before exiting (timed modes)")
	return cmd
}

type sessionOptions struct {
	Mode              timer.Mode
	Category          string
	Cycles            int
	MinSessionSeconds int64
	Bell              bool
	Interval          time.Duration
	Out               io.Writer
	Now               func() time.Time
}

// runSession drives one engine on the wall clock until ctx is cancelled or
// the requested focus phases have completed. All engine calls run on the
// loop goroutine, which is the caller's.
func runSession(ctx context.Context, s *store.Store, opts sessionOptions) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cycles < 1 {
		opts.Cycles = 1
	}
	if opts.Category != "" {
		if err := s.SelectCategory(opts.Category); err != nil {
			return err
		}
	}
	cat, ok := s.SelectedCategory()
	if !ok {
		return errNoCategory
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := clock.NewLoop(0)
	wall := clock.NewWall(opts.Interval, loop)

	var (
		engine    *timer.Engine
		completed int
		saveErr   error
	)
	bell := ""
	if opts.Bell {
		bell = "\a"
	}
	record := func(secs int64) {
		sess, err := s.RecordSession(cat.Name, secs, opts.Now().Format(model.DateLayout))
		if err != nil {
			saveErr = err
			cancel()
			return
		}
		fmt.Fprintf(opts.Out, "\rsaved %s of %s (streak %d)\n", stats.FormatDuration(sess.DurationSeconds), cat.Name, s.State().Streak)
	}

	st := s.State()
	engine = timer.New(wall,
		timer.WithCustomMinutes(st.PomodoroWorkMinutes, st.PomodoroBreakMinutes),
		timer.WithDisplay(func(d string) {
			fmt.Fprintf(opts.Out, "\r%s %s", engine.Phase(), d)
		}),
		timer.WithPhaseComplete(func(res timer.TickResult) {
			fmt.Fprint(opts.Out, bell)
			if res.Phase == timer.PhaseWork {
				record(int64(res.Elapsed))
				completed++
				if completed >= opts.Cycles {
					cancel()
					return
				}
			}
			engine.NextPhase()
			engine.Start()
		}),
	)

	fmt.Fprintf(opts.Out, "%s on %s, ctrl+c to stop\n", opts.Mode, cat.Name)
	loop.Post(func() {
		engine.SetMode(opts.Mode)
		engine.Start()
	})
	loop.Run(ctx)

	// The loop has returned; the engine is ours again.
	engine.Stop()
	if saveErr != nil {
		return saveErr
	}
	if engine.Phase() == timer.PhaseWork && completed < opts.Cycles {
		elapsed := int64(engine.Elapsed())
		switch {
		case elapsed == 0:
		case elapsed < opts.MinSessionSeconds:
			fmt.Fprintf(opts.Out, "\rsession under %s not saved\n", stats.FormatDuration(opts.MinSessionSeconds))
		default:
			record(elapsed)
		}
	}
	return saveErr
}
