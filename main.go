package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/focus/internal/config"
	"github.com/sadopc/focus/internal/store"
	"github.com/sadopc/focus/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "focus: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dataPath   string
	storage    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "focus",
		Short:         "Focus timer with categories, streaks and stats",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(&g)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&g.dataPath, "data", "", "data file, overrides the config")
	root.PersistentFlags().StringVar(&g.storage, "storage", "", "storage backend: json|sqlite")

	root.AddCommand(newTUICmd(&g))
	root.AddCommand(newRunCmd(&g))
	root.AddCommand(newStatsCmd(&g))
	root.AddCommand(newCategoriesCmd(&g))
	root.AddCommand(newExportCmd(&g))
	root.AddCommand(newSettingsCmd(&g))
	return root
}

func newTUICmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI (default)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(g)
		},
	}
}

// loadConfig applies command-line overrides on top of the config file.
func loadConfig(g *globalFlags) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.storage != "" {
		if err := cfg.SetStorage(g.storage); err != nil {
			return config.Config{}, err
		}
	}
	cfg.SetDataPath(g.dataPath)
	return cfg, nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	gw, err := store.Open(cfg.Storage, cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	return store.New(gw), nil
}

func runTUI(g *globalFlags) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	// The UI owns the terminal, so log lines go to a file instead.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "focus")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	log.Printf("loaded %d sessions from %s", len(s.State().Sessions), cfg.DataPath)

	app := tui.NewApp(s, tui.Options{
		Bell:              cfg.Bell,
		MinSessionSeconds: cfg.MinSessionSeconds,
		DataPath:          cfg.DataPath,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
