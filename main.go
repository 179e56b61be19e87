package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mayachat/maya-tui/app"
	"github.com/mayachat/maya-tui/auth"
	"github.com/mayachat/maya-tui/client"
	"github.com/mayachat/maya-tui/config"
	"github.com/mayachat/maya-tui/session"
	"github.com/mayachat/maya-tui/style"
)

var version = "dev"

func main() {
	var (
		baseURLFlag  string
		stateDirFlag string
		themeFlag    string
		debugFlag    bool
		noColor      bool
	)

	root := &cobra.Command{
		Use:     "maya",
		Short:   "Terminal chat client for the Maya companion backend",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if baseURLFlag != "" {
				cfg.BaseURL = baseURLFlag
			}
			if stateDirFlag != "" {
				cfg.StateDir = stateDirFlag
			}
			if themeFlag != "" {
				cfg.Theme = themeFlag
			}
			if debugFlag {
				cfg.Debug = true
			}
			lipgloss.SetColorProfile(colorProfile(noColor))
			return run(cfg)
		},
	}

	root.Flags().StringVar(&baseURLFlag, "url", "", "backend base URL (default "+client.DefaultBaseURL+")")
	root.Flags().StringVar(&stateDirFlag, "state-dir", "", "directory for credentials, config and logs (default ~/.maya)")
	root.Flags().StringVar(&themeFlag, "theme", "", "color theme: neon, dark, light")
	root.Flags().BoolVar(&debugFlag, "debug", false, "write a debug log to the state directory")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "maya: %v\n", err)
		os.Exit(1)
	}
}

// colorProfile picks the terminal profile: Ascii strips all color when the
// user asked for none, otherwise the detected profile stands.
func colorProfile(noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	return lipgloss.ColorProfile()
}

func run(cfg config.Config) error {
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	style.SetTheme(cfg.Theme)

	api := client.New(cfg.BaseURL, log)
	store := auth.NewFileStore(cfg.StateDir)
	authState := auth.New(api, store, log)

	ctrl := session.NewController(session.Options{
		Gateway:      api,
		Jobs:         api,
		Auth:         authState,
		Logger:       log,
		PollInterval: cfg.PollInterval,
		PacingMin:    cfg.PacingMin,
		PacingJitter: cfg.PacingJitter,
		GuestLimit:   cfg.GuestLimit,
	})
	defer ctrl.Close()

	m := app.New(ctrl, authState, version, cfg.BaseURL, cfg.GuestLimit, log)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		p.Send(app.ProgramReady{Program: p})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newLogger writes to <state dir>/maya.log in debug mode; a TUI cannot share
// stderr with the renderer, so without debug the logger is a no-op.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{filepath.Join(cfg.StateDir, "maya.log")}
	zc.ErrorOutputPaths = zc.OutputPaths
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}
