// Package main provides the CLI entrypoint for bclicker.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linux-brat/BClicker/internal/audio"
	"github.com/linux-brat/BClicker/internal/config"
	"github.com/linux-brat/BClicker/internal/engine"
	"github.com/linux-brat/BClicker/internal/eventmux"
	"github.com/linux-brat/BClicker/internal/hotkey"
	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/inject"
	"github.com/linux-brat/BClicker/internal/notify"
	"github.com/linux-brat/BClicker/internal/store"
	"github.com/linux-brat/BClicker/internal/tray"
	"github.com/linux-brat/BClicker/internal/ui"
)

var version = "dev"

const recentSessions = 10

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bclicker",
		Short:         "Terminal auto clicker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAppCmd,
	}

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runAppCmd(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfgPath := config.DefaultConfigPath()
	cfg := config.Load(cfgPath, logger)

	h := hub.New(cfg.RateConfig(), cfg.Target(), cfg.StatisticsModel())
	sessionStart := time.Now()
	h.BeginSession(sessionStart)

	injector, err := inject.New()
	if err != nil {
		logErrf("Click injection unavailable: %v\n", err)
		injector = inject.Noop{}
	}
	defer func() {
		if cerr := injector.Close(); cerr != nil {
			logger.Debug("injector close failed", "err", cerr)
		}
	}()

	var notifier notify.Notifier
	if n, nerr := notify.New(logger); nerr != nil {
		logger.Warn("desktop notifications unavailable", "err", nerr)
		notifier = notify.Noop{}
	} else {
		notifier = n
	}
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			logger.Debug("notifier close failed", "err", cerr)
		}
	}()

	player := audio.New(cfg.SoundEnabled, logger)
	indicator := tray.NewLogIndicator(logger)

	eng := engine.New(h, injector, player, indicator, logger)
	defer eng.Stop()

	var listener *hotkey.Listener
	if provider, herr := hotkey.New(); herr != nil {
		logErrf("Global hotkey unavailable: %v\n", herr)
	} else if rerr := provider.Register(cfg.ToggleKeybind); rerr != nil {
		logErrf("Global hotkey registration failed: %v\n", rerr)
		if cerr := provider.Close(); cerr != nil {
			logger.Debug("hotkey provider close failed", "err", cerr)
		}
	} else {
		listener = hotkey.NewListener(provider, h, logger)
		defer func() {
			listener.Stop()
			if cerr := provider.Close(); cerr != nil {
				logger.Debug("hotkey provider close failed", "err", cerr)
			}
		}()
	}

	history, serr := store.Open(config.DefaultDBPath())
	if serr != nil {
		logger.Warn("session history unavailable", "err", serr)
		history = nil
	} else {
		defer func() {
			if cerr := history.Close(); cerr != nil {
				logger.Debug("history close failed", "err", cerr)
			}
		}()
	}

	queue := eventmux.NewQueue()

	var app *ui.App
	flush := func() {
		out := cfg
		out.SoundEnabled = player.Enabled()
		if app != nil {
			out.ToggleKeybind = app.Combo()
		}
		out.ApplyRuntime(h.Rate(), h.Target(), h.Stats())
		if err := config.Save(cfgPath, out); err != nil {
			logger.Warn("config save failed", "err", err)
		}
	}
	app = ui.NewApp(h, player, notifier, cfg.ToggleKeybind, flush, logger)

	snapshot := func() ui.Snapshot {
		return ui.Snapshot{
			Mode:       app.Mode(),
			Running:    h.Running(),
			Visible:    h.Visible(),
			Rate:       h.Rate(),
			Target:     h.Target(),
			Stats:      h.Stats(),
			Combo:      app.Combo(),
			AudioOn:    player.Enabled(),
			RateBuffer: app.RateBuffer(),
			HelpScroll: app.HelpScroll(),
		}
	}

	loop := ui.NewLoop(app, queue, snapshot)
	// Producers start only after the terminal is owned; a raw-mode
	// failure must abort before any background goroutine exists.
	runErr := loop.Run(func() {
		eventmux.StartKeyboardProducer(queue, os.Stdin)
		eventmux.StartTickProducer(queue, eventmux.TickInterval)
		go eng.Run()
		if listener != nil {
			go listener.Run()
		}
	})

	sessionEnd := time.Now()
	h.SetSessionDuration(sessionEnd.Sub(sessionStart))
	flush()
	recordSession(history, h, sessionStart, sessionEnd, logger)

	return runErr
}

func recordSession(history *store.Store, h *hub.Hub, start, end time.Time, logger *slog.Logger) {
	if history == nil {
		return
	}
	stats := h.Stats()
	duration := end.Sub(start).Seconds()
	avg := 0.0
	if duration > 0 {
		avg = float64(stats.SessionClicks) / duration
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := history.InsertSession(ctx, store.SessionRecord{
		StartedAt: start,
		EndedAt:   end,
		Clicks:    stats.SessionClicks,
		AvgCPS:    avg,
		Rate:      h.CurrentRate(),
		Button:    h.Target(),
	})
	if err != nil {
		logger.Warn("failed to record session", "err", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime statistics and recent sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg := config.Load(config.DefaultConfigPath(), logger)

	fmt.Printf("Total clicks:   %d\n", cfg.Statistics.TotalClicks)
	fmt.Printf("Total sessions: %d\n", cfg.Statistics.TotalSessions)
	if cfg.Statistics.LastSessionStart > 0 {
		fmt.Printf("Last session:   %s\n",
			time.Unix(cfg.Statistics.LastSessionStart, 0).Format(time.RFC1123))
	}

	history, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open session history: %w", err)
	}
	defer func() {
		if cerr := history.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sessions, err := history.ListSessions(ctx, recentSessions)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("\nNo recorded sessions yet.")
		return nil
	}

	fmt.Printf("\n%-20s %10s %8s %6s %-12s\n", "ENDED", "CLICKS", "AVG CPS", "RATE", "BUTTON")
	for _, s := range sessions {
		fmt.Printf("%-20s %10d %8.1f %6d %-12s\n",
			s.EndedAt.Local().Format("2006-01-02 15:04:05"),
			s.Clicks, s.AvgCPS, s.Rate, s.Button)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("bclicker %s\n", version)
		},
	}
}

// newLogger keeps the debug log away from the raw terminal. Set DEBUG=1
// to stream it to stderr.
func newLogger() *slog.Logger {
	if strings.TrimSpace(os.Getenv("DEBUG")) == "1" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
