package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nhle/noticeboard/internal/app"
	"github.com/nhle/noticeboard/internal/auth"
	"github.com/nhle/noticeboard/internal/credential"
	"github.com/nhle/noticeboard/internal/logging"
	"github.com/nhle/noticeboard/internal/model"
	"github.com/nhle/noticeboard/internal/push"
	"github.com/nhle/noticeboard/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("noticeboard", pflag.ContinueOnError)

	var configPath, logLevel string
	fs.StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the YAML configuration file")
	fs.StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := logging.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logging.Sync() // best effort

	log := logging.WithModule("bootstrap")

	if cfg.Push.DeviceID == "" {
		cfg.Push.DeviceID = uuid.NewString()
		if err := model.SaveConfig(configPath, cfg); err != nil {
			log.Warn("persisting device id", zap.Error(err))
		} else {
			log.Info("generated device id", zap.String("device_id", cfg.Push.DeviceID))
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	creds, err := credential.Open()
	if err != nil {
		return err
	}
	gate := auth.NewGate(creds)

	provider := newProvider(cfg.Push, gate)
	if err := provider.Start(ctx); err != nil {
		// The list still works from local history without a live provider.
		log.Warn("push provider unavailable", zap.String("provider", cfg.Push.Provider), zap.Error(err))
	}
	defer provider.Close()

	root := app.New(app.Deps{
		Store:      s,
		Provider:   provider,
		Gate:       gate,
		Logger:     logging.Logger(),
		TimeFormat: cfg.Display.TimeFormat,
	})

	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func newProvider(cfg model.PushConfig, gate *auth.Gate) push.Service {
	logger := logging.WithModule("push")
	if cfg.Provider == model.ProviderWebSocket {
		return push.NewWSProvider(cfg.URL, cfg.DeviceID, gate.Token, logger)
	}
	return push.NewSpoolProvider(cfg.SpoolDir, logger)
}
