package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/config"
	"labyrinth/internal/logging"
	"labyrinth/internal/session"
	"labyrinth/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "labyrinth-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flag.StringVar(&cfg.LevelPath, "level", cfg.LevelPath, "TOML level file (built-in level when empty)")
	flag.StringVar(&cfg.ReplayDir, "replay", cfg.ReplayDir, "record a replay bundle under this directory")
	flag.BoolVar(&cfg.Mute, "mute", cfg.Mute, "disable sound")
	flag.Parse()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logger.Close()

	sess, err := session.New(cfg, session.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Error("replay close failed", logging.Error(err))
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	sound := tui.NewSound(cfg.Mute)
	defer sound.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("terminal frontend started", logging.String("level", sess.Sim().LevelName()))
	return tui.NewApp(screen, sess, sound).Run(ctx)
}
