package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"labyrinth/internal/config"
	"labyrinth/internal/game"
	"labyrinth/internal/logging"
)

func init() {
	// glfw and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "labyrinth: %v\n", err)
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
	flag.BoolVar(&cfg.Mute, "mute", cfg.Mute, "start with sound muted")
	flag.Parse()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logger.Close()

	return game.RunDesktop(cfg, logger)
}
