package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLogLevel controls verbosity for game logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written. The terminal
	// belongs to the frontend, so logs never go to stdout.
	DefaultLogPath = "logs/labyrinth.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 10
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 3

	// DefaultMaxDT clamps a single frame step after a stall.
	DefaultMaxDT = 100 * time.Millisecond
)

// Config captures runtime settings shared by the frontends.
type Config struct {
	Logging LoggingConfig

	// LevelPath points at a TOML level file. Empty selects the built-in level.
	LevelPath string
	// ReplayDir enables replay recording into a new bundle under this directory.
	ReplayDir string
	Mute      bool
	MaxDT     time.Duration
}

// LoggingConfig captures structured logging options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// Load reads configuration from LABYRINTH_* environment variables, applying
// defaults and collecting every invalid override into one error.
func Load() (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:      getString("LABYRINTH_LOG_LEVEL", DefaultLogLevel),
			Path:       getString("LABYRINTH_LOG_PATH", DefaultLogPath),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
		LevelPath: strings.TrimSpace(os.Getenv("LABYRINTH_LEVEL_PATH")),
		ReplayDir: strings.TrimSpace(os.Getenv("LABYRINTH_REPLAY_DIR")),
		MaxDT:     DefaultMaxDT,
	}

	var problems []string

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("LABYRINTH_LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.Logging.Level))
	}

	if raw := strings.TrimSpace(os.Getenv("LABYRINTH_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("LABYRINTH_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LABYRINTH_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("LABYRINTH_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LABYRINTH_MUTE")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("LABYRINTH_MUTE must be a boolean value, got %q", raw))
		} else {
			cfg.Mute = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LABYRINTH_MAX_DT")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("LABYRINTH_MAX_DT must be a positive duration, got %q", raw))
		} else {
			cfg.MaxDT = duration
		}
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

// MaxStep returns MaxDT in seconds, the unit the simulation steps in.
func (c *Config) MaxStep() float64 {
	return c.MaxDT.Seconds()
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
