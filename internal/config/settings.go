package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings tunes a run. Priority: environment > file > defaults.
type Settings struct {
	Robots           int                `yaml:"robots" validate:"gte=0"`
	Seed             int64              `yaml:"seed"`
	VisibilityRadius int                `yaml:"visibility_radius" validate:"gte=0,lte=64"`
	MaxSteps         int                `yaml:"max_steps" validate:"gte=0"`
	LogLevel         string             `yaml:"log_level" validate:"oneof=debug info warn error"`
	Costs            map[string]float64 `yaml:"costs,omitempty" validate:"dive,gte=0"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Robots:           50,
		Seed:             1,
		VisibilityRadius: 2,
		MaxSteps:         10000,
		LogLevel:         "info",
	}
}

// LoadSettings starts from defaults, overlays path when non-empty, then the
// GRIDSIM_* environment, and validates the result.
func LoadSettings(path string) (Settings, error) {
	st := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return st, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &st); err != nil {
			return st, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	loadSettingsFromEnv(&st)
	if err := st.Validate(); err != nil {
		return st, err
	}
	return st, nil
}

func loadSettingsFromEnv(st *Settings) {
	if v := os.Getenv("GRIDSIM_ROBOTS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			st.Robots = i
		}
	}
	if v := os.Getenv("GRIDSIM_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			st.Seed = i
		}
	}
	if v := os.Getenv("GRIDSIM_VISIBILITY_RADIUS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			st.VisibilityRadius = i
		}
	}
	if v := os.Getenv("GRIDSIM_MAX_STEPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			st.MaxSteps = i
		}
	}
	if v := os.Getenv("GRIDSIM_LOG_LEVEL"); v != "" {
		st.LogLevel = strings.ToLower(v)
	}
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values give Info.
func (s Settings) SlogLevel() slog.Level {
	return ParseLevel(s.LogLevel)
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
