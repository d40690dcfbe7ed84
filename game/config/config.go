// Package config loads the server settings file. Settings come from YAML
// with sane defaults for every field, so the server runs without any file at
// all; command line flags may override the listen address on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// animationDelays maps Animation.DelayLevel to the pause between playback
// ticks. Level 0 disables the pause without disabling stepwise playback.
var animationDelays = [...]time.Duration{
	0,
	15 * time.Millisecond,
	35 * time.Millisecond,
	60 * time.Millisecond,
}

// Settings is the full server configuration.
type Settings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// LevelsDir holds extra collection files next to the built-ins.
	// Empty means built-ins only.
	LevelsDir string `yaml:"levels_dir"`

	// DataDir is where sessions and the progress database live.
	DataDir string `yaml:"data_dir"`

	DefaultCollection string `yaml:"default_collection"`

	Animation Animation `yaml:"animation"`

	SessionMaxAgeHours int `yaml:"session_max_age_hours"`
}

// Animation controls move playback pacing.
type Animation struct {
	Enabled    bool `yaml:"enabled"`
	DelayLevel int  `yaml:"delay_level"`
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	return Settings{
		Host:               "",
		Port:               8080,
		LevelsDir:          "",
		DataDir:            "data",
		DefaultCollection:  "",
		Animation:          Animation{Enabled: false, DelayLevel: 2},
		SessionMaxAgeHours: 24,
	}
}

// Load reads settings from path. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (s *Settings) normalize() {
	s.Host = strings.TrimSpace(s.Host)
	s.LevelsDir = strings.TrimSpace(s.LevelsDir)
	s.DataDir = strings.TrimSpace(s.DataDir)
	s.DefaultCollection = strings.TrimSpace(s.DefaultCollection)
	if s.DataDir == "" {
		s.DataDir = "data"
	}
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.Animation.DelayLevel < 0 || s.Animation.DelayLevel >= len(animationDelays) {
		return fmt.Errorf("animation delay_level %d out of range (0-%d)",
			s.Animation.DelayLevel, len(animationDelays)-1)
	}
	if s.SessionMaxAgeHours < 0 {
		return fmt.Errorf("session_max_age_hours must not be negative")
	}
	return nil
}

// Addr returns the listen address as host:port.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionsDir is the directory for persisted sessions.
func (s Settings) SessionsDir() string {
	return filepath.Join(s.DataDir, "sessions")
}

// ProgressDB is the path of the progress database.
func (s Settings) ProgressDB() string {
	return filepath.Join(s.DataDir, "progress.db")
}

// SessionMaxAge returns the session expiry age, zero when expiry is off.
func (s Settings) SessionMaxAge() time.Duration {
	return time.Duration(s.SessionMaxAgeHours) * time.Hour
}

// Delay returns the pause between playback ticks for the configured level.
func (a Animation) Delay() time.Duration {
	if a.DelayLevel < 0 || a.DelayLevel >= len(animationDelays) {
		return animationDelays[len(animationDelays)-1]
	}
	return animationDelays[a.DelayLevel]
}
