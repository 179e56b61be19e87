// Package config loads client settings from defaults, an optional
// <state dir>/config.yaml, and MAYA_-prefixed environment variables, in
// increasing precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mayachat/maya-tui/client"
)

// Config holds everything tunable about the client.
type Config struct {
	BaseURL      string        // backend address
	StateDir     string        // credentials, config file, debug log
	Theme        string        // dark | light | neon
	Debug        bool          // write a zap log to <state dir>/maya.log
	PollInterval time.Duration // video job status cadence
	PacingMin    time.Duration // reply pacing window lower bound
	PacingJitter time.Duration // reply pacing window width
	GuestLimit   int           // messages before the sign-in gate
}

// DefaultStateDir is ~/.maya.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".maya"
	}
	return filepath.Join(home, ".maya")
}

// Load reads configuration. A missing config file is not an error.
func Load() (Config, error) {
	stateDir := DefaultStateDir()

	v := viper.New()
	v.SetDefault("base_url", client.DefaultBaseURL)
	v.SetDefault("state_dir", stateDir)
	v.SetDefault("theme", "neon")
	v.SetDefault("debug", false)
	v.SetDefault("poll_interval", 2*time.Second)
	v.SetDefault("pacing_min", 600*time.Millisecond)
	v.SetDefault("pacing_jitter", 300*time.Millisecond)
	v.SetDefault("guest_limit", 3)

	v.SetEnvPrefix("MAYA")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(stateDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		BaseURL:      v.GetString("base_url"),
		StateDir:     v.GetString("state_dir"),
		Theme:        v.GetString("theme"),
		Debug:        v.GetBool("debug"),
		PollInterval: v.GetDuration("poll_interval"),
		PacingMin:    v.GetDuration("pacing_min"),
		PacingJitter: v.GetDuration("pacing_jitter"),
		GuestLimit:   v.GetInt("guest_limit"),
	}, nil
}
