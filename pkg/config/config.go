// Package config loads engine runtime settings from a YAML file and the
// environment. File values override defaults; environment variables
// (VARMODEL_ prefix) override the file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFileName is the config file name looked up in the working
// directory when no explicit path is given.
const DefaultFileName = "varmodel.yaml"

// EnvPrefix is the prefix for environment overrides, e.g.
// VARMODEL_MODEL_PATH for model_path.
const EnvPrefix = "VARMODEL_"

// Config holds the engine runtime settings.
type Config struct {
	// ModelPath is the model persistence file.
	ModelPath string `koanf:"model_path"`

	// EventLogPath is the CBOR event log file; empty disables file logging.
	EventLogPath string `koanf:"event_log_path"`

	// FastTick drives post-boot cleanup and pending-save flushing.
	FastTick time.Duration `koanf:"fast_tick"`

	// SlowTick drives the telemetry handler refresh.
	SlowTick time.Duration `koanf:"slow_tick"`

	// DevMode enables the diagnostic variables (showObsolete).
	DevMode bool `koanf:"dev_mode"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ModelPath: "model.json",
		FastTick:  20 * time.Millisecond,
		SlowTick:  time.Second,
	}
}

// Load reads settings from the given YAML file (may be "", meaning
// varmodel.yaml in the working directory if present) and the environment.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults := Default()
	_ = k.Load(confmap.Provider(map[string]any{
		"model_path":     defaults.ModelPath,
		"event_log_path": defaults.EventLogPath,
		"fast_tick":      defaults.FastTick,
		"slow_tick":      defaults.SlowTick,
		"dev_mode":       defaults.DevMode,
	}, "."), nil)

	if path == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	// VARMODEL_MODEL_PATH -> model_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
