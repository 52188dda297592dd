// Package config loads and saves vidgrab settings from a yaml file under
// the user's config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yml"

// Config holds all vidgrab settings.
type Config struct {
	// HTTP service
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// external tool
	YtdlpPath string `yaml:"ytdlp_path"`
	// ProbeTTLSeconds caches the tool availability check; 0 probes per request
	ProbeTTLSeconds int `yaml:"probe_ttl_seconds"`

	// download staging
	ScratchDir        string `yaml:"scratch_dir"`
	SweepIntervalMins int    `yaml:"sweep_interval_mins"`
	MaxFileAgeMins    int    `yaml:"max_file_age_mins"`

	// saved-video history
	HistoryDB string `yaml:"history_db"`

	// bearer token -> account id, for the history routes
	Tokens map[string]string `yaml:"tokens"`

	// CLI defaults
	OutputDir string `yaml:"output_dir"`
	Quality   string `yaml:"quality"`
	Format    string `yaml:"format"`
}

func Default() Config {
	return Config{
		Host:              "0.0.0.0",
		Port:              5000,
		YtdlpPath:         "yt-dlp",
		ProbeTTLSeconds:   30,
		ScratchDir:        filepath.Join(os.TempDir(), "vidgrab"),
		SweepIntervalMins: 5,
		MaxFileAgeMins:    15,
		Quality:           "best",
		Format:            "mp4",
	}
}

// ConfigDir returns the vidgrab config directory, creating nothing.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "vidgrab"), nil
}

// SavePath returns the config file path, or "" if the config dir cannot
// be resolved.
func SavePath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// Exists reports whether a config file has been written.
func Exists() bool {
	path := SavePath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// LoadFile reads a config from an explicit path, layered over defaults.
// The PORT environment variable, when set, overrides the configured port.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadOrDefault reads the user's config file, falling back to defaults
// (plus env overrides) when it is absent or unreadable.
func LoadOrDefault() Config {
	cfg, err := LoadFile(SavePath())
	if err != nil {
		cfg = Default()
		applyEnv(&cfg)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
}

// SaveTo writes the config to an explicit path, creating parent
// directories as needed.
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Save writes the config to the default location.
func (c Config) Save() error {
	path := SavePath()
	if path == "" {
		return fmt.Errorf("config dir unavailable")
	}
	return c.SaveTo(path)
}

// Addr returns the listen address for the HTTP service.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
