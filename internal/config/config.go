// Package config loads and saves the YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the config file.
const (
	EnvAddr      = "AUTOTUBE_ADDR"
	EnvOutputDir = "AUTOTUBE_OUTPUT_DIR"
	EnvLogLevel  = "AUTOTUBE_LOG_LEVEL"
)

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	ArchiveExports  bool   `yaml:"archive_exports"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// PackDefaults holds the texts used for fields a pack request leaves empty.
type PackDefaults struct {
	Title         string   `yaml:"title"`
	Script        string   `yaml:"script"`
	Description   string   `yaml:"description"`
	Tags          []string `yaml:"tags"`
	ThumbnailText string   `yaml:"thumbnail_text"`
	Subtitles     string   `yaml:"subtitles"`
}

type Config struct {
	OutputDir string       `yaml:"output_dir"`
	LogLevel  string       `yaml:"log_level"`
	Server    ServerConfig `yaml:"server"`
	Retention struct {
		KeepLast int `yaml:"keep_last"`
	} `yaml:"retention"`
	Defaults PackDefaults `yaml:"defaults"`
}

func DefaultPackDefaults() PackDefaults {
	return PackDefaults{
		Title:         "AutoTube Pack",
		Script:        "Ornek senaryo metni burada.",
		Description:   "Bu video AutoTube AI tarafindan uretildi.",
		Tags:          []string{"youtube", "autotube", "ai"},
		ThumbnailText: "SOK EDICI GERCEKLER",
		Subtitles:     "1\n00:00:00,000 --> 00:00:05,000\nOrnek altyazi",
	}
}

// Complete fills every empty field of d from DefaultPackDefaults. A nil
// Tags takes the default tags; an empty, non-nil Tags is kept.
func (d PackDefaults) Complete() PackDefaults {
	def := DefaultPackDefaults()
	if d.Title == "" {
		d.Title = def.Title
	}
	if d.Script == "" {
		d.Script = def.Script
	}
	if d.Description == "" {
		d.Description = def.Description
	}
	if d.Tags == nil {
		d.Tags = def.Tags
	}
	if d.ThumbnailText == "" {
		d.ThumbnailText = def.ThumbnailText
	}
	if d.Subtitles == "" {
		d.Subtitles = def.Subtitles
	}
	return d
}

func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	cfg := &Config{
		OutputDir: filepath.Join(home, "autotube", "packs"),
		LogLevel:  "info",
		Server: ServerConfig{
			Addr:            ":8080",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: "10s",
		},
		Defaults: DefaultPackDefaults(),
	}
	cfg.Retention.KeepLast = 20
	return cfg, nil
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".autotube", "config.yaml"), nil
}

// Load reads the config file, falling back to defaults when it does not exist.
func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ShutdownTimeout parses Server.ShutdownTimeout, defaulting to 10s when unset or invalid.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding path: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
