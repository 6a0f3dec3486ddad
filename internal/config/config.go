package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the server looks for its YAML config when the
// -config flag is not given.
const DefaultConfigPath = "config.yml"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int         `yaml:"port"`
	Env            string      `yaml:"env"` // "development" | "production"
	DSN            string      `yaml:"dsn"` // MySQL DSN
	RedisURL       string      `yaml:"redis_url"`
	Media          MediaConfig `yaml:"media"`
	FetchTimeout   int         `yaml:"fetch_timeout_seconds"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
}

// MediaConfig controls where localized images are stored and how they are
// addressed publicly.
type MediaConfig struct {
	Root           string `yaml:"root"`
	URL            string `yaml:"url"`
	MaxImageWidth  int    `yaml:"max_image_width"`
	MaxImageHeight int    `yaml:"max_image_height"`
}

// Load reads and normalizes the YAML config at path. A missing file yields
// the defaults so the server can boot against env-provided DSNs in dev.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	normalize(cfg)
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Port:         3333,
		Env:          "development",
		FetchTimeout: 20,
		Media: MediaConfig{
			Root:           "media",
			URL:            "/media/",
			MaxImageWidth:  1200,
			MaxImageHeight: 1200,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if dsn := strings.TrimSpace(os.Getenv("DRAFTIN_DSN")); dsn != "" {
		cfg.DSN = dsn
	}
	if u := strings.TrimSpace(os.Getenv("DRAFTIN_REDIS_URL")); u != "" {
		cfg.RedisURL = u
	}
	if env := strings.TrimSpace(os.Getenv("DRAFTIN_ENV")); env != "" {
		cfg.Env = env
	}
}

func normalize(cfg *AppConfig) {
	if cfg.Port <= 0 {
		cfg.Port = 3333
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20
	}
	if cfg.Media.Root == "" {
		cfg.Media.Root = "media"
	}
	cfg.Media.Root = filepath.Clean(cfg.Media.Root)
	if cfg.Media.URL == "" {
		cfg.Media.URL = "/media/"
	}
	if !strings.HasSuffix(cfg.Media.URL, "/") {
		cfg.Media.URL += "/"
	}
	if cfg.Media.MaxImageWidth <= 0 {
		cfg.Media.MaxImageWidth = 1200
	}
	if cfg.Media.MaxImageHeight <= 0 {
		cfg.Media.MaxImageHeight = 1200
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = "development"
	}
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// FetchTimeoutDuration returns the outbound HTTP timeout as a time.Duration.
func (c *AppConfig) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}
