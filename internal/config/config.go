// Package config handles YAML configuration loading, environment overrides
// and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"social-dl/internal/platform"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	Version string `yaml:"version"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	// RedisURL selects the shared Redis counter store; empty keeps counters in memory.
	RedisURL string `yaml:"redis_url"`
}

type ProvidersConfig struct {
	Timeout  time.Duration       `yaml:"timeout"`
	Order    map[string][]string `yaml:"order"`
	YtDlp    YtDlpConfig         `yaml:"ytdlp"`
	RapidAPI RapidAPIConfig      `yaml:"rapidapi"`
	Scraper  ScraperConfig       `yaml:"scraper"`
}

type YtDlpConfig struct {
	Binary             string `yaml:"binary"`
	CookiesFile        string `yaml:"cookies_file"`
	CookiesFromBrowser string `yaml:"cookies_from_browser"`
}

type RapidAPIConfig struct {
	Key      string  `yaml:"key"`
	Host     string  `yaml:"host"`
	Endpoint string  `yaml:"endpoint"`
	RPS      float64 `yaml:"rps"`
}

type ScraperConfig struct {
	UserAgent string  `yaml:"user_agent"`
	RPS       float64 `yaml:"rps"`
}

type ClassifierConfig struct {
	RateLimitStatus int `yaml:"rate_limit_status"`
	GenericStatus   int `yaml:"generic_status"`
}

// DefaultVersion seeds server.version when neither the file nor the
// environment sets it. The command line replaces it with the build version.
var DefaultVersion = "1.0.0"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3001, Version: DefaultVersion},
		Log:    LogConfig{Level: "info", Format: "text"},
		RateLimit: RateLimitConfig{
			Requests: 15,
			Window:   60 * time.Second,
		},
		Providers: ProvidersConfig{
			Timeout: 30 * time.Second,
			Order: map[string][]string{
				"youtube":   {"ytdlp", "youtube", "rapidapi"},
				"instagram": {"ytdlp", "rapidapi", "scraper"},
				"tiktok":    {"ytdlp", "rapidapi", "scraper"},
				"facebook":  {"ytdlp", "rapidapi", "scraper"},
			},
			YtDlp: YtDlpConfig{Binary: "yt-dlp"},
			RapidAPI: RapidAPIConfig{
				Host:     "social-media-video-downloader.p.rapidapi.com",
				Endpoint: "https://social-media-video-downloader.p.rapidapi.com/smvd/get/all",
				RPS:      1,
			},
			Scraper: ScraperConfig{RPS: 2},
		},
		Classifier: ClassifierConfig{RateLimitStatus: 429, GenericStatus: 422},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "social-dl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "social-dl"), nil
}

// Path returns the default path to the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load reads the config file at path (or the default path when empty),
// merges it over defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides values from the process environment.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.RateLimit.RedisURL = v
	}
	if v := getenv("RAPIDAPI_KEY"); v != "" {
		c.Providers.RapidAPI.Key = v
	}
	if v := getenv("RAPIDAPI_HOST"); v != "" {
		c.Providers.RapidAPI.Host = v
	}
	if v := getenv("YT_COOKIES_FILE"); v != "" {
		c.Providers.YtDlp.CookiesFile = v
	}
	if v := getenv("YT_COOKIES_BROWSER"); v != "" {
		c.Providers.YtDlp.CookiesFromBrowser = v
	}
	return nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported log format %q (valid: text, json)", c.Log.Format)
	}

	if c.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive")
	}
	for name, order := range c.Providers.Order {
		if !platform.Platform(name).IsSupported() {
			return fmt.Errorf("providers.order: unsupported platform %q", name)
		}
		if len(order) == 0 {
			return fmt.Errorf("providers.order.%s: at least one provider required", name)
		}
	}

	for key, status := range map[string]int{
		"rate_limit_status": c.Classifier.RateLimitStatus,
		"generic_status":    c.Classifier.GenericStatus,
	} {
		if status < 400 || status > 599 {
			return fmt.Errorf("classifier.%s must be a 4xx or 5xx status, got %d", key, status)
		}
	}
	return nil
}

// PlatformOrder converts the configured order to platform keys.
func (c *Config) PlatformOrder() map[platform.Platform][]string {
	order := make(map[platform.Platform][]string, len(c.Providers.Order))
	for name, names := range c.Providers.Order {
		order[platform.Platform(name)] = names
	}
	return order
}
