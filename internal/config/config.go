package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Profile struct {
		URL string `yaml:"url"`
		// CacheTTL bounds how stale a user's repetition limit may be.
		CacheTTL string `yaml:"cache_ttl"`
		// DefaultMaxRepetitions applies when no profile service is
		// configured. Zero means unlimited.
		DefaultMaxRepetitions int `yaml:"default_max_repetitions"`
	} `yaml:"profile"`
	Copy struct {
		Limit  int    `yaml:"limit"`
		Window string `yaml:"window"`
	} `yaml:"copy"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	// Maintenance flips the whole API to 503 while the health check stays up.
	// It is read once per process start and passed down explicitly.
	Maintenance bool `yaml:"maintenance"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// CopyQuota returns the clone limit and window with sane defaults.
func (c Config) CopyQuota() (int, time.Duration) {
	limit := c.Copy.Limit
	if limit <= 0 {
		limit = 5
	}
	return limit, Duration(c.Copy.Window, time.Hour)
}
