package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. QUIZ_REDIS_ADDR.
// Fields of the quiz section sit directly under it, e.g. QUIZ_SYNONYMS.
const EnvPrefix = "QUIZ_"

type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"PORT"`
		ReadTimeout  string `yaml:"read_timeout" env:"READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADDR"`
		Password string `yaml:"password" env:"PASSWORD"`
		DB       int    `yaml:"db" env:"DB"`
		// TTL expires idle sessions. Empty or 0 keeps them indefinitely.
		TTL      string `yaml:"ttl" env:"TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	Postgres struct {
		URL string `yaml:"url" env:"URL"`
	} `yaml:"postgres" envPrefix:"POSTGRES_"`
	SQLite struct {
		Path string `yaml:"path" env:"PATH"`
	} `yaml:"sqlite" envPrefix:"SQLITE_"`
	Quiz struct {
		Synonyms      string `yaml:"synonyms" env:"SYNONYMS"`
		ResetUnknown  string `yaml:"reset_unknown" env:"RESET_UNKNOWN"`
		AdvanceOnView bool   `yaml:"advance_on_view" env:"ADVANCE_ON_VIEW"`
		CatalogTTL    string `yaml:"catalog_ttl" env:"CATALOG_TTL"`
	} `yaml:"quiz"`
	RateLimit struct {
		RPS   float64 `yaml:"rps" env:"RPS"`
		Burst int     `yaml:"burst" env:"BURST"`
	} `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Log struct {
		Level  string `yaml:"level" env:"LEVEL"`
		Format string `yaml:"format" env:"FORMAT"`
	} `yaml:"log" envPrefix:"LOG_"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = "15s"
	cfg.Server.WriteTimeout = "15s"
	cfg.Quiz.Synonyms = "compat"
	cfg.Quiz.ResetUnknown = "login"
	cfg.Quiz.AdvanceOnView = true
	cfg.Quiz.CatalogTTL = "10m"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of Default, then applies a .env
// file from the working directory and QUIZ_* environment variables. A missing
// config file or .env is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the service cannot act on.
func (c Config) Validate() error {
	switch strings.ToLower(c.Quiz.Synonyms) {
	case "", "compat", "symmetric":
	default:
		return fmt.Errorf("quiz.synonyms: unknown mode %q", c.Quiz.Synonyms)
	}
	switch strings.ToLower(c.Quiz.ResetUnknown) {
	case "", "login", "noop":
	default:
		return fmt.Errorf("quiz.reset_unknown: unknown policy %q", c.Quiz.ResetUnknown)
	}
	if c.Redis.TTL != "" {
		ttl, err := time.ParseDuration(c.Redis.TTL)
		if err != nil {
			return fmt.Errorf("redis.ttl: %w", err)
		}
		if ttl < 0 {
			return errors.New("redis.ttl: must not be negative")
		}
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit: rps and burst must not be negative")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
