package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Quiz struct {
		TTL           string `yaml:"ttl"`
		QuestionsFile string `yaml:"questions_file"`
	} `yaml:"quiz"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
}

// Default returns the settings used when no config file exists. Storage.Driver is left
// empty and resolved by Load.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "release"
	cfg.SQLite.Path = "data/quiz.db"
	cfg.Quiz.TTL = "10m"
	cfg.Quiz.QuestionsFile = "config/questions.txt"
	cfg.Auth.JWTSecret = "change-me"
	cfg.Auth.TokenTTL = "24h"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.Storage.Driver == "" {
		// a postgres url alone selects postgres
		cfg.Storage.Driver = DriverMemory
		if cfg.Postgres.URL != "" {
			cfg.Storage.Driver = DriverPostgres
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks that the selected storage driver has what it needs.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres url not configured")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite path not configured")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt_secret must not be empty")
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
