// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, loaded from YAML with
// environment overrides on top.
type Config struct {
	Mode string `yaml:"mode"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DB struct {
		Driver string `yaml:"driver"` // "postgres" or "sqlite"
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`
	Telemetry struct {
		OTLPEndpoint string `yaml:"otlp_endpoint"`
	} `yaml:"telemetry"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Notification struct {
		EmailDomain string `yaml:"email_domain"`
	} `yaml:"notification"`
}

// Load reads the YAML file at path and applies environment overrides.
// A missing file is not an error; defaults and the environment are
// enough to run the local sqlite mode.
func Load(path string) (*Config, error) {
	cfg := defaults()

	buf, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{Mode: "dev"}
	cfg.HTTP.Addr = ":8080"
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = "file:libris.db"
	cfg.NATS.Subject = "libris.notifications"
	cfg.Auth.JWTSecret = "dev-secret-change-in-prod"
	cfg.Notification.EmailDomain = "school.edu"
	return cfg
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.HTTP.Addr = ":" + v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		cfg.DB.Driver = "postgres"
		cfg.DB.DSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("NATS_URL"); ok {
		cfg.NATS.URL = v
	}
	if v, ok := os.LookupEnv("OTLP_ENDPOINT"); ok {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.Auth.JWTSecret = v
	}
}
