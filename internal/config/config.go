package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Catalog CatalogConfig `yaml:"catalog"`
	Events  EventsConfig  `yaml:"events"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	// RateLimit is requests per minute per client; 0 disables it.
	RateLimit int `yaml:"rate_limit"`
}

// DatasetConfig lists every place a dataset may come from. Sources are
// tried in the order payload, secrets file, database, file.
type DatasetConfig struct {
	EntityColumn string `yaml:"entity_column"`
	Payload      string `yaml:"payload"`
	PayloadEnv   string `yaml:"payload_env"`
	SecretsFile  string `yaml:"secrets_file"`
	Path         string `yaml:"path"`
	PostgresURL  string `yaml:"postgres_url"`
	SQLDriver    string `yaml:"sql_driver"`
	SQLDSN       string `yaml:"sql_dsn"`
	Table        string `yaml:"table"`
	Sheet        string `yaml:"sheet"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"`
	ReloadSubject string `yaml:"reload_subject"`
	LoadedSubject string `yaml:"loaded_subject"`
}

type RenderConfig struct {
	Baseline  bool `yaml:"baseline"`
	PNGWidth  int  `yaml:"png_width"`
	PNGHeight int  `yaml:"png_height"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Dataset: DatasetConfig{
			EntityColumn: "Faculty",
			PayloadEnv:   "FACULTYDASH_DATA",
			SecretsFile:  ".streamlit/secrets.toml",
			Path:         "Faculty_Comparison_of_Z-Scores.csv",
			SQLDriver:    "sqlite",
			Table:        "faculty_scores",
		},
		Events: EventsConfig{
			ReloadSubject: "faculty.dataset.reload",
			LoadedSubject: "faculty.dataset.loaded",
		},
		Render: RenderConfig{
			Baseline:  true,
			PNGWidth:  1200,
			PNGHeight: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FACULTYDASH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("FACULTYDASH_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("FACULTYDASH_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("FACULTYDASH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("FACULTYDASH_ENTITY_COLUMN"); v != "" {
		cfg.Dataset.EntityColumn = v
	}
	if v := os.Getenv("FACULTYDASH_SECRETS_FILE"); v != "" {
		cfg.Dataset.SecretsFile = v
	}
	if v := os.Getenv("FACULTYDASH_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("FACULTYDASH_POSTGRES_URL"); v != "" {
		cfg.Dataset.PostgresURL = v
	}
	if v := os.Getenv("FACULTYDASH_SQL_DRIVER"); v != "" {
		cfg.Dataset.SQLDriver = v
	}
	if v := os.Getenv("FACULTYDASH_SQL_DSN"); v != "" {
		cfg.Dataset.SQLDSN = v
	}
	if v := os.Getenv("FACULTYDASH_TABLE"); v != "" {
		cfg.Dataset.Table = v
	}
	if v := os.Getenv("FACULTYDASH_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("FACULTYDASH_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("FACULTYDASH_RENDER_BASELINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Render.Baseline = b
		}
	}
	if v := os.Getenv("FACULTYDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FACULTYDASH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// InlinePayload returns the configured payload, falling back to the
// environment variable named by PayloadEnv.
func (d DatasetConfig) InlinePayload() string {
	if d.Payload != "" {
		return d.Payload
	}
	if d.PayloadEnv != "" {
		return os.Getenv(d.PayloadEnv)
	}
	return ""
}
