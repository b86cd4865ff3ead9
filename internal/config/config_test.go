package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envVars = []string{
	"FACULTYDASH_PORT", "FACULTYDASH_METRICS_PORT", "FACULTYDASH_ADMIN_TOKEN",
	"FACULTYDASH_ENTITY_COLUMN", "FACULTYDASH_SECRETS_FILE", "FACULTYDASH_DATASET_PATH",
	"FACULTYDASH_POSTGRES_URL", "FACULTYDASH_SQL_DRIVER", "FACULTYDASH_SQL_DSN",
	"FACULTYDASH_TABLE", "FACULTYDASH_CATALOG_PATH", "FACULTYDASH_NATS_URL",
	"FACULTYDASH_RENDER_BASELINE", "FACULTYDASH_LOG_LEVEL", "FACULTYDASH_LOG_FORMAT",
	"FACULTYDASH_DATA",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.EntityColumn != "Faculty" {
		t.Errorf("expected entity column Faculty, got %s", cfg.Dataset.EntityColumn)
	}
	if cfg.Dataset.Path != "Faculty_Comparison_of_Z-Scores.csv" {
		t.Errorf("unexpected dataset path %s", cfg.Dataset.Path)
	}
	if cfg.Dataset.SecretsFile != ".streamlit/secrets.toml" {
		t.Errorf("unexpected secrets file %s", cfg.Dataset.SecretsFile)
	}
	if cfg.Dataset.PayloadEnv != "FACULTYDASH_DATA" {
		t.Errorf("unexpected payload env %s", cfg.Dataset.PayloadEnv)
	}
	if cfg.Events.NATSURL != "" {
		t.Errorf("expected events disabled by default, got %s", cfg.Events.NATSURL)
	}
	if cfg.Events.ReloadSubject != "faculty.dataset.reload" {
		t.Errorf("unexpected reload subject %s", cfg.Events.ReloadSubject)
	}
	if !cfg.Render.Baseline {
		t.Error("expected baseline enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACULTYDASH_PORT", "9000")
	t.Setenv("FACULTYDASH_METRICS_PORT", "9001")
	t.Setenv("FACULTYDASH_ADMIN_TOKEN", "secret-token")
	t.Setenv("FACULTYDASH_POSTGRES_URL", "postgres://localhost/faculty")
	t.Setenv("FACULTYDASH_NATS_URL", "nats://nats:4222")
	t.Setenv("FACULTYDASH_RENDER_BASELINE", "false")
	t.Setenv("FACULTYDASH_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Dataset.PostgresURL != "postgres://localhost/faculty" {
		t.Errorf("expected postgres URL, got '%s'", cfg.Dataset.PostgresURL)
	}
	if cfg.Events.NATSURL != "nats://nats:4222" {
		t.Errorf("expected nats URL, got '%s'", cfg.Events.NATSURL)
	}
	if cfg.Render.Baseline {
		t.Error("expected baseline disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("FACULTYDASH_PORT", "not-a-port")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("expected default port to survive, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: 8080
dataset:
  path: data/scores.parquet
  entity_column: Department
render:
  baseline: false
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Dataset.Path != "data/scores.parquet" {
		t.Errorf("unexpected path %s", cfg.Dataset.Path)
	}
	if cfg.Dataset.EntityColumn != "Department" {
		t.Errorf("unexpected entity column %s", cfg.Dataset.EntityColumn)
	}
	if cfg.Render.Baseline {
		t.Error("expected baseline disabled from file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInlinePayload(t *testing.T) {
	clearEnv(t)
	d := DatasetConfig{PayloadEnv: "FACULTYDASH_DATA"}
	if got := d.InlinePayload(); got != "" {
		t.Errorf("expected empty payload, got %q", got)
	}

	t.Setenv("FACULTYDASH_DATA", "[]")
	if got := d.InlinePayload(); got != "[]" {
		t.Errorf("expected env payload, got %q", got)
	}

	d.Payload = "inline"
	if got := d.InlinePayload(); got != "inline" {
		t.Errorf("expected config payload to win, got %q", got)
	}
}
