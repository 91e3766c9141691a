package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/bigsqs/internal/bytesize"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format text, got %q", cfg.Logging.Format)
	}
	if cfg.SizeThreshold != 256*bytesize.KiB {
		t.Errorf("Expected default threshold 256Ki, got %d", cfg.SizeThreshold)
	}
	if cfg.Queue.WaitTimeSeconds != 20 {
		t.Errorf("Expected default wait time 20, got %d", cfg.Queue.WaitTimeSeconds)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "DEBUG"
  format: "json"

aws:
  region: "eu-west-1"

queue:
  url: "https://sqs.eu-west-1.amazonaws.com/123456789012/jobs"
  wait_time_seconds: 5

bucket:
  name: "jobs-overflow"
  key_prefix: "jobs/"

size_threshold: "128Ki"

metrics:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("Expected region eu-west-1, got %q", cfg.AWS.Region)
	}
	if cfg.Queue.URL != "https://sqs.eu-west-1.amazonaws.com/123456789012/jobs" {
		t.Errorf("Unexpected queue URL: %q", cfg.Queue.URL)
	}
	if cfg.Queue.WaitTimeSeconds != 5 {
		t.Errorf("Expected wait time 5, got %d", cfg.Queue.WaitTimeSeconds)
	}
	if cfg.Bucket.Name != "jobs-overflow" {
		t.Errorf("Expected bucket jobs-overflow, got %q", cfg.Bucket.Name)
	}
	if cfg.Bucket.KeyPrefix != "jobs/" {
		t.Errorf("Expected key prefix jobs/, got %q", cfg.Bucket.KeyPrefix)
	}
	if cfg.SizeThreshold != 128*bytesize.KiB {
		t.Errorf("Expected threshold 128Ki, got %d", cfg.SizeThreshold)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Complete config failed validation: %v", err)
	}
}

func TestLoad_IntegerThreshold(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
size_threshold: 262144
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SizeThreshold != 262144 {
		t.Errorf("Expected threshold 262144, got %d", cfg.SizeThreshold)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.SizeThreshold != 256*bytesize.KiB {
		t.Errorf("Expected default threshold, got %d", cfg.SizeThreshold)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("queue:\n  url: [[[\n bad"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BIGSQS_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/000000000000/from-env")
	t.Setenv("BIGSQS_BUCKET_NAME", "env-bucket")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Queue.URL != "https://sqs.us-east-1.amazonaws.com/000000000000/from-env" {
		t.Errorf("Environment override not applied, got %q", cfg.Queue.URL)
	}
	if cfg.Bucket.Name != "env-bucket" {
		t.Errorf("Environment override not applied, got %q", cfg.Bucket.Name)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing queue URL")
	}

	cfg.Queue.URL = "https://sqs.us-east-1.amazonaws.com/000000000000/q"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing bucket name")
	}

	cfg.Bucket.Name = "b"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Complete config failed validation: %v", err)
	}

	cfg.Queue.WaitTimeSeconds = 21
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for out-of-range wait time")
	}
}
