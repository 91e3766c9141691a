// Package config loads bigsqs configuration for the CLI and for embedders
// that prefer file-based setup over programmatic construction.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (BIGSQS_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/marmos91/bigsqs/internal/bytesize"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures everything needed to construct an offload client.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// AWS configures credentials and endpoints shared by both backends.
	// Leave AccessKeyID empty to use the default credential chain.
	AWS AWSConfig `mapstructure:"aws"`

	// Queue identifies the SQS queue.
	Queue QueueConfig `mapstructure:"queue"`

	// Bucket identifies the S3 bucket for oversized payloads.
	Bucket BucketConfig `mapstructure:"bucket"`

	// SizeThreshold is the payload size above which offload kicks in.
	// Accepts human-readable values like "256Ki". Defaults to the SQS
	// message size limit.
	SizeThreshold bytesize.ByteSize `mapstructure:"size_threshold"`

	// Metrics enables the Prometheus registry.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // DEBUG, INFO, WARN, ERROR
	Format string `mapstructure:"format"` // text, json
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

// AWSConfig holds credential and endpoint settings.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// Endpoint overrides the S3 endpoint for S3-compatible services.
	Endpoint string `mapstructure:"endpoint"`

	// ForcePathStyle uses path-style S3 addressing.
	ForcePathStyle bool `mapstructure:"force_path_style"`
}

// QueueConfig identifies the queue.
type QueueConfig struct {
	URL string `mapstructure:"url"`

	// WaitTimeSeconds enables SQS long polling when > 0 (max 20).
	WaitTimeSeconds int32 `mapstructure:"wait_time_seconds"`
}

// BucketConfig identifies the overflow bucket.
type BucketConfig struct {
	Name string `mapstructure:"name"`

	// KeyPrefix namespaces generated object keys within the bucket.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("queue.wait_time_seconds", 20)
	v.SetDefault("size_threshold", "256Ki")
	v.SetDefault("metrics.enabled", false)

	// Register the remaining keys so environment-only overrides are seen by
	// Unmarshal (viper resolves env vars per known key).
	v.SetDefault("queue.url", "")
	v.SetDefault("bucket.name", "")
	v.SetDefault("bucket.key_prefix", "")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.force_path_style", false)
}

// byteSizeDecodeHook decodes string or integer config values into ByteSize.
func byteSizeDecodeHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(bytesize.ByteSize(0)) {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return bytesize.ParseByteSize(v)
	case int:
		return bytesize.ByteSize(v), nil
	case int64:
		return bytesize.ByteSize(v), nil
	default:
		return data, nil
	}
}

// Load reads configuration from the given file path, applying environment
// overrides and defaults. A missing file is not an error; defaults and
// environment variables alone can form a complete configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BIGSQS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	var cfg Config
	decodeOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeOpt); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete enough to build a
// client.
func (c *Config) Validate() error {
	if c.Queue.URL == "" {
		return fmt.Errorf("queue.url is required")
	}
	if c.Bucket.Name == "" {
		return fmt.Errorf("bucket.name is required")
	}
	if c.Queue.WaitTimeSeconds < 0 || c.Queue.WaitTimeSeconds > 20 {
		return fmt.Errorf("queue.wait_time_seconds must be between 0 and 20, got %d", c.Queue.WaitTimeSeconds)
	}
	return nil
}
