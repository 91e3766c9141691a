// Package commands implements the bigsqs command-line interface.
package commands

import (
	"context"
	"fmt"

	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/client"
	"github.com/marmos91/bigsqs/pkg/config"
	"github.com/marmos91/bigsqs/pkg/metrics"
	"github.com/spf13/cobra"
)

// Version information, set by main from ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "bigsqs",
	Short: "SQS client for messages larger than the queue limit",
	Long: `bigsqs sends, receives and deletes SQS messages of any size.

Payloads above the configured threshold are stored in S3 and replaced on the
wire with a pointer envelope compatible with the AWS Java extended client;
receiving resolves pointers transparently and deleting cleans up both the
queue entry and the S3 object.

Configuration is read from --config (YAML) with BIGSQS_* environment
variable overrides, e.g. BIGSQS_QUEUE_URL and BIGSQS_BUCKET_NAME.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (YAML)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(receiveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads and validates configuration, then initializes the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildClient constructs the offload client from configuration.
func buildClient(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	opts := client.AWSOptions{
		QueueURL:        cfg.Queue.URL,
		Region:          cfg.AWS.Region,
		Bucket:          cfg.Bucket.Name,
		SizeThreshold:   int64(cfg.SizeThreshold),
		KeyPrefix:       cfg.Bucket.KeyPrefix,
		WaitTimeSeconds: cfg.Queue.WaitTimeSeconds,
		Endpoint:        cfg.AWS.Endpoint,
		ForcePathStyle:  cfg.AWS.ForcePathStyle,
		Metrics:         metrics.NewClientMetrics(),
		StoreMetrics:    metrics.NewStoreMetrics(),
	}

	if cfg.AWS.AccessKeyID != "" {
		return client.NewWithStaticCredentials(ctx, cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, opts)
	}
	return client.NewFromDefaultCredentials(ctx, opts)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bigsqs %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}
