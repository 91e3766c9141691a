package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	objs3 "github.com/marmos91/bigsqs/pkg/objectstore/s3"
	"github.com/marmos91/bigsqs/pkg/queue"
)

// AWSOptions configures the AWS-backed construction paths. Queue and bucket
// identifiers are required; everything else has sensible defaults.
type AWSOptions struct {
	// QueueURL is the URL of the SQS queue (required).
	QueueURL string

	// Bucket is the S3 bucket for oversized payloads (required).
	Bucket string

	// Region selects the AWS region. Leave empty to use the environment or
	// shared-config region.
	Region string

	// SizeThreshold is the offload threshold in bytes (default: MaxMessageSize).
	SizeThreshold int64

	// KeyPrefix is an optional prefix for generated object keys.
	KeyPrefix string

	// WaitTimeSeconds enables SQS long polling when > 0.
	WaitTimeSeconds int32

	// Endpoint overrides the S3 endpoint (S3-compatible services).
	Endpoint string

	// ForcePathStyle uses path-style S3 addressing (required by some
	// S3-compatible services).
	ForcePathStyle bool

	// Metrics is an optional metrics collector.
	Metrics Metrics

	// StoreMetrics is an optional metrics collector for the S3 adapter.
	StoreMetrics objs3.Metrics
}

// NewFromAWSConfig creates a Client whose SQS and S3 clients share one
// resolved AWS configuration. This is the path for ambient credentials
// (environment, shared config, instance roles).
func NewFromAWSConfig(cfg aws.Config, opts AWSOptions) (*Client, error) {
	sqsClient := sqs.NewFromConfig(cfg)
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = &opts.Endpoint
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return newFromClients(sqsClient, s3Client, opts)
}

// NewFromDefaultCredentials creates a Client using the default AWS
// credential chain.
func NewFromDefaultCredentials(ctx context.Context, opts AWSOptions) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewFromAWSConfig(cfg, opts)
}

// NewWithStaticCredentials creates a Client from one explicit credential
// set shared by both backends.
func NewWithStaticCredentials(ctx context.Context, region, accessKeyID, secretAccessKey string, opts AWSOptions) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	sqsClient := sqs.NewFromConfig(cfg)
	s3Client, err := objs3.NewS3ClientFromConfig(ctx, opts.Endpoint, region, accessKeyID, secretAccessKey, opts.ForcePathStyle)
	if err != nil {
		return nil, err
	}

	return newFromClients(sqsClient, s3Client, opts)
}

// newFromClients wraps concrete SDK clients in the adapters and builds the
// Client. Separate SQS and S3 clients may come from different accounts or
// regions; the engine never branches on how they were constructed.
func newFromClients(sqsClient *sqs.Client, s3Client *s3.Client, opts AWSOptions) (*Client, error) {
	q, err := queue.NewSQSQueue(queue.SQSQueueConfig{
		Client:          sqsClient,
		QueueURL:        opts.QueueURL,
		WaitTimeSeconds: opts.WaitTimeSeconds,
	})
	if err != nil {
		return nil, err
	}

	store, err := objs3.NewS3Store(objs3.S3StoreConfig{
		Client:  s3Client,
		Metrics: opts.StoreMetrics,
	})
	if err != nil {
		return nil, err
	}

	return New(Options{
		Queue:         q,
		Store:         store,
		Bucket:        opts.Bucket,
		SizeThreshold: opts.SizeThreshold,
		KeyPrefix:     opts.KeyPrefix,
		Metrics:       opts.Metrics,
	})
}

// NewFromClients creates a Client from independently-configured SQS and S3
// clients (cross-account or cross-region use).
func NewFromClients(sqsClient *sqs.Client, s3Client *s3.Client, opts AWSOptions) (*Client, error) {
	if sqsClient == nil {
		return nil, fmt.Errorf("SQS client is required")
	}
	if s3Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	return newFromClients(sqsClient, s3Client, opts)
}
