package queue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSQueue implements Queue on top of Amazon SQS.
//
// The adapter is bound to one queue URL and translates between the SDK's
// response model and the adapter types. SQS errors pass through wrapped but
// not reinterpreted; the offload client attributes them to the right
// operation. Safe for concurrent use (the underlying SDK client is).
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
	waitTime int32
}

// SQSQueueConfig contains configuration for the SQS queue adapter.
type SQSQueueConfig struct {
	// Client is the configured SQS client.
	Client *sqs.Client

	// QueueURL is the URL of the queue to operate on.
	QueueURL string

	// WaitTimeSeconds enables long polling on Receive when > 0.
	// SQS caps this at 20 seconds.
	WaitTimeSeconds int32
}

// NewSQSQueue creates an SQS-backed queue adapter.
func NewSQSQueue(cfg SQSQueueConfig) (*SQSQueue, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("SQS client is required")
	}
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("queue URL is required")
	}
	if cfg.WaitTimeSeconds < 0 || cfg.WaitTimeSeconds > 20 {
		return nil, fmt.Errorf("wait time must be between 0 and 20 seconds, got %d", cfg.WaitTimeSeconds)
	}

	return &SQSQueue{
		client:   cfg.Client,
		queueURL: cfg.QueueURL,
		waitTime: cfg.WaitTimeSeconds,
	}, nil
}

// Send enqueues the body on SQS.
func (q *SQSQueue) Send(ctx context.Context, body []byte) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return SendResult{
		MessageID:  aws.ToString(out.MessageId),
		BodyMD5:    aws.ToString(out.MD5OfMessageBody),
		BodyLength: int64(len(body)),
	}, nil
}

// Receive fetches up to max messages from SQS, long-polling when configured.
func (q *SQSQueue) Receive(ctx context.Context, max int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// SQS allows at most 10 messages per request.
	if max < 1 {
		max = 1
	}
	if max > 10 {
		max = 10
	}

	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: int32(max),
		WaitTimeSeconds:     q.waitTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from SQS: %w", err)
	}

	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		body := []byte(aws.ToString(m.Body))
		messages = append(messages, Message{
			MessageID:     aws.ToString(m.MessageId),
			Body:          body,
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			BodyMD5:       aws.ToString(m.MD5OfBody),
			BodyLength:    int64(len(body)),
		})
	}

	return messages, nil
}

// Delete removes a delivery from SQS.
func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from SQS: %w", err)
	}

	return nil
}
