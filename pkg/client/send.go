package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/pointer"
	"github.com/marmos91/bigsqs/pkg/queue"
)

// Send delivers a payload, offloading it to object storage when it exceeds
// the configured threshold.
//
// For a native send the queue's own result is returned unchanged. For an
// offloaded send the payload is stored first (store-before-send: the queue
// never references an unstored object), then the pointer envelope is
// enqueued; the returned SendResult's MD5 and length are recomputed over the
// original payload, not the envelope.
//
// A failed store aborts the send with a *StoreError and nothing is enqueued.
// A failed enqueue after a successful store leaves the stored object
// orphaned; no rollback is attempted (other implementations of this wire
// protocol behave the same way) and the orphaned location is logged at WARN.
func (c *Client) Send(ctx context.Context, payload []byte) (res queue.SendResult, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("Send", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return queue.SendResult{}, err
	}

	if !c.policy.ShouldOffload(payload) {
		return c.queue.Send(ctx, payload)
	}

	key := c.keyPrefix + uuid.NewString()

	if putErr := c.store.Put(ctx, c.bucket, key, payload); putErr != nil {
		err = &StoreError{Bucket: c.bucket, Key: key, Err: putErr}
		return queue.SendResult{}, err
	}

	envelope, encErr := pointer.Encode(pointer.Pointer{Bucket: c.bucket, Key: key})
	if encErr != nil {
		// Unreachable with a valid config; surface it rather than enqueue garbage.
		err = fmt.Errorf("failed to encode pointer for %s/%s: %w", c.bucket, key, encErr)
		return queue.SendResult{}, err
	}

	res, err = c.queue.Send(ctx, envelope)
	if err != nil {
		logger.Warn("queue send failed after successful store, object orphaned",
			"bucket", c.bucket, "key", key, "error", err)
		return queue.SendResult{}, err
	}

	if c.metrics != nil {
		c.metrics.RecordOffload(int64(len(payload)))
	}
	logger.Debug("payload offloaded", "bucket", c.bucket, "key", key,
		"payload_bytes", len(payload), "threshold", c.policy.Threshold)

	// Report the payload the caller logically sent, not the envelope.
	return queue.SendResult{
		MessageID:  res.MessageID,
		BodyMD5:    md5Hex(payload),
		BodyLength: int64(len(payload)),
	}, nil
}

// SendBatch delivers several payloads in order, applying the same offload
// decision to each. The first failure aborts the batch and returns the
// results of the sends that already succeeded.
func (c *Client) SendBatch(ctx context.Context, payloads [][]byte) ([]queue.SendResult, error) {
	results := make([]queue.SendResult, 0, len(payloads))
	for i, payload := range payloads {
		res, err := c.Send(ctx, payload)
		if err != nil {
			return results, fmt.Errorf("batch send failed at payload %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}
