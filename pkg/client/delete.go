package client

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/pointer"
)

// Delete removes a message from the queue and, if the message was resolved
// from a pointer by this client, deletes the offloaded object as well.
//
// The queue delete and the object delete are independent: a failed queue
// delete returns the queue error and leaves the object (and the recorded
// association) in place for a retry. A failed object delete after the queue
// entry is gone returns *CleanupError, which callers may treat as advisory —
// the message is consumed, the object is an out-of-band leak. Deleting an
// absent object is a no-op.
func (c *Client) Delete(ctx context.Context, receiptHandle string) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("Delete", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	// Look up without consuming: if the queue delete fails the association
	// must survive for the caller's retry.
	c.mu.RLock()
	p, offloaded := c.pointers[receiptHandle]
	c.mu.RUnlock()

	if err = c.queue.Delete(ctx, receiptHandle); err != nil {
		return err
	}

	if !offloaded {
		return nil
	}

	c.takePointer(receiptHandle)
	err = c.cleanupObject(ctx, p, receiptHandle)
	return err
}

// DeleteWithBody removes a message using its raw wire body to locate any
// offloaded object, instead of this client's resolve-time state. This is the
// path for callers that received the message elsewhere (another process or a
// different client instance) but retained the raw body.
func (c *Client) DeleteWithBody(ctx context.Context, receiptHandle string, rawBody []byte) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("Delete", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	p, decErr := pointer.Decode(rawBody)
	if decErr != nil && !errors.Is(decErr, pointer.ErrNotAPointer) {
		// Corrupt envelope: the queue entry can still be removed, but there
		// is no recoverable object reference to clean up.
		logger.Warn("deleting message with corrupt pointer envelope, no cleanup possible",
			"receipt_handle", receiptHandle, "error", decErr)
	}

	if err = c.queue.Delete(ctx, receiptHandle); err != nil {
		return err
	}

	// Drop any resolve-time association too; the caller-supplied body wins.
	c.takePointer(receiptHandle)

	if decErr != nil {
		return nil
	}

	err = c.cleanupObject(ctx, p, receiptHandle)
	return err
}

// cleanupObject deletes the offloaded object backing an already-deleted
// queue entry.
func (c *Client) cleanupObject(ctx context.Context, p pointer.Pointer, receiptHandle string) error {
	if delErr := c.store.Delete(ctx, p.Bucket, p.Key); delErr != nil {
		if c.metrics != nil {
			c.metrics.RecordCleanupFailure()
		}
		logger.Warn("queue entry deleted but object cleanup failed",
			"bucket", p.Bucket, "key", p.Key, "error", delErr)
		return &CleanupError{
			Bucket:        p.Bucket,
			Key:           p.Key,
			ReceiptHandle: receiptHandle,
			Err:           delErr,
		}
	}

	logger.Debug("offloaded object deleted", "bucket", p.Bucket, "key", p.Key)
	return nil
}
