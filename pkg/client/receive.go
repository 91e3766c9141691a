package client

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/pointer"
	"github.com/marmos91/bigsqs/pkg/queue"
)

// ReceivedMessage is a queue message after pointer resolution.
//
// For a resolved message, Body, BodyMD5 and BodyLength describe the logical
// payload and are indistinguishable from a native send of the same bytes;
// the receipt handle is the original one, so Delete works unchanged.
//
// When Err is non-nil the entry could not be resolved: Body still holds the
// wire body and Err carries a *ResolveError or *pointer.CorruptPointerError.
// Callers decide per message whether to retry or delete-and-skip.
type ReceivedMessage struct {
	queue.Message

	// Pointer is non-nil when the wire body was a pointer envelope.
	Pointer *pointer.Pointer

	// Err marks this entry as unresolved. Never set for literal payloads.
	Err error
}

// Receive fetches up to max raw messages and resolves any pointer bodies
// from object storage.
//
// Resolution is per message: a corrupt envelope or a failed object fetch
// marks only that entry, never the batch, and no entry is silently dropped.
// Message order is the order the queue returned. The returned error is only
// non-nil when the queue receive itself fails.
func (c *Client) Receive(ctx context.Context, max int) (msgs []ReceivedMessage, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveOperation("Receive", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := c.queue.Receive(ctx, max)
	if err != nil {
		return nil, err
	}

	msgs = make([]ReceivedMessage, 0, len(raw))
	for _, m := range raw {
		msgs = append(msgs, c.resolve(ctx, m))
	}
	return msgs, nil
}

// resolve turns one raw message into a ReceivedMessage, fetching the payload
// from object storage when the body is a pointer envelope.
func (c *Client) resolve(ctx context.Context, m queue.Message) ReceivedMessage {
	p, decErr := pointer.Decode(m.Body)
	if decErr != nil {
		if errors.Is(decErr, pointer.ErrNotAPointer) {
			// Literal payload: the queue's own metadata already describes it.
			return ReceivedMessage{Message: m}
		}

		// Claims to be a pointer but cannot be parsed.
		logger.Warn("corrupt pointer envelope received",
			"message_id", m.MessageID, "error", decErr)
		return ReceivedMessage{Message: m, Err: decErr}
	}

	// Record the association before fetching so a delete-and-skip after a
	// failed resolve still cleans up the object.
	c.rememberPointer(m.ReceiptHandle, p)

	payload, getErr := c.store.Get(ctx, p.Bucket, p.Key)
	if getErr != nil {
		logger.Warn("failed to resolve offloaded payload",
			"bucket", p.Bucket, "key", p.Key, "message_id", m.MessageID, "error", getErr)
		return ReceivedMessage{
			Message: m,
			Pointer: &p,
			Err: &ResolveError{
				Bucket:        p.Bucket,
				Key:           p.Key,
				ReceiptHandle: m.ReceiptHandle,
				Err:           getErr,
			},
		}
	}

	if c.metrics != nil {
		c.metrics.RecordResolve(int64(len(payload)))
	}
	logger.Debug("payload resolved", "bucket", p.Bucket, "key", p.Key,
		"payload_bytes", len(payload))

	resolved := m
	resolved.Body = payload
	resolved.BodyMD5 = md5Hex(payload)
	resolved.BodyLength = int64(len(payload))

	return ReceivedMessage{Message: resolved, Pointer: &p}
}
