// Package memory provides an in-memory Queue implementation.
//
// It mirrors the metadata SQS computes natively (MD5 over the wire body,
// body length) so the offload client behaves identically against it. Used by
// the test suite; also useful for embedders that want to exercise the
// protocol without a real queue.
package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/marmos91/bigsqs/pkg/queue"
)

type entry struct {
	messageID     string
	body          []byte
	receiptHandle string
}

// MemoryQueue is a FIFO in-memory queue. Received messages stay in flight
// until deleted; a subsequent Receive does not redeliver them. Safe for
// concurrent use.
type MemoryQueue struct {
	mu       sync.Mutex
	pending  []entry
	inflight map[string]entry // keyed by receipt handle
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		inflight: make(map[string]entry),
	}
}

// Send appends a message and returns SQS-shaped metadata for it.
func (q *MemoryQueue) Send(ctx context.Context, body []byte) (queue.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return queue.SendResult{}, err
	}

	stored := make([]byte, len(body))
	copy(stored, body)

	e := entry{
		messageID: uuid.NewString(),
		body:      stored,
	}

	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()

	sum := md5.Sum(body)
	return queue.SendResult{
		MessageID:  e.messageID,
		BodyMD5:    hex.EncodeToString(sum[:]),
		BodyLength: int64(len(body)),
	}, nil
}

// Receive pops up to max messages in FIFO order and marks them in flight.
func (q *MemoryQueue) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if max < 1 {
		max = 1
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	n := max
	if n > len(q.pending) {
		n = len(q.pending)
	}

	messages := make([]queue.Message, 0, n)
	for _, e := range q.pending[:n] {
		e.receiptHandle = uuid.NewString()
		q.inflight[e.receiptHandle] = e

		sum := md5.Sum(e.body)
		messages = append(messages, queue.Message{
			MessageID:     e.messageID,
			Body:          e.body,
			ReceiptHandle: e.receiptHandle,
			BodyMD5:       hex.EncodeToString(sum[:]),
			BodyLength:    int64(len(e.body)),
		})
	}
	q.pending = q.pending[n:]

	return messages, nil
}

// Delete removes an in-flight message by receipt handle.
func (q *MemoryQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inflight[receiptHandle]; !ok {
		return fmt.Errorf("unknown receipt handle %q", receiptHandle)
	}
	delete(q.inflight, receiptHandle)
	return nil
}

// Len returns the number of messages waiting to be received.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InflightCount returns the number of received-but-undeleted messages.
func (q *MemoryQueue) InflightCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inflight)
}
