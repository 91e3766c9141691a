// Package client implements the large-message protocol on top of a queue and
// an object store.
//
// Payloads above a configured threshold are stored in S3 and replaced on the
// wire with a pointer envelope (see pkg/pointer); on receive the pointer is
// resolved transparently and the message metadata is recomputed so callers
// cannot tell an offloaded message from a native one. Deleting a resolved
// message removes both the queue entry and the offloaded object.
package client

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/bigsqs/pkg/objectstore"
	"github.com/marmos91/bigsqs/pkg/pointer"
	"github.com/marmos91/bigsqs/pkg/queue"
)

// MaxMessageSize is the maximum message size supported by SQS in bytes, and
// the default offload threshold.
const MaxMessageSize = 262_144

// Metrics is an optional hook for observing client operations. A nil Metrics
// is valid and costs nothing.
type Metrics interface {
	// ObserveOperation records a Send/Receive/Delete with duration and outcome.
	ObserveOperation(operation string, duration time.Duration, err error)

	// RecordOffload records an offloaded payload's size in bytes.
	RecordOffload(bytes int64)

	// RecordResolve records a resolved payload's size in bytes.
	RecordResolve(bytes int64)

	// RecordCleanupFailure counts object deletions that failed after the
	// queue entry was already removed.
	RecordCleanupFailure()
}

// Options configures a Client.
type Options struct {
	// Queue is the queue adapter (required).
	Queue queue.Queue

	// Store is the object storage adapter (required).
	Store objectstore.Store

	// Bucket is the bucket oversized payloads are written to (required).
	Bucket string

	// SizeThreshold is the payload size in bytes above which offload kicks
	// in. Payloads exactly at the threshold are sent natively.
	// Defaults to MaxMessageSize.
	SizeThreshold int64

	// KeyPrefix is an optional prefix for generated object keys, useful for
	// namespacing one bucket across several queues.
	KeyPrefix string

	// Metrics is an optional metrics collector.
	Metrics Metrics
}

// Client sends, receives and deletes queue messages, transparently routing
// oversized payloads through object storage.
//
// Configuration and adapter handles are immutable after construction, so one
// Client may be shared by concurrent goroutines. The only mutable state is
// the receipt-handle association recorded at resolve time (needed so Delete
// knows which object to clean up); it is internally synchronized.
type Client struct {
	queue     queue.Queue
	store     objectstore.Store
	bucket    string
	keyPrefix string
	policy    SizePolicy
	metrics   Metrics

	// receipt handle -> pointer, recorded at resolve time
	mu       sync.RWMutex
	pointers map[string]pointer.Pointer
}

// New creates a Client from explicit adapter handles. The two adapters may
// be configured independently (different accounts or regions); the client
// never inspects them beyond the adapter interfaces.
func New(opts Options) (*Client, error) {
	if opts.Queue == nil {
		return nil, fmt.Errorf("queue adapter is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("object store adapter is required")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if opts.SizeThreshold < 0 {
		return nil, fmt.Errorf("size threshold must not be negative, got %d", opts.SizeThreshold)
	}

	threshold := opts.SizeThreshold
	if threshold == 0 {
		threshold = MaxMessageSize
	}

	return &Client{
		queue:     opts.Queue,
		store:     opts.Store,
		bucket:    opts.Bucket,
		keyPrefix: opts.KeyPrefix,
		policy:    SizePolicy{Threshold: threshold},
		metrics:   opts.Metrics,
		pointers:  make(map[string]pointer.Pointer),
	}, nil
}

// Threshold returns the configured offload threshold in bytes.
func (c *Client) Threshold() int64 {
	return c.policy.Threshold
}

// rememberPointer records the (receipt handle, pointer) association so a
// later Delete can clean up the offloaded object.
func (c *Client) rememberPointer(receiptHandle string, p pointer.Pointer) {
	c.mu.Lock()
	c.pointers[receiptHandle] = p
	c.mu.Unlock()
}

// takePointer removes and returns the pointer associated with a receipt
// handle, if any.
func (c *Client) takePointer(receiptHandle string) (pointer.Pointer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pointers[receiptHandle]
	if ok {
		delete(c.pointers, receiptHandle)
	}
	return p, ok
}

// md5Hex computes the hex MD5 digest SQS natively reports for a body.
func md5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
