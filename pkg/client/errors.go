package client

import "fmt"

// StoreError reports a failed object-storage write during Send. The send is
// aborted before anything is enqueued, so the queue never references an
// object that does not exist.
type StoreError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to store payload at %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ResolveError reports a failed object-storage read during Receive. The
// affected message is still returned with its wire body intact so the caller
// can retry or delete-and-skip.
type ResolveError struct {
	Bucket        string
	Key           string
	ReceiptHandle string
	Err           error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve payload from %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// CleanupError reports a failed object-storage delete during Delete. The
// queue entry is already gone by the time this is raised: the message is
// consumed and the orphaned object is a leak to sweep out-of-band, not a
// failed delete.
type CleanupError struct {
	Bucket        string
	Key           string
	ReceiptHandle string
	Err           error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("message deleted but cleanup of %s/%s failed: %v", e.Bucket, e.Key, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
