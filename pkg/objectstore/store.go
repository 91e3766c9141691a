// Package objectstore defines the object storage adapter used by the offload
// client to park oversized payloads.
//
// The client only depends on this interface. The production implementation
// in the s3 subpackage targets Amazon S3 and S3-compatible services; the
// memory subpackage provides an in-memory double for tests.
package objectstore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when the referenced object does not
// exist. Delete never returns it; deleting an absent object is a no-op.
var ErrObjectNotFound = errors.New("object not found")

// Store is the capability set the offload client requires of an object
// storage backend. Operations take an explicit bucket because pointers may
// reference buckets other than the one this client writes to (cross-account
// setups). Implementations must be safe for concurrent use.
type Store interface {
	// Put stores data under (bucket, key), overwriting any existing object.
	Put(ctx context.Context, bucket, key string, data []byte) error

	// Get returns the object's bytes, or ErrObjectNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Delete removes the object. Idempotent: absent keys are not an error.
	Delete(ctx context.Context, bucket, key string) error
}
