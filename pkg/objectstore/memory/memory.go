// Package memory provides an in-memory objectstore.Store implementation,
// used by the test suite and by embedders exercising the offload protocol
// without a real backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/marmos91/bigsqs/pkg/objectstore"
)

// MemoryStore holds objects in a map keyed by bucket and key. Safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// Put stores a copy of data under (bucket, key).
func (s *MemoryStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.objects[objectKey(bucket, key)] = stored
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the object, or objectstore.ErrObjectNotFound.
func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.objects[objectKey(bucket, key)]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("object %s/%s: %w", bucket, key, objectstore.ErrObjectNotFound)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes the object. Absent keys are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.objects, objectKey(bucket, key))
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether (bucket, key) exists.
func (s *MemoryStore) Has(bucket, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[objectKey(bucket, key)]
	return ok
}
