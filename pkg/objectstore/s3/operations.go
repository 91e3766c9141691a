// Package s3 implements objectstore.Store on Amazon S3.
//
// This file contains the put, get and delete operations.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/marmos91/bigsqs/internal/logger"
	"github.com/marmos91/bigsqs/pkg/objectstore"
)

// Put stores data under (bucket, key) with retry for transient errors.
func (s *S3Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	start := time.Now()
	var err error
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("PutObject", time.Since(start), err)
			if err == nil {
				s.metrics.RecordBytes("put", int64(len(data)))
			}
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= int(s.retry.maxRetries); attempt++ {
		if attempt > 0 {
			backoff := s.calculateBackoff(attempt - 1)
			logger.Debug("Put: retrying", "backoff", backoff, "attempt", attempt, "max_retries", s.retry.maxRetries, "bucket", bucket, "key", key)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		_, lastErr = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})

		if lastErr == nil {
			return nil
		}

		if !isRetryableError(lastErr) {
			break
		}

		logger.Debug("Put: transient error", "attempt", attempt+1, "bucket", bucket, "key", key, "error", lastErr)
	}

	err = fmt.Errorf("failed to put object to S3 after %d attempts: %w", s.retry.maxRetries+1, lastErr)
	return err
}

// Get downloads the object at (bucket, key) with retry for transient errors.
// Returns objectstore.ErrObjectNotFound when the object does not exist.
func (s *S3Store) Get(ctx context.Context, bucket, key string) (data []byte, err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("GetObject", time.Since(start), err)
			if err == nil {
				s.metrics.RecordBytes("get", int64(len(data)))
			}
		}
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= int(s.retry.maxRetries); attempt++ {
		if attempt > 0 {
			backoff := s.calculateBackoff(attempt - 1)
			logger.Debug("Get: retrying", "backoff", backoff, "attempt", attempt, "max_retries", s.retry.maxRetries, "bucket", bucket, "key", key)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var out *s3.GetObjectOutput
		out, lastErr = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})

		if lastErr == nil {
			data, lastErr = io.ReadAll(out.Body)
			_ = out.Body.Close()
			if lastErr == nil {
				return data, nil
			}
			// A truncated download is worth retrying like any network error.
			if !isRetryableError(lastErr) {
				return nil, fmt.Errorf("failed to read object body: %w", lastErr)
			}
			continue
		}

		if isNotFoundError(lastErr) {
			return nil, fmt.Errorf("object %s/%s: %w", bucket, key, objectstore.ErrObjectNotFound)
		}

		if !isRetryableError(lastErr) {
			break
		}

		logger.Debug("Get: transient error", "attempt", attempt+1, "bucket", bucket, "key", key, "error", lastErr)
	}

	err = fmt.Errorf("failed to get object from S3 after %d attempts: %w", s.retry.maxRetries+1, lastErr)
	return nil, err
}

// Delete removes the object at (bucket, key). Idempotent: deleting an absent
// object returns nil.
func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	start := time.Now()
	var err error
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("DeleteObject", time.Since(start), err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= int(s.retry.maxRetries); attempt++ {
		if attempt > 0 {
			backoff := s.calculateBackoff(attempt - 1)
			logger.Debug("Delete: retrying", "backoff", backoff, "attempt", attempt, "max_retries", s.retry.maxRetries, "bucket", bucket, "key", key)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		_, lastErr = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})

		if lastErr == nil {
			return nil
		}

		// Not found is not an error for delete (idempotent)
		if isNotFoundError(lastErr) {
			return nil
		}

		if !isRetryableError(lastErr) {
			break
		}

		logger.Debug("Delete: transient error", "attempt", attempt+1, "bucket", bucket, "key", key, "error", lastErr)
	}

	err = fmt.Errorf("failed to delete object from S3 after %d attempts: %w", s.retry.maxRetries+1, lastErr)
	return err
}
