// Package pointer implements the wire format that replaces an oversized
// queue body with a reference to an S3 object.
//
// The envelope is the one used by the AWS Java extended client, so queues can
// be shared with other implementations of the same protocol: a JSON array of
// exactly two elements, a marker class name followed by the bucket/key pair.
//
//	["com.amazon.sqs.javamessaging.MessageS3Pointer",
//	 {"s3BucketName":"my-bucket","s3Key":"0b5bd58f-..."}]
//
// Decoding is strict. A body is only treated as a pointer when it parses as
// that exact structure; anything else is reported as a literal payload. This
// is a structural check, not a substring search, so arbitrary payloads that
// merely mention the marker string are never misclassified.
package pointer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MarkerClass is the reserved marker that distinguishes a pointer envelope
// from a literal payload. The Java class name is part of the wire protocol.
const MarkerClass = "com.amazon.sqs.javamessaging.MessageS3Pointer"

// ErrNotAPointer reports that a body is an ordinary payload, not a pointer
// envelope. It is the expected outcome for every non-offloaded message.
var ErrNotAPointer = errors.New("body is not an S3 pointer")

// CorruptPointerError reports a body that carries the pointer marker but
// fails to parse as a complete envelope. Such a message claims to reference
// an S3 object but the reference cannot be recovered.
type CorruptPointerError struct {
	Reason string
}

func (e *CorruptPointerError) Error() string {
	return fmt.Sprintf("corrupt S3 pointer envelope: %s", e.Reason)
}

// Pointer references the S3 object holding an offloaded payload.
type Pointer struct {
	Bucket string
	Key    string
}

// s3PointerJSON is the JSON shape of the envelope's second element.
type s3PointerJSON struct {
	S3BucketName string `json:"s3BucketName"`
	S3Key        string `json:"s3Key"`
}

// Encode serializes a pointer into the envelope carried as the queue body.
func Encode(p Pointer) ([]byte, error) {
	if p.Bucket == "" {
		return nil, fmt.Errorf("pointer bucket name is empty")
	}
	if p.Key == "" {
		return nil, fmt.Errorf("pointer object key is empty")
	}

	envelope := [2]any{
		MarkerClass,
		s3PointerJSON{S3BucketName: p.Bucket, S3Key: p.Key},
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to encode S3 pointer: %w", err)
	}
	return data, nil
}

// Decode inspects a queue body and extracts the pointer it carries.
//
// Returns ErrNotAPointer when the body is a literal payload: not valid JSON,
// not a two-element array, or an array whose first element is not the marker
// class. Returns *CorruptPointerError when the marker is present but the
// envelope is malformed (wrong arity, unknown fields, empty bucket or key).
func Decode(body []byte) (Pointer, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return Pointer{}, ErrNotAPointer
	}

	// The marker lives in the first element. Without it, this is a payload
	// that just happens to be a JSON array.
	if len(elements) == 0 {
		return Pointer{}, ErrNotAPointer
	}

	var class string
	if err := json.Unmarshal(elements[0], &class); err != nil || class != MarkerClass {
		return Pointer{}, ErrNotAPointer
	}

	// From here on the body claims to be a pointer; any parse failure is a
	// corrupt envelope rather than a literal payload.
	if len(elements) != 2 {
		return Pointer{}, &CorruptPointerError{
			Reason: fmt.Sprintf("expected 2 envelope elements, got %d", len(elements)),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(elements[1]))
	dec.DisallowUnknownFields()

	var ref s3PointerJSON
	if err := dec.Decode(&ref); err != nil {
		return Pointer{}, &CorruptPointerError{
			Reason: fmt.Sprintf("invalid pointer reference: %v", err),
		}
	}

	if ref.S3BucketName == "" {
		return Pointer{}, &CorruptPointerError{Reason: "missing s3BucketName"}
	}
	if ref.S3Key == "" {
		return Pointer{}, &CorruptPointerError{Reason: "missing s3Key"}
	}

	return Pointer{Bucket: ref.S3BucketName, Key: ref.S3Key}, nil
}
