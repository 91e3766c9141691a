// Package queue defines the queue adapter used by the offload client.
//
// The client only depends on this interface, never on a concrete backend
// client, so tests and embedders can substitute their own implementation.
// The production implementation in this package targets Amazon SQS.
package queue

import "context"

// SendResult is the metadata the queue backend reports for a sent message.
// BodyMD5 and BodyLength describe the literal wire body the backend was
// given, which for an offloaded message is the pointer envelope.
type SendResult struct {
	// MessageID is the backend-assigned message identifier.
	MessageID string

	// BodyMD5 is the hex MD5 digest of the wire body.
	BodyMD5 string

	// BodyLength is the wire body length in bytes.
	BodyLength int64
}

// Message is a raw message as returned by the queue backend. Body may be a
// literal payload or a serialized pointer envelope; BodyMD5 and BodyLength
// always describe the wire body.
type Message struct {
	// MessageID is the backend-assigned message identifier.
	MessageID string

	// Body is the raw wire body.
	Body []byte

	// ReceiptHandle identifies this delivery for a later Delete.
	ReceiptHandle string

	// BodyMD5 is the hex MD5 digest of the wire body.
	BodyMD5 string

	// BodyLength is the wire body length in bytes.
	BodyLength int64
}

// Queue is the capability set the offload client requires of a queue
// backend. Implementations must be safe for concurrent use and are expected
// to provide at-least-once delivery.
type Queue interface {
	// Send enqueues a wire body and returns the backend's metadata for it.
	Send(ctx context.Context, body []byte) (SendResult, error)

	// Receive returns up to max raw messages, in the order the backend
	// delivered them. An empty slice means no messages were available.
	Receive(ctx context.Context, max int) ([]Message, error)

	// Delete removes the delivery identified by receiptHandle.
	Delete(ctx context.Context, receiptHandle string) error
}
