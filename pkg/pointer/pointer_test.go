package pointer_test

import (
	"errors"
	"testing"

	"github.com/marmos91/bigsqs/pkg/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	p := pointer.Pointer{Bucket: "overflow-bucket", Key: "7c9e6679-7425-40de-944b-e07fc1f90ae7"}

	body, err := pointer.Encode(p)
	require.NoError(t, err)

	decoded, err := pointer.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestEncode_WireFormat(t *testing.T) {
	body, err := pointer.Encode(pointer.Pointer{Bucket: "b", Key: "k"})
	require.NoError(t, err)

	// The envelope must match the Java extended client byte-for-byte so other
	// implementations on the same queue can decode it.
	assert.JSONEq(t,
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"b","s3Key":"k"}]`,
		string(body))
}

func TestEncode_RejectsEmptyFields(t *testing.T) {
	_, err := pointer.Encode(pointer.Pointer{Bucket: "", Key: "k"})
	assert.Error(t, err)

	_, err = pointer.Encode(pointer.Pointer{Bucket: "b", Key: ""})
	assert.Error(t, err)
}

func TestDecode_LiteralPayloads(t *testing.T) {
	literals := []string{
		"hello world",
		"",
		"{\"s3BucketName\":\"b\",\"s3Key\":\"k\"}",                 // right fields, wrong structure
		"[\"something.else.Entirely\",{\"s3BucketName\":\"b\"}]",   // wrong marker
		"[1,2]",                                                    // array without marker
		"[]",                                                       // empty array
		"com.amazon.sqs.javamessaging.MessageS3Pointer",            // marker as bare text
		"a com.amazon.sqs.javamessaging.MessageS3Pointer mention",  // marker as substring
		"{\"com.amazon.sqs.javamessaging.MessageS3Pointer\":true}", // marker as object key
	}

	for _, body := range literals {
		_, err := pointer.Decode([]byte(body))
		assert.ErrorIs(t, err, pointer.ErrNotAPointer, "body %q must decode as a literal", body)
	}
}

func TestDecode_CorruptEnvelopes(t *testing.T) {
	corrupt := []string{
		`["com.amazon.sqs.javamessaging.MessageS3Pointer"]`,                                            // missing reference
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"b"}]`,                       // missing key
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3Key":"k"}]`,                              // missing bucket
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"","s3Key":"k"}]`,            // empty bucket
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",42]`,                                         // wrong type
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"b","s3Key":"k"},"extra"]`,   // wrong arity
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"b","s3Key":"k","x":"y"}]`,   // unknown field
		`["com.amazon.sqs.javamessaging.MessageS3Pointer",{"s3BucketName":"b","s3Key":{"nested":1}}]`,  // wrong field type
	}

	for _, body := range corrupt {
		_, err := pointer.Decode([]byte(body))
		var corruptErr *pointer.CorruptPointerError
		assert.True(t, errors.As(err, &corruptErr), "body %q must decode as corrupt, got %v", body, err)
	}
}

func TestDecode_WhitespaceTolerant(t *testing.T) {
	body := `[ "com.amazon.sqs.javamessaging.MessageS3Pointer" ,
		{ "s3BucketName" : "b" , "s3Key" : "k" } ]`

	p, err := pointer.Decode([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, pointer.Pointer{Bucket: "b", Key: "k"}, p)
}
