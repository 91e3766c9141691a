package memory_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/marmos91/bigsqs/pkg/queue/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReceiveDelete(t *testing.T) {
	q := memory.NewMemoryQueue()
	ctx := context.Background()

	body := []byte("hello queue")
	res, err := q.Send(ctx, body)
	require.NoError(t, err)
	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, int64(len(body)), res.BodyLength)

	sum := md5.Sum(body)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.BodyMD5)

	msgs, err := q.Receive(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, body, msgs[0].Body)
	assert.Equal(t, res.BodyMD5, msgs[0].BodyMD5)
	assert.NotEmpty(t, msgs[0].ReceiptHandle)

	// Received messages are in flight, not redelivered.
	again, err := q.Receive(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 1, q.InflightCount())

	require.NoError(t, q.Delete(ctx, msgs[0].ReceiptHandle))
	assert.Equal(t, 0, q.InflightCount())
}

func TestReceivePreservesOrder(t *testing.T) {
	q := memory.NewMemoryQueue()
	ctx := context.Background()

	for _, body := range []string{"first", "second", "third"} {
		_, err := q.Send(ctx, []byte(body))
		require.NoError(t, err)
	}

	msgs, err := q.Receive(ctx, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", string(msgs[0].Body))
	assert.Equal(t, "second", string(msgs[1].Body))
	assert.Equal(t, 1, q.Len())
}

func TestDeleteUnknownHandle(t *testing.T) {
	q := memory.NewMemoryQueue()
	err := q.Delete(context.Background(), "no-such-handle")
	assert.Error(t, err)
}

func TestContextCancellation(t *testing.T) {
	q := memory.NewMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Send(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = q.Receive(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
