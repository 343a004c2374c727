package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransport(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := NewMemoryTransport()
	tr.now = func() time.Time { return fixed }

	require.NoError(t, tr.Put(ctx, "b", "x/1", strings.NewReader("one"), 3, WriteOptions{}))
	require.NoError(t, tr.Put(ctx, "b", "x/2", strings.NewReader("two"), 3, WriteOptions{ContentType: "text/plain"}))
	require.NoError(t, tr.Put(ctx, "other", "x/3", strings.NewReader("three"), 5, WriteOptions{}))

	t.Run("BucketsAreIsolated", func(t *testing.T) {
		objects, err := tr.List(ctx, "b", ListOptions{Prefix: "x/"})
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, fixed, objects[0].LastModified)
	})

	t.Run("DefaultContentType", func(t *testing.T) {
		meta, err := tr.Head(ctx, "b", "x/1")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", meta.ContentType)
		assert.Equal(t, `"f97c5d29941bfb1b2fdab0874906ab82"`, meta.ETag)
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		body, err := tr.Get(ctx, "b", "x/2")
		require.NoError(t, err)
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "two", string(data))
		require.NoError(t, body.Close())
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := tr.Get(cctx, "b", "x/1")
		assert.True(t, IsTransport(err))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Presign", func(t *testing.T) {
		u, err := tr.PresignGet(ctx, "b", "x/1", 90*time.Second)
		require.NoError(t, err)
		assert.Equal(t, "memory://b/x/1?X-Amz-Expires=90", u)
	})
}
