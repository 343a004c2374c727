package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bucket-manager/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) storage.Client {
	t.Helper()
	client, err := storage.New(storage.NewMemoryTransport(), "test-bucket", zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestRunPutAndCat(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, runPut(ctx, client, strings.NewReader("hello"), "a.txt", "-", "text/plain", map[string]string{"owner": "ops"}))

	var out bytes.Buffer
	require.NoError(t, runCat(ctx, client, &out, "a.txt"))
	assert.Equal(t, "hello", out.String())

	out.Reset()
	require.NoError(t, runStat(ctx, client, &out, "a.txt"))
	assert.Contains(t, out.String(), `"content_type": "text/plain"`)
	assert.Contains(t, out.String(), `"owner": "ops"`)
}

func TestRunPut_File(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	require.NoError(t, runPut(ctx, client, nil, "reports/report.json", path, "", nil))
	meta, err := client.GetMetadata(ctx, "reports/report.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", meta.ContentType)

	err = runPut(ctx, client, nil, "x", filepath.Join(t.TempDir(), "missing"), "", nil)
	assert.Error(t, err)
}

func TestRunList(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	for _, key := range []string{"logs/1", "logs/2", "other"} {
		require.NoError(t, client.WriteText(ctx, key, "x", storage.WriteOptions{}))
	}

	var out bytes.Buffer
	require.NoError(t, runList(ctx, client, &out, "logs/", 10, false))
	assert.Equal(t, "logs/1\nlogs/2\n", out.String())

	out.Reset()
	require.NoError(t, runList(ctx, client, &out, "", 1, true))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "logs/1"))
}

func TestRunExists(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	var out bytes.Buffer
	require.NoError(t, runExists(ctx, client, &out, "nope"))
	assert.Equal(t, "false\n", out.String())

	var errOut bytes.Buffer
	assert.ErrorIs(t, runCat(ctx, client, &errOut, "nope"), storage.ErrNotFound)
}
