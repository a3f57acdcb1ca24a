package pool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ccp-packager/internal/config"
)

// TestIndexRoundtrip writes an index and reads the same entries back.
func TestIndexRoundtrip(t *testing.T) {
	t.Parallel()

	writer := newTestWriter(t)
	ctx := context.Background()

	index := Index{
		"foo": {Version: "1.0.0", Digest: "abc"},
		"baz": {Version: "2", Digest: "def"},
	}

	require.NoError(t, writer.WriteIndex(ctx, index))

	loaded, err := writer.ReadIndex(ctx)
	require.NoError(t, err)
	require.Equal(t, index, loaded)
}

// TestWriteIndexReplacesPrior rebuilds the index from scratch on every run.
func TestWriteIndexReplacesPrior(t *testing.T) {
	t.Parallel()

	writer := newTestWriter(t)
	ctx := context.Background()

	require.NoError(t, writer.WriteIndex(ctx, Index{"old": {Version: "0.1", Digest: "x"}}))
	require.NoError(t, writer.WriteIndex(ctx, Index{"new": {Version: "0.2", Digest: "y"}}))

	loaded, err := writer.ReadIndex(ctx)
	require.NoError(t, err)
	require.NotContains(t, loaded, "old")
	require.Contains(t, loaded, "new")
}

// TestReadIndexMissing reports ErrNotFound for a pool without an index.
func TestReadIndexMissing(t *testing.T) {
	t.Parallel()

	writer := newTestWriter(t)

	_, err := writer.ReadIndex(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestWriteIndexMissingPool fails when the pool directory does not exist.
func TestWriteIndexMissingPool(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.PoolDir = filepath.Join(t.TempDir(), "no-such-pool")

	err := NewWriter(cfg).WriteIndex(context.Background(), Index{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
