package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ccp-packager/internal/archive"
	"github.com/oshokin/ccp-packager/internal/config"
	"github.com/oshokin/ccp-packager/internal/pool"
	"github.com/oshokin/ccp-packager/internal/service/packager"
)

// helloDigest is the SHA-256 hex digest of the string "hello".
const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

// newBuildTree lays out a packages root with three packages:
// foo (one source file), bar (no manifest), baz (empty source tree),
// plus an empty pool directory. Returns the layout config.
func newBuildTree(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	cfg := config.Default()
	cfg.PackagesRoot = filepath.Join(dir, "packages")
	cfg.PoolDir = filepath.Join(dir, "pool")

	fooSource := filepath.Join(cfg.PackagesRoot, "foo", "source")
	require.NoError(t, os.MkdirAll(fooSource, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.PackagesRoot, "foo", "manifest.json"),
		[]byte(`{"version": "1.0.0"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(fooSource, "a.txt"), []byte("hello"), 0o644))

	// bar has no manifest and must be skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.PackagesRoot, "bar", "source"), 0o755))

	// baz has a numeric version and an empty source tree.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.PackagesRoot, "baz", "source"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.PackagesRoot, "baz", "manifest.json"),
		[]byte(`{"version": 2}`), 0o644))

	// A stray file in the packages root is not a package.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PackagesRoot, "README"), []byte("not a package"), 0o644))

	require.NoError(t, os.MkdirAll(cfg.PoolDir, 0o755))

	return cfg
}

// runPackager executes a full build over the provided layout.
func runPackager(t *testing.T, cfg *config.Config) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	options := &packager.Options{
		// Point at a nonexistent settings file so defaults apply.
		ConfigPath:   filepath.Join(cfg.PackagesRoot, "..", "no-settings.yaml"),
		PackagesRoot: cfg.PackagesRoot,
		PoolDir:      cfg.PoolDir,
	}

	require.NoError(t, packager.Run(ctx, options))
}

// TestPackager_BuildsArchivesAndIndex runs the whole pipeline and verifies
// archives decode to the expected documents and the index covers exactly the
// packages that built.
func TestPackager_BuildsArchivesAndIndex(t *testing.T) {
	t.Parallel()

	cfg := newBuildTree(t)
	runPackager(t, cfg)

	// foo: archive decodes back to the manifest plus its files.
	payload, err := os.ReadFile(filepath.Join(cfg.PoolDir, "foo.1.0.0.ccp"))
	require.NoError(t, err)

	doc, err := archive.Decode(string(payload))
	require.NoError(t, err)
	require.Equal(t, "1.0.0", doc["version"])

	files, ok := doc[archive.FilesField].(map[string]any)
	require.True(t, ok)
	require.Len(t, files, 1)

	entry, ok := files["/a.txt"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "hello", entry["content"])
	require.Equal(t, helloDigest, entry["digest"])

	// baz: numeric version names the archive, files mapping is empty.
	bazPayload, err := os.ReadFile(filepath.Join(cfg.PoolDir, "baz.2.ccp"))
	require.NoError(t, err)

	bazDoc, err := archive.Decode(string(bazPayload))
	require.NoError(t, err)

	bazFiles, ok := bazDoc[archive.FilesField].(map[string]any)
	require.True(t, ok)
	require.Empty(t, bazFiles)

	// bar: no archive and no index entry.
	matches, err := filepath.Glob(filepath.Join(cfg.PoolDir, "bar.*"))
	require.NoError(t, err)
	require.Empty(t, matches)

	ctx := context.Background()

	index, err := pool.NewWriter(cfg).ReadIndex(ctx)
	require.NoError(t, err)
	require.Len(t, index, 2)
	require.NotContains(t, index, "bar")

	// The index digest matches the archive file bytes exactly.
	fooDigest, err := archive.Checksum(payload)
	require.NoError(t, err)
	require.Equal(t, pool.Entry{Version: "1.0.0", Digest: fooDigest}, index["foo"])

	bazDigest, err := archive.Checksum(bazPayload)
	require.NoError(t, err)
	require.Equal(t, pool.Entry{Version: "2", Digest: bazDigest}, index["baz"])
}

// TestPackager_Idempotent re-runs the build over unchanged input and expects
// byte-identical archives and index.
func TestPackager_Idempotent(t *testing.T) {
	t.Parallel()

	cfg := newBuildTree(t)

	runPackager(t, cfg)

	firstArchive, err := os.ReadFile(filepath.Join(cfg.PoolDir, "foo.1.0.0.ccp"))
	require.NoError(t, err)

	firstIndex, err := os.ReadFile(filepath.Join(cfg.PoolDir, config.DefaultIndexFilename))
	require.NoError(t, err)

	runPackager(t, cfg)

	secondArchive, err := os.ReadFile(filepath.Join(cfg.PoolDir, "foo.1.0.0.ccp"))
	require.NoError(t, err)
	require.Equal(t, firstArchive, secondArchive)

	secondIndex, err := os.ReadFile(filepath.Join(cfg.PoolDir, config.DefaultIndexFilename))
	require.NoError(t, err)
	require.Equal(t, firstIndex, secondIndex)
}

// TestPackager_MalformedManifestAborts ensures a malformed manifest is fatal
// and no index is written for the run.
func TestPackager_MalformedManifestAborts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := config.Default()
	cfg.PackagesRoot = filepath.Join(dir, "packages")
	cfg.PoolDir = filepath.Join(dir, "pool")

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.PackagesRoot, "broken"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.PackagesRoot, "broken", "manifest.json"),
		[]byte(`{"version": `), 0o644))
	require.NoError(t, os.MkdirAll(cfg.PoolDir, 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := packager.Run(ctx, &packager.Options{
		ConfigPath:   filepath.Join(dir, "no-settings.yaml"),
		PackagesRoot: cfg.PackagesRoot,
		PoolDir:      cfg.PoolDir,
	})
	require.Error(t, err)

	_, err = pool.NewWriter(cfg).ReadIndex(ctx)
	require.ErrorIs(t, err, pool.ErrNotFound)
}

// TestPackager_MissingPoolAborts treats an absent pool directory as fatal.
func TestPackager_MissingPoolAborts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	packagesRoot := filepath.Join(dir, "packages")
	require.NoError(t, os.MkdirAll(filepath.Join(packagesRoot, "foo"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(packagesRoot, "foo", "manifest.json"),
		[]byte(`{"version": "1.0.0"}`), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := packager.Run(ctx, &packager.Options{
		ConfigPath:   filepath.Join(dir, "no-settings.yaml"),
		PackagesRoot: packagesRoot,
		PoolDir:      filepath.Join(dir, "no-such-pool"),
	})
	require.Error(t, err)
}
