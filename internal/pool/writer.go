package pool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/ccp-packager/internal/archive"
	"github.com/oshokin/ccp-packager/internal/config"
	"github.com/oshokin/ccp-packager/internal/logger"
)

// ArchiveExtension is the filename extension of encoded package archives.
const ArchiveExtension = ".ccp"

// DefaultFileMode is used when producing artifacts for distribution.
const DefaultFileMode os.FileMode = 0o755

// Writer persists archives and the index into the pool directory.
//
// The pool directory is an operational precondition: the writer never
// creates it, and a missing pool surfaces as a write error that aborts
// the run.
type Writer struct {
	// cfg provides the pool location and index filename.
	cfg *config.Config
}

// NewWriter creates a pool writer for the provided layout.
func NewWriter(cfg *config.Config) *Writer {
	return &Writer{cfg: cfg}
}

// WriteArchive stores the encoded payload as <name>.<version>.ccp,
// overwriting any previous build of the same version, and returns the
// index entry carrying the digest of the exact bytes written.
func (w *Writer) WriteArchive(ctx context.Context, name, version, payload string) (Entry, error) {
	data := []byte(payload)

	digest, err := archive.Checksum(data)
	if err != nil {
		return Entry{}, fmt.Errorf("digest archive: %w", err)
	}

	path := w.ArchivePath(name, version)
	if err := os.WriteFile(path, data, DefaultFileMode); err != nil {
		return Entry{}, fmt.Errorf("write archive: %w", err)
	}

	logger.InfoKV(ctx, "Archive written", "path", path, "digest", digest)

	return Entry{Version: version, Digest: digest}, nil
}

// ArchivePath is the pool location of a package's versioned archive.
func (w *Writer) ArchivePath(name, version string) string {
	return filepath.Join(w.cfg.PoolDir, name+"."+version+ArchiveExtension)
}

// IndexPath is the pool location of the aggregate index.
func (w *Writer) IndexPath() string {
	return filepath.Join(w.cfg.PoolDir, w.cfg.IndexFilename)
}
