package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/ccp-packager/internal/logger"
)

// Entry records the built version and archive digest of one package.
type Entry struct {
	// Version is the manifest version the archive was built from.
	Version string `json:"version"`
	// Digest is the SHA-256 hex digest of the archive file's text content.
	Digest string `json:"digest"`
}

// Index maps package names to their latest built entries. Packages that
// were skipped in a run are simply absent; there are no tombstones.
type Index map[string]Entry

// ErrNotFound is returned when the pool has no index document yet.
var ErrNotFound = errors.New("index not found")

// WriteIndex replaces the pool index with the provided mapping.
// The index is rebuilt from scratch on every run, never updated in place.
func (w *Writer) WriteIndex(ctx context.Context, index Index) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	path := w.IndexPath()
	if err := os.WriteFile(path, data, DefaultFileMode); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	logger.InfoKV(ctx, "Index written", "path", path, "packages", len(index))

	return nil
}

// ReadIndex loads the index written by a previous run.
func (w *Writer) ReadIndex(_ context.Context) (Index, error) {
	contents, err := os.ReadFile(w.IndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read index: %w", err)
	}

	var index Index
	if err := json.Unmarshal(contents, &index); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	return index, nil
}
