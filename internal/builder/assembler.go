package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/ccp-packager/internal/archive"
	"github.com/oshokin/ccp-packager/internal/config"
	"github.com/oshokin/ccp-packager/internal/logger"
	"github.com/oshokin/ccp-packager/internal/manifest"
)

// Assembler builds package documents from manifests and source trees.
type Assembler struct {
	// cfg provides the directory layout of the packages root.
	cfg *config.Config
}

// NewAssembler creates an assembler for the provided layout.
func NewAssembler(cfg *config.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble loads the package manifest, collects its source files and builds
// the package document with per-file content and digests.
//
// A missing manifest yields a skipped Result; every other failure (malformed
// manifest, missing version field, unreadable source file) is an error that
// the driver treats as fatal for the whole run.
func (a *Assembler) Assemble(ctx context.Context, name string) (Result, error) {
	logger.Info(ctx, "Reading manifest")

	m, err := manifest.Load(a.manifestPath(name))
	if errors.Is(err, manifest.ErrNotFound) {
		logger.Warn(ctx, "Package is invalid (no manifest)")

		return skipped("no manifest"), nil
	}

	if err != nil {
		return Result{}, fmt.Errorf("load manifest for %s: %w", name, err)
	}

	version, err := m.Version()
	if err != nil {
		return Result{}, fmt.Errorf("package %s: %w", name, err)
	}

	sourceRoot := a.sourceRoot(name)

	keys, err := CollectFiles(sourceRoot)
	if err != nil {
		return Result{}, fmt.Errorf("collect files for %s: %w", name, err)
	}

	files := make(map[string]archive.FileEntry, len(keys))

	for _, key := range keys {
		logger.Infof(ctx, "Adding %s", key)

		contents, err := os.ReadFile(SourcePath(sourceRoot, key))
		if err != nil {
			return Result{}, fmt.Errorf("read %s: %w", key, err)
		}

		digest, err := archive.Checksum(contents)
		if err != nil {
			return Result{}, fmt.Errorf("digest %s: %w", key, err)
		}

		files[key] = archive.FileEntry{
			Content: string(contents),
			Digest:  digest,
		}
	}

	// The document is built fresh from the manifest's fields; the loaded
	// manifest itself is never mutated.
	document := make(archive.Document, len(m)+1)
	for field, value := range m {
		document[field] = value
	}

	document[archive.FilesField] = files

	return built(document, version), nil
}

// manifestPath is the expected manifest location for a package.
func (a *Assembler) manifestPath(name string) string {
	return filepath.Join(a.cfg.PackagesRoot, name, a.cfg.ManifestFilename)
}

// sourceRoot is the source tree location for a package.
func (a *Assembler) sourceRoot(name string) string {
	return filepath.Join(a.cfg.PackagesRoot, name, a.cfg.SourceSubdir)
}
