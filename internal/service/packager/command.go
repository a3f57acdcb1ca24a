package packager

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/ccp-packager/internal/archive"
	"github.com/oshokin/ccp-packager/internal/builder"
	"github.com/oshokin/ccp-packager/internal/config"
	"github.com/oshokin/ccp-packager/internal/logger"
	"github.com/oshokin/ccp-packager/internal/pool"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML; defaults apply when absent.
	ConfigPath string
	// PackagesRoot overrides the configured package source root.
	PackagesRoot string
	// PoolDir overrides the configured output pool directory.
	PoolDir string
}

// packager runs the build pipeline over every package directory.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// cfg holds the directory layout for this run.
	cfg *config.Config
	// assembler builds package documents.
	assembler *builder.Assembler
	// writer persists archives and the index.
	writer *pool.Writer
}

// errPackagerRunning indicates another packager process is active on this machine.
var errPackagerRunning = errors.New("another packager is running now")

// Run executes the packaging workflow: every package directory is assembled,
// encoded and written to the pool, and the aggregate index is rewritten once
// at the end. Packages without a manifest are skipped; any other failure
// aborts the run.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ccp-packager")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.PackagesRoot != "" {
		cfg.PackagesRoot = opts.PackagesRoot
	}

	if opts.PoolDir != "" {
		cfg.PoolDir = opts.PoolDir
	}

	pkg, err := newPackager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	if err = pkg.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

// newPackager validates the layout and guards against concurrent runs.
func newPackager(ctx context.Context, cfg *config.Config) (*packager, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if IsPackagerRunningNow(ctx) {
		return nil, errPackagerRunning
	}

	return &packager{
		cfg:       cfg,
		assembler: builder.NewAssembler(cfg),
		writer:    pool.NewWriter(cfg),
	}, nil
}

// Run builds every package and writes the aggregate index.
func (p *packager) Run(ctx context.Context) error {
	names, err := p.listPackages()
	if err != nil {
		return err
	}

	index := make(pool.Index, len(names))

	for _, name := range names {
		entry, ok, err := p.buildPackage(ctx, name)
		if err != nil {
			return err
		}

		if ok {
			index[name] = entry
		}
	}

	logger.InfoKV(ctx, "Writing index", "packages", len(index))

	return p.writer.WriteIndex(ctx, index)
}

// buildPackage runs the per-package pipeline. ok is false for skipped
// packages, which leave no archive and no index entry behind.
func (p *packager) buildPackage(ctx context.Context, name string) (pool.Entry, bool, error) {
	ctx = logger.WithKV(ctx, "package", name)
	logger.Infof(ctx, "Packaging %s", name)

	result, err := p.assembler.Assemble(ctx, name)
	if err != nil {
		return pool.Entry{}, false, err
	}

	if result.Skipped {
		logger.WarnKV(ctx, "Skipping package", "reason", result.Reason)

		return pool.Entry{}, false, nil
	}

	payload, err := archive.Encode(result.Document)
	if err != nil {
		return pool.Entry{}, false, fmt.Errorf("encode %s: %w", name, err)
	}

	entry, err := p.writer.WriteArchive(ctx, name, result.Version, payload)
	if err != nil {
		return pool.Entry{}, false, fmt.Errorf("write %s: %w", name, err)
	}

	return entry, true, nil
}

// listPackages enumerates package directories under the packages root.
func (p *packager) listPackages() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.PackagesRoot)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}
