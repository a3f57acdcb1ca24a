package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the directory layout consumed and produced by the packager.
type Config struct {
	// PackagesRoot is the directory holding one subdirectory per package.
	PackagesRoot string `yaml:"packages_root"`
	// SourceSubdir is the name of the source tree inside each package directory.
	SourceSubdir string `yaml:"source_subdir"`
	// ManifestFilename is the name of the manifest document inside each package directory.
	ManifestFilename string `yaml:"manifest_filename"`
	// PoolDir is the output directory receiving archives and the index.
	// It must exist before a run; the packager never creates it.
	PoolDir string `yaml:"pool_dir"`
	// IndexFilename is the name of the aggregate index document inside the pool.
	IndexFilename string `yaml:"index_filename"`
}

const (
	// DefaultConfigFilename is the default filename for packager settings.
	DefaultConfigFilename = "ccp-packager-settings.yaml"

	// DefaultPackagesRoot is the default directory with package sources.
	DefaultPackagesRoot = "./packages"

	// DefaultSourceSubdir is the default source tree name inside a package.
	DefaultSourceSubdir = "source"

	// DefaultManifestFilename is the default manifest name inside a package.
	DefaultManifestFilename = "manifest.json"

	// DefaultPoolDir is the default output pool directory.
	DefaultPoolDir = "./pool"

	// DefaultIndexFilename is the default index name inside the pool.
	DefaultIndexFilename = "index.json"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNotPlainFilename is returned when a filename setting contains path separators.
	errNotPlainFilename = errors.New("must be a plain filename without path separators")
)

// Default returns a configuration with every field at its default value.
func Default() *Config {
	return &Config{
		PackagesRoot:     DefaultPackagesRoot,
		SourceSubdir:     DefaultSourceSubdir,
		ManifestFilename: DefaultManifestFilename,
		PoolDir:          DefaultPoolDir,
		IndexFilename:    DefaultIndexFilename,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing settings file is not an error: the packager is usable with no
// configuration at all, so defaults are returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks that name-only
// settings do not smuggle in path components.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PackagesRoot == "" {
		cfg.PackagesRoot = DefaultPackagesRoot
	}

	if cfg.SourceSubdir == "" {
		cfg.SourceSubdir = DefaultSourceSubdir
	}

	if cfg.ManifestFilename == "" {
		cfg.ManifestFilename = DefaultManifestFilename
	}

	if cfg.PoolDir == "" {
		cfg.PoolDir = DefaultPoolDir
	}

	if cfg.IndexFilename == "" {
		cfg.IndexFilename = DefaultIndexFilename
	}

	for setting, value := range map[string]string{
		"source_subdir":     cfg.SourceSubdir,
		"manifest_filename": cfg.ManifestFilename,
		"index_filename":    cfg.IndexFilename,
	} {
		if filepath.Base(value) != value {
			return fmt.Errorf("%s %q: %w", setting, value, errNotPlainFilename)
		}
	}

	return nil
}
