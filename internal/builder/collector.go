package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollectFiles walks the package source tree and returns the archive key of
// every regular file. Files at the source root yield "/<name>"; nested files
// yield "<subdir>/<name>" with forward slashes.
//
// A package without a source tree is valid and yields no files.
func CollectFiles(sourceRoot string) ([]string, error) {
	root := filepath.Clean(sourceRoot)

	var keys []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		keys = append(keys, pathKey(relative))

		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("walk source tree: %w", err)
	}

	return keys, nil
}

// SourcePath maps an archive key back to the file's location on disk.
func SourcePath(sourceRoot, key string) string {
	return filepath.Join(sourceRoot, filepath.FromSlash(key))
}

// pathKey converts a source-relative path into its archive key.
// The subdirectory component is empty for root-level files, which is what
// produces the leading slash.
func pathKey(relative string) string {
	relative = filepath.ToSlash(relative)
	if !strings.Contains(relative, "/") {
		return "/" + relative
	}

	return relative
}
