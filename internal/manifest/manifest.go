package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest holds the declarative metadata of a single package.
// Fields are arbitrary; only the version field has meaning to the packager.
type Manifest map[string]any

// VersionField is the manifest key naming the package version.
const VersionField = "version"

var (
	// ErrNotFound is returned when a package has no manifest file.
	// Callers treat it as "skip this package", unlike parse errors,
	// which abort the whole run.
	ErrNotFound = errors.New("manifest not found")

	// errVersionMissing is returned when the version field is absent or
	// neither a string nor a number.
	errVersionMissing = errors.New("manifest has no usable version field")

	// errTrailingData is returned when the manifest file continues past
	// the first JSON document.
	errTrailingData = errors.New("trailing data after manifest document")
)

// Load reads and parses the manifest at the provided path.
// Numbers are decoded as json.Number so a numeric version renders verbatim.
func Load(path string) (Manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(contents))
	decoder.UseNumber()

	var m Manifest
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	if decoder.More() {
		return nil, errTrailingData
	}

	return m, nil
}

// Version returns the manifest version rendered verbatim.
// The field may be a JSON string or number; anything else is an error.
func (m Manifest) Version() (string, error) {
	switch v := m[VersionField].(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", errVersionMissing
	}
}
