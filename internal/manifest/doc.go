// Package manifest loads per-package manifest documents.
//
// A missing manifest is a normal condition (the package is not packaged yet)
// and is reported via ErrNotFound; a present but malformed manifest indicates
// a bug and surfaces as a regular error that aborts the build.
package manifest
