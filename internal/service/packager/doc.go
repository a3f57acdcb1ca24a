// Package packager drives the build over all package directories.
//
// For each package it runs manifest loading, file collection, document
// assembly, archive encoding and pool writing, accumulating {version, digest}
// pairs into the index that is written once at the end of the run.
// Packages without a manifest are logged and skipped; any other failure
// aborts the run with the pool left as-is (archives already written remain).
package packager
