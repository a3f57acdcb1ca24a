package builder

import "github.com/oshokin/ccp-packager/internal/archive"

// Result reports the outcome of assembling one package. A skipped package
// carries no document and must never reach the pool; checking Skipped before
// using Document keeps the two outcomes impossible to confuse.
type Result struct {
	// Document is the assembled package document; nil when Skipped.
	Document archive.Document
	// Version is the manifest version used to name the archive.
	Version string
	// Skipped reports that the package cannot be built in this run.
	Skipped bool
	// Reason explains why the package was skipped.
	Reason string
}

// built wraps a finished document into a Result.
func built(doc archive.Document, version string) Result {
	return Result{
		Document: doc,
		Version:  version,
	}
}

// skipped marks a package as not buildable in this run.
func skipped(reason string) Result {
	return Result{
		Skipped: true,
		Reason:  reason,
	}
}
