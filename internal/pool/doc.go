// Package pool persists build outputs: versioned .ccp archives and the
// aggregate index mapping each package to its version and archive digest.
//
// Archive files accumulate under version-qualified names and are never
// deleted; the index is rewritten whole on every run.
package pool
