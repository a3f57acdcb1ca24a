// Package builder turns a package directory into a package document.
//
// The collector enumerates source files into archive keys, and the assembler
// attaches each file's text content and SHA-256 digest to the manifest
// fields, producing the document that the archive encoder serializes.
// Digests are always recomputed from content, never trusted from a prior
// build.
package builder
