// Package archive defines the wire format of a built package.
//
// A package document is JSON-serialized, zlib-compressed at best compression
// and base64-encoded into printable text. The archive digest is computed over
// the encoded text, not the plaintext document, so it matches the bytes of
// the .ccp file in the pool exactly.
package archive
