package archive

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"

	// Ensure SHA-256 is available for checksum calculation.
	_ "crypto/sha256"
)

// DefaultChecksumFunction is used for file and archive digests.
const DefaultChecksumFunction crypto.Hash = crypto.SHA256

var errHashUnavailable = errors.New("hash function unavailable")

// Checksum returns the hex digest of data using DefaultChecksumFunction.
func Checksum(data []byte) (string, error) {
	if !DefaultChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
