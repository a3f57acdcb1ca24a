package archive

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Document is a package document ready for serialization: the manifest
// fields plus the assembled files mapping under FilesField.
type Document map[string]any

// FileEntry carries one source file's full text content
// and the SHA-256 hex digest of that content.
type FileEntry struct {
	Content string `json:"content"`
	Digest  string `json:"digest"`
}

// FilesField is the document key under which file entries are stored.
const FilesField = "files"

// Encode serializes the document to JSON, compresses it with zlib at best
// compression and renders the compressed bytes as standard padded base64.
// The returned text is the archive payload written to the pool.
func Encode(doc Document) (string, error) {
	serialized, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}

	var compressed bytes.Buffer

	writer, err := zlib.NewWriterLevel(&compressed, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("create compressor: %w", err)
	}

	if _, err = writer.Write(serialized); err != nil {
		return "", fmt.Errorf("compress document: %w", err)
	}

	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("flush compressor: %w", err)
	}

	return base64.StdEncoding.EncodeToString(compressed.Bytes()), nil
}

// Decode reverses Encode: base64 decode, decompress, parse JSON.
// Numbers are decoded as json.Number so re-encoding a decoded document
// reproduces numeric manifest fields verbatim.
func Decode(payload string) (Document, error) {
	compressed, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode archive text: %w", err)
	}

	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("create decompressor: %w", err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = reader.Close()
	}()

	serialized, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(serialized))
	decoder.UseNumber()

	var doc Document
	if err = decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
