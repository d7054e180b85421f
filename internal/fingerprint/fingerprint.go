// Package fingerprint computes content hashes for uploaded files so the
// backend can recognise identical uploads.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read size used while hashing (2 MiB).
const ChunkSize = 2 * 1024 * 1024

// Reader hashes r in ChunkSize pieces and returns the lowercase hex MD5.
func Reader(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read chunk: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes hashes an in-memory buffer.
func Bytes(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// File hashes the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return sum, nil
}
