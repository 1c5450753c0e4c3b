package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Checksum reads r to EOF and returns its length and hex SHA-256 digest.
func Checksum(r io.Reader) (int64, string, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return n, "", fmt.Errorf("checksumming: %w", err)
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
