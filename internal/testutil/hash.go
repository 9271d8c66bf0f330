package testutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the SHA-256 checksum of data as a lowercase hex string.
// Matches the checksum format the vault uses for album scans.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// PDF returns a minimal byte slice that passes the scan header check.
func PDF(body string) []byte {
	return []byte("%PDF-1.4\n" + body)
}
