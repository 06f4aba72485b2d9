// Package contenthash fingerprints document text for deduplication.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of text. Identical byte
// sequences always produce identical digests; the digest is the
// deduplication key, not a security boundary.
func Sum(text string) string {
	digest := sha256.Sum256([]byte(text))
	return hex.EncodeToString(digest[:])
}

// Short returns the first 12 hex characters of Sum(text), convenient
// for log lines and cache keys.
func Short(text string) string {
	sum := Sum(text)
	return sum[:12]
}
