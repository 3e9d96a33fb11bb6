package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the SHA-256 of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKey returns the cache key for a rendered artifact: the hash of
// the output format followed by the DOT text it was rendered from.
func ArtifactKey(format, dot string) string {
	return "artifact:" + Hash([]byte(format+dot))
}
