// Package util provides content hashing helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ETag wraps a content hash as a strong entity tag.
func ETag(content []byte) string {
	return `"` + ContentHash(content)[:16] + `"`
}
