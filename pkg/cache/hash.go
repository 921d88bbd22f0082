package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 digest of data. Layout results
// key on the digest of the diagram encoding, rendered artifacts on the
// digest of the laid-out encoding.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced key from the JSON encoding of parts.
// Keys carry the full digest, never a truncated prefix.
func hashKey(namespace string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	return namespace + ":" + Hash(raw)
}
