package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives "<stage>:<sha256 of the JSON-encoded parts>". Struct
// fields encode in declaration order, so equal options give equal keys.
func hashKey(stage string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return stage + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Grid hashes use it to key the
// graph and artifact stages on grid content rather than request fields.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
