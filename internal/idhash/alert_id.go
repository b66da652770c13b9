package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeAlertID computes a deterministic alert id using SHA256.
// Formula: SHA256(mint|unix_millis)
// Returns hex-encoded hash (64 characters). Unique per emission;
// collisions across re-validations of the same mint are acceptable
// because the storage upsert key is the mint, not the id.
func ComputeAlertID(mint string, createdAt time.Time) string {
	data := fmt.Sprintf("%s|%d", mint, createdAt.UnixMilli())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
