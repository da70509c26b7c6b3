package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// QueryKey generates a cache key for a search query scoped to one connector.
func QueryKey(connector, query string) string {
	hash := sha256.Sum256([]byte(connector + "\x00" + query))
	return "factguard:v1:" + hex.EncodeToString(hash[:])
}
