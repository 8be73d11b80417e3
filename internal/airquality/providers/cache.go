package providers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResponseCache stores raw response bodies keyed by request signature.
// Get reports ok=false for missing or expired entries.
type ResponseCache interface {
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// requestSignature derives the cache key for a request.
func requestSignature(method, rawURL string) string {
	sum := sha256.Sum256([]byte(method + " " + rawURL))
	return hex.EncodeToString(sum[:])
}
