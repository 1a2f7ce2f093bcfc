package cache

import "fmt"

const (
	RevokedTokenKeyPrefix = "revoked:%s"
	RateLimitKeyPrefix    = "rl:%s:%s"
)

// RevokedTokenKey is the marker key for a logged-out token id.
func RevokedTokenKey(tokenID string) string {
	return fmt.Sprintf(RevokedTokenKeyPrefix, tokenID)
}

// RateLimitKey is the counter key for a limited resource and caller.
func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(RateLimitKeyPrefix, resource, id)
}
