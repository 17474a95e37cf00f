package utils

import (
	"context"
	"time"
)

const blacklistKeyPrefix = "jwt:blacklist:"

var revokedTokens = newExpiringSet()

// BlacklistToken revokes a token until its natural expiry.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err == nil {
			return
		}
		Sugar.Warn("redis blacklist write failed, keeping revocation in memory")
	}
	revokedTokens.add(token, expiresAt)
}

// IsTokenBlacklisted checks if a token was revoked before natural expiry.
func IsTokenBlacklisted(token string) bool {
	if revokedTokens.has(token) {
		return true
	}
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		// fail open: a Redis outage must not log everyone out
		return false
	}
	return n > 0
}
