package utils

import (
	"context"
	"time"
)

const stateKeyPrefix = "oauth:state:"

var oauthStates = newExpiringSet()

// SaveState stores a single-use OAuth state token.
func SaveState(state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err == nil {
			return
		}
	}
	oauthStates.add(state, time.Now().Add(ttl))
}

// ConsumeState validates and removes a state token. A state is accepted at most once.
func ConsumeState(state string) bool {
	if state == "" {
		return false
	}
	if oauthStates.take(state) {
		return true
	}
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := rc.GetDel(ctx, stateKeyPrefix+state).Result()
	return err == nil && v != ""
}
