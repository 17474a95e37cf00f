package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Minute

// CacheGetJSON loads a cached value into out. It reports false on a miss, when Redis is
// disabled, or when the stored bytes do not decode.
func CacheGetJSON(key string, out interface{}) bool {
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		recordCacheLookup(false)
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		Sugar.Warnf("cache decode failed key=%s err=%v", key, err)
		recordCacheLookup(false)
		return false
	}
	recordCacheLookup(true)
	return true
}

// CacheSetIndexedJSON stores v as JSON for ttl (the default TTL when ttl is not positive)
// and records key in the index set, so InvalidateIndex can drop every key of a group
// without scanning the keyspace.
func CacheSetIndexedJSON(index, key string, v interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, b, ttl)
		pipe.SAdd(ctx, index, key)
		pipe.Expire(ctx, index, ttl)
		return nil
	})
	if err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateIndex deletes every key recorded in the index set, and the set itself.
func InvalidateIndex(index string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	keys, err := rc.SMembers(ctx, index).Result()
	if err != nil {
		Sugar.Warnf("cache index read failed index=%s err=%v", index, err)
		return
	}
	if err := rc.Del(ctx, append(keys, index)...).Err(); err != nil {
		Sugar.Warnf("cache invalidate failed index=%s err=%v", index, err)
	}
}
