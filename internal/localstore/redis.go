package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKV is the subset of the go-redis client the store uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis keeps flags in a shared Redis, namespaced per actor.
type Redis struct {
	client    redisKV
	namespace string
}

// NewRedis wraps client.
func NewRedis(client redisKV, namespace string) *Redis {
	if namespace == "" {
		namespace = "default"
	}
	return &Redis{client: client, namespace: namespace}
}

func (r *Redis) key(courseID int64) string {
	return "course-portal:" + r.namespace + ":" + Key(courseID)
}

// Enrolled implements Store.
func (r *Redis) Enrolled(ctx context.Context, courseID int64) (bool, error) {
	val, err := r.client.Get(ctx, r.key(courseID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", r.key(courseID), err)
	}
	return val == "true", nil
}

// SetEnrolled implements Store.
func (r *Redis) SetEnrolled(ctx context.Context, courseID int64, enrolled bool) error {
	key := r.key(courseID)
	if !enrolled {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
		return nil
	}
	if err := r.client.Set(ctx, key, "true", 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
