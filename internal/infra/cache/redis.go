package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compliance-service/internal/config"
	"compliance-service/internal/rbac"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	redisPingTimeout = 3 * time.Second

	errRedisPingFmt       = "failed to ping redis: %w"
	errRedisGetFmt        = "failed to read role from redis: %w"
	errRedisSetFmt        = "failed to write role to redis: %w"
	errRedisDeleteFmt     = "failed to delete role from redis: %w"
	errRedisGenerationFmt = "failed to read role generation from redis: %w"
)

// RedisCache is a RoleCache shared between service replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client from cfg and verifies it answers PING.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf(errRedisPingFmt, err)
	}

	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, userID uuid.UUID) (rbac.Role, error) {
	val, err := r.client.Get(ctx, BuildRoleKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return rbac.NoRole, ErrCacheMiss
		}
		return rbac.NoRole, fmt.Errorf(errRedisGetFmt, err)
	}
	return rbac.Role(val), nil
}

func (r *RedisCache) Generation(ctx context.Context, userID uuid.UUID) (uint64, error) {
	gen, err := readGeneration(ctx, r.client, BuildGenerationKey(userID))
	if err != nil {
		return 0, fmt.Errorf(errRedisGenerationFmt, err)
	}
	return gen, nil
}

// SetIfGeneration watches the generation key, so a Delete from any replica
// between the read and the write aborts the transaction.
func (r *RedisCache) SetIfGeneration(ctx context.Context, userID uuid.UUID, role rbac.Role, gen uint64) (bool, error) {
	genKey := BuildGenerationKey(userID)
	stored := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, BuildRoleKey(userID), string(role), r.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(errRedisSetFmt, err)
	}
	return stored, nil
}

func (r *RedisCache) Delete(ctx context.Context, userID uuid.UUID) error {
	genKey := BuildGenerationKey(userID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, BuildRoleKey(userID))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf(errRedisDeleteFmt, err)
	}
	return nil
}

type keyReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, client keyReader, key string) (uint64, error) {
	gen, err := client.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
