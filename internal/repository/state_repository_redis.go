package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/shophub-client/internal/observability"
)

type RedisStateRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStateRepository(client redis.UniversalClient, prefix string) *RedisStateRepository {
	if prefix == "" {
		prefix = "shophub"
	}
	return &RedisStateRepository{client: client, prefix: prefix}
}

func (r *RedisStateRepository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.dataKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		observability.RecordRepositoryOperation(ctx, "redis", "get", "not_found")
		return "", ErrStateNotFound
	}
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "redis", "get", "error")
		return "", err
	}
	observability.RecordRepositoryOperation(ctx, "redis", "get", "success")
	return v, nil
}

func (r *RedisStateRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.dataKey(key), value, 0).Err(); err != nil {
		observability.RecordRepositoryOperation(ctx, "redis", "set", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "redis", "set", "success")
	return nil
}

func (r *RedisStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.dataKey(key)).Err(); err != nil {
		observability.RecordRepositoryOperation(ctx, "redis", "delete", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "redis", "delete", "success")
	return nil
}

func (r *RedisStateRepository) dataKey(key string) string {
	return r.prefix + ":state:" + key
}
