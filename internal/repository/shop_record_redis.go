package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisShopRecordRepository Redis 实现：每个命名空间一个 hash，字段即记录键
type RedisShopRecordRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisShopRecordRepository 创建 Redis 店铺状态仓库
// ttl > 0 时每次写入都会刷新整个命名空间的过期时间
func NewRedisShopRecordRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisShopRecordRepository {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fs"
	}
	return &RedisShopRecordRepository{client: client, prefix: prefix, ttl: ttl}
}

// Get 读取记录
func (r *RedisShopRecordRepository) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, errRedisUnavailable
	}
	val, err := r.client.HGet(ctx, r.hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget failed: %w", err)
	}
	return val, true, nil
}

// Set 写入记录
func (r *RedisShopRecordRepository) Set(ctx context.Context, namespace, key, value string) error {
	if r.client == nil {
		return errRedisUnavailable
	}
	hashKey := r.hashKey(namespace)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, hashKey, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// Clear 删除命名空间
func (r *RedisShopRecordRepository) Clear(ctx context.Context, namespace string) error {
	if r.client == nil {
		return errRedisUnavailable
	}
	if err := r.client.Del(ctx, r.hashKey(namespace)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (r *RedisShopRecordRepository) hashKey(namespace string) string {
	return fmt.Sprintf("%s:shop:%s", r.prefix, namespace)
}

var errRedisUnavailable = errors.New("redis client not initialized")
