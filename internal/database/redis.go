package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisService struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection with a PING.
func NewRedis(ctx context.Context, addr, password string, db int) (Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("database: redis ping: %w", err)
	}
	return NewRedisWithClient(client), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) Service {
	return &redisService{client: client}
}

func (s *redisService) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	stats := map[string]string{"driver": "redis"}
	if err := s.client.Ping(ctx).Err(); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("redis down: %v", err)
		return stats
	}
	stats["status"] = "up"

	pool := s.client.PoolStats()
	stats["total_conns"] = fmt.Sprint(pool.TotalConns)
	stats["idle_conns"] = fmt.Sprint(pool.IdleConns)
	stats["timeouts"] = fmt.Sprint(pool.Timeouts)
	return stats
}

func (s *redisService) Close() error {
	return s.client.Close()
}

func (s *redisService) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("database: redis get: %w", err)
	}
	return v, true, nil
}

func (s *redisService) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("database: redis set: %w", err)
	}
	return nil
}

func (s *redisService) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("database: redis del: %w", err)
	}
	return nil
}
