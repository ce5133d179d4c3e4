package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLPendingReview = 30 * time.Second // review queue changes on every transition
	TTLHistory       = 2 * time.Minute
	TTLDefault       = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixPendingReview = "workflow:pending"
	PrefixHistory       = "workflow:history:"
)

// ErrCacheMiss is returned when a key is absent
var ErrCacheMiss = errors.New("cache miss")

// Service is the Redis-backed cache for workflow read views
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetPendingReview(ctx context.Context, dest interface{}) error
	SetPendingReview(ctx context.Context, data interface{}) error
	InvalidatePendingReview(ctx context.Context) error
	InvalidateHistory(ctx context.Context, postID uint) error
}

type service struct {
	client *redis.Client
}

// NewService creates a cache service backed by the given Redis client
func NewService(client *redis.Client) Service {
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *service) GetPendingReview(ctx context.Context, dest interface{}) error {
	return s.Get(ctx, PrefixPendingReview, dest)
}

func (s *service) SetPendingReview(ctx context.Context, data interface{}) error {
	return s.Set(ctx, PrefixPendingReview, data, TTLPendingReview)
}

func (s *service) InvalidatePendingReview(ctx context.Context) error {
	return s.Delete(ctx, PrefixPendingReview)
}

func (s *service) InvalidateHistory(ctx context.Context, postID uint) error {
	return s.Delete(ctx, fmt.Sprintf("%s%d", PrefixHistory, postID))
}
