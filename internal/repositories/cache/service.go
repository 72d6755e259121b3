// Package cache stores JSON encoded values in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"fraudgen/internal/models"
)

type CacheService struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCacheService(client redis.UniversalClient, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return eris.Wrap(err, "cache: marshal value")
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

// Get decodes the value at key into dest. A missing key is reported as
// found=false with a nil error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, eris.Wrapf(err, "cache: get %s", key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, eris.Wrapf(err, "cache: unmarshal %s", key)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType string, value interface{}) string {
	return fmt.Sprintf("%s:%v", entityType, value)
}

// Geolocation caching
func (s *CacheService) GetLocation(ctx context.Context, ip string) (*models.Location, error) {
	var loc models.Location
	found, err := s.Get(ctx, s.GenerateKey("geo", ip), &loc)
	if err != nil || !found {
		return nil, err
	}
	return &loc, nil
}

func (s *CacheService) CacheLocation(ctx context.Context, ip string, loc models.Location) error {
	return s.Set(ctx, s.GenerateKey("geo", ip), loc)
}

func (s *CacheService) InvalidateLocation(ctx context.Context, ip string) error {
	return s.Delete(ctx, s.GenerateKey("geo", ip))
}

// Ping reports whether Redis is reachable.
func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
