package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apaaranddhruv/satsang/internal/config"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

const keyPrefix = "otp:"

// RedisStore keeps OTP records in Redis with a TTL slightly past the
// code deadline, so abandoned records disappear even without a sweep.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed OTP store
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client, used in tests
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get returns the record for an email, or nil if none exists
func (s *RedisStore) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	data, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get OTP record: %w", err)
	}

	var rec models.OTPRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OTP record: %w", err)
	}

	return &rec, nil
}

// Put stores the record, replacing any prior one. The Redis TTL is the
// code ttl plus a minute of slack so RemainingTime can still observe a
// just-expired record before it vanishes.
func (s *RedisStore) Put(ctx context.Context, rec *models.OTPRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal OTP record: %w", err)
	}

	return s.client.Set(ctx, keyPrefix+rec.Email, data, ttl+time.Minute).Err()
}

// Delete removes the record for an email, if any
func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}

// All returns every stored record
func (s *RedisStore) All(ctx context.Context) ([]*models.OTPRecord, error) {
	var out []*models.OTPRecord

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get OTP record: %w", err)
		}

		var rec models.OTPRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal OTP record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan OTP records: %w", err)
	}

	return out, nil
}
