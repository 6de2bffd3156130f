package services

import (
	"context"
	"fmt"
	"time"

	"modernshop-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// RedisService provides the Redis-backed callback dedup and rate limiting
// guards. All operations are permissive when Redis is not configured: the
// flow stays correct without them because every mutation is idempotent.
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a Redis service over the shared client. The client
// may be nil when REDIS_URL is unset.
func NewRedisService() *RedisService {
	return &RedisService{client: database.GetRedis()}
}

// MarkCallbackProcessed records a callback delivery and reports whether the
// same (checkout, result) pair was already seen. Duplicates are acked but not
// reprocessed.
func (r *RedisService) MarkCallbackProcessed(checkoutRequestID string, resultCode int) (bool, error) {
	if r.client == nil {
		return false, nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("mpesa_callback:%s:%d", checkoutRequestID, resultCode)

	created, err := r.client.SetNX(ctx, key, time.Now().Unix(), 24*time.Hour).Result()
	if err != nil {
		return false, err
	}
	return !created, nil
}

// UnmarkCallbackProcessed releases the dedup claim for a delivery whose
// processing failed, so the provider retry is handled instead of being
// swallowed as a duplicate
func (r *RedisService) UnmarkCallbackProcessed(checkoutRequestID string, resultCode int) error {
	if r.client == nil {
		return nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("mpesa_callback:%s:%d", checkoutRequestID, resultCode)
	return r.client.Del(ctx, key).Err()
}

// CheckInitiateRateLimit reports whether a push was initiated for this phone
// number within the rate limit window
func (r *RedisService) CheckInitiateRateLimit(phoneNumber string) (bool, error) {
	if r.client == nil {
		return false, nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("stk_rate_limit:%s", phoneNumber)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// SetInitiateRateLimit opens a one minute rate limit window for a phone number
func (r *RedisService) SetInitiateRateLimit(phoneNumber string) error {
	if r.client == nil {
		return nil
	}

	ctx := context.Background()
	key := fmt.Sprintf("stk_rate_limit:%s", phoneNumber)
	return r.client.Set(ctx, key, "1", time.Minute).Err()
}
