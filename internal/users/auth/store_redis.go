// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/hushnote/internal/platform/constants"
)

// # Login Attempt Throttle

// RedisLoginThrottle implements [LoginThrottle] with fixed-window Redis counters.
//
// The first failure of a window sets the key TTL to the cooldown; once the
// counter reaches maxAttempts, attempts are refused until the key expires.
type RedisLoginThrottle struct {
	client      redis.UniversalClient
	maxAttempts int64
	cooldown    time.Duration
}

// NewRedisLoginThrottle creates a new Redis-backed LoginThrottle.
func NewRedisLoginThrottle(client redis.UniversalClient, maxAttempts int, cooldown time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		cooldown:    cooldown,
	}
}

/*
Check returns the remaining cooldown if the identifier exhausted its budget.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - time.Duration: Remaining cooldown, zero when allowed
  - error: Execution errors
*/
func (throttle *RedisLoginThrottle) Check(context context.Context, identifier string) (time.Duration, error) {
	key := loginAttemptsKey(identifier)

	count, err := throttle.client.Get(context, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	if count < throttle.maxAttempts {
		return 0, nil
	}

	remaining, err := throttle.client.TTL(context, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_throttle_ttl_failed: %w", err)
	}

	// Key without expiry (or expiring right now): fall back to the full cooldown.
	if remaining <= 0 {
		remaining = throttle.cooldown
	}

	return remaining, nil
}

/*
RecordFailure increments the failure counter, starting the window on first hit.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - error: Execution errors
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, identifier string) error {
	key := loginAttemptsKey(identifier)

	count, err := throttle.client.Incr(context, key).Result()
	if err != nil {
		return fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	if count == 1 {
		if err := throttle.client.Expire(context, key, throttle.cooldown).Err(); err != nil {
			return fmt.Errorf("redis_login_throttle_expire_failed: %w", err)
		}
	}

	return nil
}

/*
Reset removes the failure counter.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - error: Deletion failures
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, identifier string) error {
	if err := throttle.client.Del(context, loginAttemptsKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_delete_failed: %w", err)
	}
	return nil
}

// loginAttemptsKey namespaces the identifier exactly as submitted.
func loginAttemptsKey(identifier string) string {
	return constants.RedisPrefixLoginAttempts + identifier
}
