package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	redisLockKeyPrefix   = "lock:"
	redisLockRetryPeriod = 25 * time.Millisecond
)

var errLockHeld = errors.New("lock held by another owner")

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// redisKeyLocker guards a key across instances with SET NX and a random token.
type redisKeyLocker struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisKeyLocker creates a locker whose keys expire after ttl and whose
// callers wait at most wait for a held key.
func NewRedisKeyLocker(client *redis.Client, log *logrus.Logger, ttl, wait time.Duration) KeyLocker {
	return &redisKeyLocker{
		client: client,
		log:    log,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *redisKeyLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lockKey := redisLockKeyPrefix + key
	token := uuid.NewString()

	backoff := retry.WithMaxDuration(l.wait, retry.NewConstant(redisLockRetryPeriod))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if !ok {
			return retry.RetryableError(errLockHeld)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errLockHeld) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return apperror.Wrap(apperror.KindBusy, ErrLockBusy.Message, err)
		}
		return err
	}

	defer func() {
		if err := l.release(context.WithoutCancel(ctx), lockKey, token); err != nil {
			l.log.Warnf("Failed to release lock %s: %+v", lockKey, err)
		}
	}()

	// The work must finish before the key can expire under us
	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisKeyLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Stop is a no-op; the redis client is closed by its owner.
func (l *redisKeyLocker) Stop() {}
