package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"clinic-scheduler/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient returns nil, nil when redis is disabled. Callers then fall
// back to the in-process lock, a no-op availability cache and stateless tokens.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	if !cfg.Enabled {
		log.Info("Redis disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithField("addr", client.Options().Addr).Info("Connected to Redis")
	return client, nil
}
