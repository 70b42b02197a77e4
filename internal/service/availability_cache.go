package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	availabilityKeyPrefix = "availability:"
	availabilityGenPrefix = "availability:gen:"
)

// AvailabilityCache stores computed free slots per (doctor, date) for reads.
// Booking decisions never consult it.
//
// Entries are versioned by a per-doctor generation. Get returns the generation
// it read and Set stores under that generation, so a result computed before an
// invalidation lands on a key nobody reads again.
type AvailabilityCache interface {
	// Get reports ok=false on a miss. gen is negative when the generation
	// could not be read; Set ignores such writes.
	Get(ctx context.Context, doctorID int64, date time.Time) (slots []entity.TimeSlot, gen int64, ok bool)
	Set(ctx context.Context, doctorID int64, date time.Time, gen int64, slots []entity.TimeSlot)
	Invalidate(ctx context.Context, doctorID int64, date time.Time)
	// InvalidateDoctor drops every cached date of the doctor
	InvalidateDoctor(ctx context.Context, doctorID int64)
}

type redisAvailabilityCache struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, log *logrus.Logger, ttl time.Duration) AvailabilityCache {
	return &redisAvailabilityCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func availabilityGenKey(doctorID int64) string {
	return fmt.Sprintf("%s%d", availabilityGenPrefix, doctorID)
}

func availabilityKey(doctorID, gen int64, date time.Time) string {
	return fmt.Sprintf("%s%d:g%d:%s", availabilityKeyPrefix, doctorID, gen, date.Format("2006-01-02"))
}

func (c *redisAvailabilityCache) generation(ctx context.Context, doctorID int64) (int64, error) {
	gen, err := c.client.Get(ctx, availabilityGenKey(doctorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Cache failures are logged and treated as misses
func (c *redisAvailabilityCache) Get(ctx context.Context, doctorID int64, date time.Time) ([]entity.TimeSlot, int64, bool) {
	gen, err := c.generation(ctx, doctorID)
	if err != nil {
		c.log.Warnf("Failed to read availability generation: %+v", err)
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, availabilityKey(doctorID, gen, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read availability cache: %+v", err)
		}
		return nil, gen, false
	}

	var slots []entity.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warnf("Failed to decode availability cache: %+v", err)
		return nil, gen, false
	}
	return slots, gen, true
}

func (c *redisAvailabilityCache) Set(ctx context.Context, doctorID int64, date time.Time, gen int64, slots []entity.TimeSlot) {
	if gen < 0 {
		return
	}
	if slots == nil {
		slots = []entity.TimeSlot{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		c.log.Warnf("Failed to encode availability cache: %+v", err)
		return
	}
	if err := c.client.Set(ctx, availabilityKey(doctorID, gen, date), raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to write availability cache: %+v", err)
	}
}

// Invalidate bumps the doctor's generation; entries of older generations
// are never read again and expire with their TTL.
func (c *redisAvailabilityCache) Invalidate(ctx context.Context, doctorID int64, date time.Time) {
	c.InvalidateDoctor(ctx, doctorID)
}

func (c *redisAvailabilityCache) InvalidateDoctor(ctx context.Context, doctorID int64) {
	if err := c.client.Incr(ctx, availabilityGenKey(doctorID)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate availability cache: %+v", err)
	}
}

type noopAvailabilityCache struct{}

// NewNoopAvailabilityCache always misses; used when redis is disabled
func NewNoopAvailabilityCache() AvailabilityCache {
	return noopAvailabilityCache{}
}

func (noopAvailabilityCache) Get(context.Context, int64, time.Time) ([]entity.TimeSlot, int64, bool) {
	return nil, -1, false
}

func (noopAvailabilityCache) Set(context.Context, int64, time.Time, int64, []entity.TimeSlot) {}

func (noopAvailabilityCache) Invalidate(context.Context, int64, time.Time) {}

func (noopAvailabilityCache) InvalidateDoctor(context.Context, int64) {}
