package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-scheduler/pkg/apperror"

	"github.com/sirupsen/logrus"
)

// KeyLocker serialises work per key. Callers holding the same key never run
// fn concurrently; different keys never block each other.
type KeyLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
	Stop()
}

// ErrLockBusy is returned when the lock could not be taken before ctx ended
// or the configured wait elapsed.
var ErrLockBusy = apperror.New(apperror.KindBusy, "slot is being booked by another request, try again")

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// localKeyLocker keeps one mutex per key in process memory.
// Valid only while a single instance serves bookings.
type localKeyLocker struct {
	log *logrus.Logger

	keys sync.Map // map[string]*keyMutex

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// keyMutex is a channel based mutex so waiters can give up on ctx.Done
type keyMutex struct {
	ch       chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
}

func newKeyMutex() *keyMutex {
	return &keyMutex{ch: make(chan struct{}, 1)}
}

func (m *keyMutex) tryLock() bool {
	select {
	case m.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *keyMutex) unlock() {
	<-m.ch
}

// NewLocalKeyLocker starts a background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewLocalKeyLocker(log *logrus.Logger) KeyLocker {
	return newLocalKeyLocker(log, mutexCleanupInterval)
}

func newLocalKeyLocker(log *logrus.Logger, cleanupInterval time.Duration) *localKeyLocker {
	l := &localKeyLocker{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop(cleanupInterval)

	return l
}

func (l *localKeyLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	m, err := l.acquire(ctx, key)
	if err != nil {
		return err
	}
	defer m.unlock()

	return fn(ctx)
}

func (l *localKeyLocker) acquire(ctx context.Context, key string) (*keyMutex, error) {
	for {
		v, _ := l.keys.LoadOrStore(key, newKeyMutex())
		m := v.(*keyMutex)
		m.lastUsed.Store(time.Now().Unix())

		select {
		case m.ch <- struct{}{}:
		case <-ctx.Done():
			return nil, apperror.Wrap(apperror.KindBusy, ErrLockBusy.Message, ctx.Err())
		}

		// Cleanup may have dropped this mutex while we waited on it
		if cur, ok := l.keys.Load(key); ok && cur == m {
			return m, nil
		}
		m.unlock()
	}
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *localKeyLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("Local key locker stopped")
	}
}

func (l *localKeyLocker) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStale removes unused mutexes. Only mutexes that can be locked
// right now are removed, and lastUsed is checked while holding them.
func (l *localKeyLocker) cleanupStale(cutoff time.Time) int {
	var cleaned int

	l.keys.Range(func(key, value any) bool {
		m, ok := value.(*keyMutex)
		if !ok {
			return true
		}
		if m.tryLock() {
			if m.lastUsed.Load() < cutoff.Unix() {
				l.keys.Delete(key)
				cleaned++
			}
			m.unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale booking mutexes", cleaned)
	}
	return cleaned
}

// BookingLockKey is the critical section key of one bookable cell.
func BookingLockKey(doctorID int64, date time.Time, slotID int64) string {
	return fmt.Sprintf("booking:%d:%s:%d", doctorID, date.Format("2006-01-02"), slotID)
}
