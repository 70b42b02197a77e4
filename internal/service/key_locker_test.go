package service

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"clinic-scheduler/pkg/apperror"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLocalKeyLocker_SerializesSameKey(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	var inside, maxInside, runs atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Go(func() {
			err := l.WithLock(context.Background(), "booking:1:2030-01-07:1", func(ctx context.Context) error {
				n := inside.Add(1)
				for {
					cur := maxInside.Load()
					if n <= cur || maxInside.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				runs.Add(1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	if maxInside.Load() != 1 {
		t.Errorf("expected at most one holder, saw %d", maxInside.Load())
	}
	if runs.Load() != 20 {
		t.Errorf("expected 20 runs, got %d", runs.Load())
	}
}

func TestLocalKeyLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "a", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ran := false
	if err := l.WithLock(ctx, "b", func(ctx context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected fn to run under key b")
	}
}

func TestLocalKeyLocker_ContextCancelledWhileWaiting(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "k", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.WithLock(ctx, "k", func(ctx context.Context) error {
		t.Error("fn must not run without the lock")
		return nil
	})
	if apperror.KindOf(err) != apperror.KindBusy {
		t.Errorf("expected busy, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestLocalKeyLocker_PropagatesFnError(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	boom := errors.New("boom")
	if err := l.WithLock(context.Background(), "k", func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	// lock released after error
	if err := l.WithLock(context.Background(), "k", func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLocalKeyLocker_CleanupStale(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	for _, key := range []string{"a", "b"} {
		if err := l.WithLock(context.Background(), key, func(ctx context.Context) error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if n := l.cleanupStale(time.Now().Add(-time.Hour)); n != 0 {
		t.Errorf("expected fresh mutexes to survive, cleaned %d", n)
	}
	if n := l.cleanupStale(time.Now().Add(time.Hour)); n != 2 {
		t.Errorf("expected 2 stale mutexes cleaned, got %d", n)
	}
	if _, ok := l.keys.Load("a"); ok {
		t.Error("expected key a to be removed")
	}
}

func TestLocalKeyLocker_CleanupSkipsHeldMutex(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Hour)
	defer l.Stop()

	err := l.WithLock(context.Background(), "k", func(ctx context.Context) error {
		if n := l.cleanupStale(time.Now().Add(time.Hour)); n != 0 {
			t.Errorf("expected held mutex to survive, cleaned %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLocalKeyLocker_StopIsIdempotent(t *testing.T) {
	l := newLocalKeyLocker(quietLogger(), time.Millisecond)
	l.Stop()
	l.Stop()
}

func TestBookingLockKey(t *testing.T) {
	date := time.Date(2030, 1, 7, 0, 0, 0, 0, time.Local)
	if got := BookingLockKey(3, date, 5); got != "booking:3:2030-01-07:5" {
		t.Errorf("unexpected key %q", got)
	}
}
