package application

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// snapshotWriter persists the latest payload for one key. Schedule never
// blocks. A single drain goroutine writes whatever payload is newest when it
// gets to it, so writes for a key are serialised and a stale payload is
// never written after a newer one.
type snapshotWriter struct {
	key   string
	kv    domain.KVStore
	retry domain.RetryConfig
	log   logrus.FieldLogger
	warn  domain.WarningSink

	mu        sync.Mutex
	pending   *string
	running   bool
	idle      chan struct{}
	scheduled int
	lastErr   error
}

func newSnapshotWriter(key string, kv domain.KVStore, o options) *snapshotWriter {
	idle := make(chan struct{})
	close(idle)
	return &snapshotWriter{
		key:   key,
		kv:    kv,
		retry: o.retry,
		log:   o.log.WithField("key", key),
		warn:  o.warn,
		idle:  idle,
	}
}

// Schedule replaces any pending payload with payload and makes sure a
// drain goroutine is running.
func (w *snapshotWriter) Schedule(payload string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.scheduled++
	w.pending = &payload
	if w.running {
		return
	}
	w.running = true
	w.idle = make(chan struct{})
	go w.drain()
}

func (w *snapshotWriter) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.running = false
			close(w.idle)
			w.mu.Unlock()
			return
		}
		payload := *w.pending
		w.pending = nil
		w.mu.Unlock()

		err := w.write(payload)

		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
	}
}

func (w *snapshotWriter) write(payload string) error {
	ctx := context.Background()
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(w.retry.Interval), uint64(w.retry.MaxRetries)),
		ctx,
	)
	err := backoff.RetryNotify(func() error {
		return w.kv.Set(ctx, w.key, payload)
	}, b, func(err error, next time.Duration) {
		w.log.WithError(err).WithField("retry_in", next).Debug("write failed, retrying")
	})
	if err == nil {
		w.log.WithField("bytes", len(payload)).Debug("saved")
		return nil
	}

	perr := &domain.PersistenceError{Op: "save", Key: w.key, Err: err}
	w.log.WithError(err).Warn("save did not complete; in-memory data is still current")
	if w.warn != nil {
		w.warn.Warn(perr)
	}
	return perr
}

// Wait blocks until every scheduled payload has been attempted and returns
// the error of the last attempt.
func (w *snapshotWriter) Wait(ctx context.Context) error {
	for {
		w.mu.Lock()
		idle, running := w.idle, w.running
		w.mu.Unlock()
		if !running {
			break
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Scheduled returns how many writes have been requested.
func (w *snapshotWriter) Scheduled() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scheduled
}
