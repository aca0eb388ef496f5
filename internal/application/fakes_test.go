package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

var errDiskFull = errors.New("disk full")

// memKV is an in-memory domain.KVStore with failure injection.
type memKV struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	failSets int
	setCalls map[string]int

	// When gate is set, Set signals entered and then waits on gate.
	gate    chan struct{}
	entered chan struct{}
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, setCalls: map[string]int{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	gate, entered := m.gate, m.entered
	m.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls[key]++
	if m.failSets > 0 {
		m.failSets--
		return errDiskFull
	}
	m.data[key] = value
	return nil
}

func (m *memKV) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls[key]
}

func (m *memKV) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	return out
}

// warnings collects everything sent to the warning sink.
type warnings struct {
	mu   sync.Mutex
	errs []error
}

func (w *warnings) Warn(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errs = append(w.errs, err)
}

func (w *warnings) all() []error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]error(nil), w.errs...)
}

// memHistory is an in-memory domain.SnapshotHistory.
type memHistory struct {
	snaps   []domain.MetricsSnapshot
	loadErr error
}

func (h *memHistory) Save(_ context.Context, s domain.MetricsSnapshot) error {
	h.snaps = append(h.snaps, s)
	return nil
}

func (h *memHistory) Load(context.Context) ([]domain.MetricsSnapshot, error) {
	return h.snaps, h.loadErr
}

var testNow = time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() domain.Clock { return func() time.Time { return testNow } }

func newTestLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func testOptions(w *warnings) []application.Option {
	log, _ := newTestLogger()
	return []application.Option{
		application.WithClock(fixedClock()),
		application.WithLogger(log),
		application.WithWarnings(w),
		application.WithRetry(domain.RetryConfig{MaxRetries: 2, Interval: time.Millisecond}),
		application.WithLocation(time.UTC),
	}
}
