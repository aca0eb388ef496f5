package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/scheduler"
)

func TestScheduler_RejectsBadSpec(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := scheduler.New(time.UTC, log)

	err := s.Add("snapshot", "whenever", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduling snapshot")
}

func TestScheduler_RunsJobsUntilCancelled(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := scheduler.New(time.UTC, log)

	var runs atomic.Int32
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	var failed bool
	for _, e := range hook.AllEntries() {
		if e.Message == "scheduled job failed" {
			failed = true
		}
	}
	assert.True(t, failed, "job errors are logged, not fatal")
}
