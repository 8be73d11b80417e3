package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	var runs int32
	s := New(time.Second, 0, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		atomic.AddInt32(&runs, 1)
		return nil
	}, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 500*time.Millisecond, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerKeepsRunningAfterFailure(t *testing.T) {
	var runs int32
	s := New(time.Second, time.Second, func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return errors.New("upstream unavailable")
	}, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerRejectsNonPositiveInterval(t *testing.T) {
	s := New(0, 0, func(context.Context) error { return nil }, nil)
	assert.Error(t, s.Start())
}
