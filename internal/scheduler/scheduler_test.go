package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadCronSpec(t *testing.T) {
	_, err := New("61 99 * * *", 0, func(context.Context) {})
	assert.Error(t, err)

	_, err = New("not a cron line", 0, func(context.Context) {})
	assert.Error(t, err)
}

func TestStartupRunFires(t *testing.T) {
	var runs atomic.Int32
	s, err := New("0 2 * * *", 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestNoStartupRunBeforeStart(t *testing.T) {
	var runs atomic.Int32
	s, err := New("0 2 * * *", 5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "nothing fires until Start")
	s.Start()
	s.Stop()
}

func TestPanickingTaskIsContained(t *testing.T) {
	assert.NotPanics(t, func() {
		runSafely(context.Background(), "test", func(context.Context) {
			panic("boom")
		})
	})
}
