package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCleaner) CleanupOlderThan(_ context.Context, _ time.Duration) (CleanupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return CleanupResult{MessagesDeleted: 3, SessionsDeleted: 1}, f.err
}

func (f *fakeCleaner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestJanitorRunOnce(t *testing.T) {
	fc := &fakeCleaner{}
	j := NewJanitor(fc, time.Hour, 0, nil)

	res, err := j.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.MessagesDeleted)
	assert.Equal(t, 1, fc.count())

	fc.err = errors.New("locked")
	_, err = j.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestJanitorTrigger(t *testing.T) {
	fc := &fakeCleaner{}
	j := NewJanitor(fc, time.Hour, 0, nil)

	results := make(chan CleanupResult, 4)
	j.OnComplete(func(r CleanupResult, err error) {
		assert.NoError(t, err)
		results <- r
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	j.Trigger()
	select {
	case r := <-results:
		assert.Equal(t, int64(1), r.SessionsDeleted)
	case <-time.After(2 * time.Second):
		t.Fatal("triggered cleanup did not run")
	}
}

func TestJanitorSchedule(t *testing.T) {
	fc := &fakeCleaner{}
	j := NewJanitor(fc, time.Hour, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	require.Eventually(t, func() bool { return fc.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestJanitorTriggerCoalesces(t *testing.T) {
	j := NewJanitor(&fakeCleaner{}, time.Hour, 0, nil)
	j.Trigger()
	j.Trigger()
	assert.Len(t, j.trigger, 1)
}
