package conversation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/metrics"
)

// Cleaner is the slice of the store the janitor needs.
type Cleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (CleanupResult, error)
}

// Janitor is the housekeeping task that prunes expired sessions and log
// entries. It runs on its own schedule, outside any conversation turn.
type Janitor struct {
	store    Cleaner
	maxAge   time.Duration
	interval time.Duration
	trigger  chan struct{}
	logger   *zap.Logger
	done     func(CleanupResult, error)
}

// NewJanitor creates a janitor removing data older than maxAge every
// interval. A zero interval disables the schedule; Trigger still works.
func NewJanitor(store Cleaner, maxAge, interval time.Duration, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// OnComplete registers a callback invoked after every pass run by Run.
func (j *Janitor) OnComplete(fn func(CleanupResult, error)) {
	j.done = fn
}

// RunOnce performs a single cleanup pass.
func (j *Janitor) RunOnce(ctx context.Context) (CleanupResult, error) {
	res, err := j.store.CleanupOlderThan(ctx, j.maxAge)
	if err != nil {
		j.logger.Error("session cleanup failed", zap.Error(err))
		return res, err
	}

	metrics.CleanupRemoved.WithLabelValues("messages").Add(float64(res.MessagesDeleted))
	metrics.CleanupRemoved.WithLabelValues("sessions").Add(float64(res.SessionsDeleted))
	j.logger.Info("completed session cleanup",
		zap.Duration("max_age", j.maxAge),
		zap.Int64("messages_deleted", res.MessagesDeleted),
		zap.Int64("sessions_deleted", res.SessionsDeleted),
	)
	return res, nil
}

// Trigger requests an extra pass from a running Run loop. Requests made
// while one is already pending are coalesced.
func (j *Janitor) Trigger() {
	select {
	case j.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, cleaning on schedule and on Trigger.
func (j *Janitor) Run(ctx context.Context) {
	var tick <-chan time.Time
	if j.interval > 0 {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		case <-j.trigger:
		}

		res, err := j.RunOnce(ctx)
		if j.done != nil {
			j.done(res, err)
		}
	}
}
