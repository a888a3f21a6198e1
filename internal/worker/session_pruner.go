package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionPruner is the part of the auth service the pruner drives.
type SessionPruner interface {
	PruneExpiredSessions(ctx context.Context) (int64, error)
}

// PruneWorker periodically deletes expired refresh tokens.
type PruneWorker struct {
	pruner   SessionPruner
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPruneWorker builds a worker. A non-positive interval disables it.
func NewPruneWorker(pruner SessionPruner, interval time.Duration, logger *zap.Logger) *PruneWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PruneWorker{pruner: pruner, interval: interval, logger: logger}
}

// Start launches the loop. Calling Start twice is a no-op.
func (w *PruneWorker) Start(ctx context.Context) {
	if w == nil || w.interval <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, w.done)
}

// Stop cancels the loop and waits for it to exit.
func (w *PruneWorker) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *PruneWorker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pruneOnce(ctx)
		}
	}
}

func (w *PruneWorker) pruneOnce(ctx context.Context) {
	n, err := w.pruner.PruneExpiredSessions(ctx)
	if err != nil {
		w.logger.Warn("session prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("pruned expired sessions", zap.Int64("count", n))
	}
}
