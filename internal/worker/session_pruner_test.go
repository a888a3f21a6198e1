package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingPruner struct {
	calls atomic.Int64
	err   error
}

func (p *countingPruner) PruneExpiredSessions(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func TestPruneWorker_RunsUntilStopped(t *testing.T) {
	pruner := &countingPruner{}
	w := NewPruneWorker(pruner, 5*time.Millisecond, zap.NewNop())

	w.Start(context.Background())
	w.Start(context.Background())
	assert.Eventually(t, func() bool { return pruner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()

	after := pruner.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, pruner.calls.Load())
}

func TestPruneWorker_DisabledWithoutInterval(t *testing.T) {
	pruner := &countingPruner{}
	w := NewPruneWorker(pruner, 0, nil)

	w.Start(context.Background())
	w.Stop()
	assert.Zero(t, pruner.calls.Load())
}

func TestPruneWorker_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := NewPruneWorker(&countingPruner{err: errors.New("store down")}, time.Hour, zap.New(core))

	w.pruneOnce(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("session prune failed").Len())
}

func TestPruneWorker_ParentCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewPruneWorker(&countingPruner{}, time.Millisecond, nil)

	w.Start(ctx)
	cancel()
	w.Stop()
}

func TestBackground_StartStop(t *testing.T) {
	pruner := &countingPruner{}
	bg := Start(context.Background(), nil, NewPruneWorker(pruner, time.Millisecond, nil))
	assert.Eventually(t, func() bool { return pruner.calls.Load() >= 1 }, time.Second, time.Millisecond)
	bg.Stop()

	var none *Background
	none.Stop()
}
