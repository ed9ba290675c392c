package worker_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gremlinx/exchange-service/internal/worker"

	"github.com/stretchr/testify/assert"
)

type countingExpirer struct {
	calls atomic.Int64
}

func (e *countingExpirer) ExpireOrders(ctx context.Context) (int64, error) {
	e.calls.Add(1)
	return 0, nil
}

func TestExpiryWorker_Start(t *testing.T) {
	expirer := &countingExpirer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w := worker.NewExpiryWorker(logger, expirer, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, w.Start(ctx))

	assert.Eventually(t, func() bool {
		return expirer.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	calls := expirer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, expirer.calls.Load(), calls+1)
}
