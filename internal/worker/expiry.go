package worker

import (
	"context"
	"log/slog"
	"time"
)

type OrderExpirer interface {
	ExpireOrders(ctx context.Context) (int64, error)
}

// ExpiryWorker периодически переводит протухшие waiting_payment
// заказы в failed, чтобы просроченный заказ нельзя было оплатить
// между чтениями.
type ExpiryWorker struct {
	logger   *slog.Logger
	svc      OrderExpirer
	interval time.Duration
}

func NewExpiryWorker(logger *slog.Logger, svc OrderExpirer, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		logger:   logger.With(slog.String("worker", "expiry")),
		svc:      svc,
		interval: interval,
	}
}

// Start запускает цикл чистки и возвращается сразу. Подходит под
// интерфейс стартеров приложения.
func (w *ExpiryWorker) Start(ctx context.Context) error {
	go w.run(ctx)
	return nil
}

func (w *ExpiryWorker) run(ctx context.Context) {
	w.logger.Info("expiry worker started", slog.String("interval", w.interval.String()))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			if _, err := w.svc.ExpireOrders(ctx); err != nil {
				w.logger.Error("sweep failed", slog.Any("error", err))
			}
		}
	}
}
