package rates

import (
	"context"
	"log/slog"
	"math"

	"github.com/gremlinx/exchange-service/internal/entities"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	Pair         string
	FeeFraction  float64
	FallbackRate float64
}

// Aggregator опрашивает источники котировок параллельно и сводит
// результат к одному курсу: берётся первый успешный источник в
// порядке приоритета (порядок sources), не среднее. Если упали все,
// возвращается статический фоллбэк с флагом Degraded.
type Aggregator struct {
	logger  *slog.Logger
	cfg     Config
	sources []Source
}

func NewAggregator(logger *slog.Logger, cfg Config, sources ...Source) *Aggregator {
	return &Aggregator{
		logger:  logger.With(slog.String("service", "rates")),
		cfg:     cfg,
		sources: sources,
	}
}

func (a *Aggregator) GetQuote(ctx context.Context) entities.Quote {
	prices := make([]float64, len(a.sources))
	errs := make([]error, len(a.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			prices[i], errs[i] = src.FetchPrice(ctx)
			return nil
		})
	}
	g.Wait()

	for i, src := range a.sources {
		if errs[i] != nil {
			a.logger.Warn("rate source failed",
				slog.String("source", src.Label()), slog.Any("error", errs[i]))
			continue
		}
		return a.quote(prices[i], src.Label(), false)
	}

	a.logger.Error("all rate sources failed, serving fallback rate",
		slog.Float64("fallback", a.cfg.FallbackRate))
	return a.quote(a.cfg.FallbackRate, "fallback", true)
}

func (a *Aggregator) quote(marketRate float64, source string, degraded bool) entities.Quote {
	exact := marketRate * (1 - a.cfg.FeeFraction)
	return entities.Quote{
		Pair:         a.cfg.Pair,
		MarketRate:   marketRate,
		OurRate:      math.Round(exact*100) / 100,
		OurRateExact: exact,
		FeePercent:   a.cfg.FeeFraction * 100,
		Source:       source,
		Degraded:     degraded,
	}
}
