package rates_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gremlinx/exchange-service/internal/rates"

	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	label string
	price float64
	err   error
	delay time.Duration
}

func (s *stubSource) Label() string { return s.label }

func (s *stubSource) FetchPrice(ctx context.Context) (float64, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

var testConfig = rates.Config{
	Pair:         "USDT/RUB",
	FeeFraction:  0.015,
	FallbackRate: 98.50,
}

func newAggregator(sources ...rates.Source) *rates.Aggregator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return rates.NewAggregator(logger, testConfig, sources...)
}

func TestAggregator_GetQuote(t *testing.T) {
	sourceErr := errors.New("connection refused")

	t.Run("uses primary source", func(t *testing.T) {
		agg := newAggregator(
			&stubSource{label: "bestchange", price: 100},
			&stubSource{label: "bybit", price: 90},
		)

		quote := agg.GetQuote(context.Background())

		assert.Equal(t, "bestchange", quote.Source)
		assert.False(t, quote.Degraded)
		assert.Equal(t, 100.0, quote.MarketRate)
		assert.Equal(t, 98.5, quote.OurRate)
		assert.InDelta(t, 98.5, quote.OurRateExact, 1e-9)
		assert.Equal(t, 1.5, quote.FeePercent)
	})

	t.Run("falls back to next source by priority", func(t *testing.T) {
		agg := newAggregator(
			&stubSource{label: "bestchange", err: sourceErr},
			&stubSource{label: "bybit", price: 90},
			&stubSource{label: "binance", price: 80},
		)

		quote := agg.GetQuote(context.Background())

		assert.Equal(t, "bybit", quote.Source)
		assert.False(t, quote.Degraded)
		assert.Equal(t, 90.0, quote.MarketRate)
	})

	t.Run("slow secondary does not change priority", func(t *testing.T) {
		agg := newAggregator(
			&stubSource{label: "bestchange", price: 100},
			&stubSource{label: "bybit", price: 90, delay: 50 * time.Millisecond},
		)

		quote := agg.GetQuote(context.Background())
		assert.Equal(t, "bestchange", quote.Source)
	})

	t.Run("all sources failed serves degraded fallback", func(t *testing.T) {
		agg := newAggregator(
			&stubSource{label: "bestchange", err: sourceErr},
			&stubSource{label: "bybit", err: sourceErr},
			&stubSource{label: "binance", err: sourceErr},
		)

		quote := agg.GetQuote(context.Background())

		assert.True(t, quote.Degraded)
		assert.Equal(t, "fallback", quote.Source)
		assert.Equal(t, 98.50, quote.MarketRate)
		assert.Equal(t, 97.02, quote.OurRate)
	})

	t.Run("rounds display rate to two decimals", func(t *testing.T) {
		agg := newAggregator(&stubSource{label: "bestchange", price: 99.999})

		quote := agg.GetQuote(context.Background())

		assert.Equal(t, 98.5, quote.OurRate)
		assert.InDelta(t, 98.499015, quote.OurRateExact, 1e-6)
	})
}
