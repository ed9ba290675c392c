package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/gremlinx/exchange-service/docs"
	"github.com/gremlinx/exchange-service/internal/app"
	"github.com/gremlinx/exchange-service/internal/config"
	"github.com/gremlinx/exchange-service/internal/gateway"
	"github.com/gremlinx/exchange-service/internal/handler"
	"github.com/gremlinx/exchange-service/internal/postgres"
	"github.com/gremlinx/exchange-service/internal/queue"
	"github.com/gremlinx/exchange-service/internal/rates"
	"github.com/gremlinx/exchange-service/internal/repo"
	"github.com/gremlinx/exchange-service/internal/service"
	"github.com/gremlinx/exchange-service/internal/worker"
	"github.com/gremlinx/exchange-service/pkg/cache"
	"github.com/gremlinx/exchange-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Exchange Service API
// @version         1.0
// @description     Обмен USDT на рубли: котировки и жизненный цикл заказов
// @BasePath        /api
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	producer := queue.NewKafkaProducer(conf.Kafka)
	defer producer.Close()

	exchangeGateway := gateway.NewBestChangeGateway(logger, conf.Exchange.ListingURL, conf.Exchange.AutomationTimeout)

	aggregator := rates.NewAggregator(logger, rates.Config{
		Pair:         conf.Rates.Pair,
		FeeFraction:  conf.Rates.FeeFraction,
		FallbackRate: conf.Rates.FallbackRate,
	},
		rates.NewBestChangeSource(conf.Exchange.ListingURL, conf.Rates.SourceTimeout),
		rates.NewBybitSource(conf.Rates.Asset, conf.Rates.Fiat, conf.Rates.SourceTimeout),
		rates.NewBinanceSource(conf.Rates.Asset, conf.Rates.Fiat, conf.Rates.SourceTimeout),
	)

	orderService := service.NewOrderService(logger, txManager, orderRepo, orderCache, producer, exchangeGateway, service.Config{
		Pair:              conf.Rates.Pair,
		FromCurrency:      conf.Exchange.FromCurrency,
		ToCurrency:        conf.Exchange.ToCurrency,
		AutomationTimeout: conf.Exchange.AutomationTimeout,
		PaymentWindow:     conf.Exchange.PaymentWindow,
	})

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, orderService, aggregator)
	expiryWorker := worker.NewExpiryWorker(logger, orderService, conf.Exchange.SweepInterval)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetConsumers(kafkaHandler)
	app.SetStarters(orderCache, expiryWorker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
