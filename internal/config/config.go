package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Postgres Postgres `validate:"required"`

	Rates Rates `validate:"required"`

	Exchange Exchange `validate:"required"`

	Cache Cache `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Kafka struct {
	GroupID string   `validate:"required"`
	Brokers []string `validate:"required,min=1,dive,hostname_port"`
	Topic   string   `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Rates struct {
	Pair         string  `validate:"required"`
	Asset        string  `validate:"required"`
	Fiat         string  `validate:"required"`
	FeeFraction  float64 `validate:"gte=0,lt=1"`
	FallbackRate float64 `validate:"gt=0"`

	SourceTimeout time.Duration `validate:"gt=0"`
}

type Exchange struct {
	FromCurrency string `validate:"required"`
	ToCurrency   string `validate:"required"`

	ListingURL string `validate:"required,url"`

	AutomationTimeout time.Duration `validate:"gt=0"`
	PaymentWindow     time.Duration `validate:"gt=0"`
	SweepInterval     time.Duration `validate:"gt=0"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Kafka: Kafka{
			GroupID: env("KAFKA_GROUP_ID", "exchange-service"),
			Topic:   env("KAFKA_TOPIC", "orders.created"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "exchange"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Rates: Rates{
			Pair:         env("RATES_PAIR", "USDT/RUB"),
			Asset:        env("RATES_ASSET", "USDT"),
			Fiat:         env("RATES_FIAT", "RUB"),
			FeeFraction:  envFloat("RATES_FEE_FRACTION", 0.015),
			FallbackRate: envFloat("RATES_FALLBACK_RATE", 98.50),

			SourceTimeout: envDuration("RATES_SOURCE_TIMEOUT", 10*time.Second),
		},

		Exchange: Exchange{
			FromCurrency: env("EXCHANGE_FROM_CURRENCY", "USDTTRC20"),
			ToCurrency:   env("EXCHANGE_TO_CURRENCY", "SBER"),

			ListingURL: env("EXCHANGE_LISTING_URL", "https://www.bestchange.com/tether-trc20-to-sberbank.html"),

			AutomationTimeout: envDuration("EXCHANGE_AUTOMATION_TIMEOUT", 30*time.Second),
			PaymentWindow:     envDuration("EXCHANGE_PAYMENT_WINDOW", 15*time.Minute),
			SweepInterval:     envDuration("EXCHANGE_SWEEP_INTERVAL", time.Minute),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
