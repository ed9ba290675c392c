package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"
	"github.com/gremlinx/exchange-service/internal/gateway"
	"github.com/gremlinx/exchange-service/pkg/trm"
	"github.com/gremlinx/exchange-service/pkg/utils"

	"github.com/google/uuid"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, order entities.Order) error
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error)

	// UpdateStatus применяет переход from -> to и сообщает, применился ли он.
	UpdateStatus(ctx context.Context, orderID string, from, to entities.Status) (bool, error)
	SaveRequisites(ctx context.Context, orderID string, req entities.Requisites) error
	ExpireOrders(ctx context.Context, now time.Time) (int64, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Queue доставляет заказ воркеру, который поведёт его по жизненному
// циклу. Создание заказа не ждёт завершения обработки.
type Queue interface {
	Enqueue(ctx context.Context, orderID string) error
}

type Config struct {
	Pair         string
	FromCurrency string
	ToCurrency   string

	AutomationTimeout time.Duration
	PaymentWindow     time.Duration
}

type CreateOrderInput struct {
	Amount float64
	Wallet string
	Email  string
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	queue     Queue
	gateway   gateway.Gateway
	cfg       Config
}

func NewOrderService(
	logger *slog.Logger,
	txManager trm.Manager,
	repo OrderRepo,
	cache Cache,
	queue Queue,
	gw gateway.Gateway,
	cfg Config,
) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		queue:     queue,
		gateway:   gw,
		cfg:       cfg,
	}
}

var storeRetry = utils.RetryConfig{
	InitialDelay: 100 * time.Millisecond,
	MaxAttempts:  5,
	Multiplier:   2,
}

// CreateOrder сохраняет заказ в статусе created и ставит его в очередь
// на обработку. Возвращается сразу, не дожидаясь автоматизации.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	if in.Amount <= 0 {
		return entities.Order{}, fmt.Errorf("%w: amount must be positive", entities.ErrInvalidOrder)
	}
	if in.Wallet == "" {
		return entities.Order{}, fmt.Errorf("%w: wallet is required", entities.ErrInvalidOrder)
	}

	order := entities.Order{
		ID: uuid.NewString(),
		User: entities.User{
			Wallet: in.Wallet,
			Email:  in.Email,
		},
		Amount:       in.Amount,
		Pair:         s.cfg.Pair,
		FromCurrency: s.cfg.FromCurrency,
		ToCurrency:   s.cfg.ToCurrency,
		Status:       entities.StatusCreated,
		CreatedAt:    time.Now().UTC(),
	}

	err := utils.Retry(storeRetry, func() error {
		return s.repo.CreateOrder(ctx, order)
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	err = utils.Retry(storeRetry, func() error {
		return s.queue.Enqueue(ctx, order.ID)
	})
	if err != nil {
		// Заказ уже существует, но обработка не стартует. Фиксируем
		// провал на заказе, клиент увидит failed при поллинге.
		s.logger.Error("failed to enqueue order", slog.String("order_id", order.ID), slog.Any("error", err))
		s.failOrder(ctx, order.ID, entities.StatusCreated)
		order.Status = entities.StatusFailed
		return order, nil
	}

	s.logger.Info("order created", slog.String("order_id", order.ID), slog.Float64("amount", order.Amount))
	return order, nil
}

// ProcessOrder ведёт заказ через finding_rate к waiting_payment или
// failed. Вызывается консьюмером очереди; повторная доставка
// безопасна - переход created -> finding_rate применяется ровно раз.
func (s *orderService) ProcessOrder(ctx context.Context, orderID string) error {
	applied, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusCreated, entities.StatusFindingRate)
	if err != nil {
		return fmt.Errorf("failed to start processing: %w", err)
	}
	if !applied {
		order, err := s.repo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		// Повторная доставка застала заказ в finding_rate - прошлая
		// попытка упала, не успев записать провал. Попытка автоматизации
		// одна, вторую не делаем: добиваем заказ в терминальный статус.
		if order.Status == entities.StatusFindingRate {
			s.logger.Warn("order stuck in finding_rate, failing on redelivery", slog.String("order_id", orderID))
			s.failOrder(ctx, orderID, entities.StatusFindingRate)
			return nil
		}
		s.logger.Debug("order already processed, skipping", slog.String("order_id", orderID))
		return nil
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.cfg.AutomationTimeout)
	defer cancel()

	result, err := s.gateway.Execute(gwCtx, order)
	if err != nil {
		// Провал автоматизации терминален для заказа, но не для
		// сервиса: фиксируем и живём дальше. Новый заказ - новая попытка.
		s.logger.Error("automation failed",
			slog.String("order_id", orderID), slog.Any("error", err))
		s.failOrder(ctx, orderID, entities.StatusFindingRate)
		return nil
	}

	req := entities.Requisites{
		Address:    result.Address,
		Amount:     result.Amount,
		Exchanger:  result.Exchanger,
		ValidUntil: time.Now().UTC().Add(s.cfg.PaymentWindow),
	}

	// Реквизиты и статус коммитятся вместе: читатель не должен увидеть
	// waiting_payment без реквизитов.
	err = utils.Retry(storeRetry, func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if err := s.repo.SaveRequisites(ctx, orderID, req); err != nil {
				return fmt.Errorf("failed to save requisites: %w", err)
			}
			applied, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusFindingRate, entities.StatusWaitingPayment)
			if err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}
			if !applied {
				return fmt.Errorf("order %s left finding_rate concurrently", orderID)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("order waiting for payment",
		slog.String("order_id", orderID),
		slog.String("exchanger", req.Exchanger),
		slog.Time("valid_until", req.ValidUntil))
	return nil
}

// GetOrderByID отдаёт последнее закоммиченное состояние заказа.
// Протухший waiting_payment переводится в failed прямо на чтении,
// чтобы клиент не поллил вечно оплачиваемый заказ. Кэшируются только
// терминальные заказы - они уже не изменятся.
func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal cached order", slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, entities.ErrInvalidOrder
		}
		return order, nil
	}

	var order entities.Order
	err := utils.Retry(storeRetry, func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}, entities.ErrOrderNotFound)
	if err != nil {
		return entities.Order{}, err
	}

	if order.Status == entities.StatusWaitingPayment && order.Requisites != nil && order.Requisites.Expired(time.Now()) {
		applied, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusWaitingPayment, entities.StatusFailed)
		if err != nil {
			return entities.Order{}, fmt.Errorf("failed to expire order: %w", err)
		}
		if applied {
			s.logger.Info("order expired on read", slog.String("order_id", orderID))
			order.Status = entities.StatusFailed
		}
	}

	if order.Status.Terminal() {
		if data, err := order.Marshal(); err == nil {
			s.cache.Set(orderID, data)
		}
	}
	return order, nil
}

// ConfirmPayment переводит заказ в paid. Требует, чтобы заказ ждал
// оплату и реквизиты не протухли; повторное подтверждение отклоняется.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID string) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != entities.StatusWaitingPayment {
			return entities.ErrOrderNotPayable
		}
		if order.Requisites == nil || order.Requisites.Expired(time.Now()) {
			if _, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusWaitingPayment, entities.StatusFailed); err != nil {
				return fmt.Errorf("failed to expire order: %w", err)
			}
			return entities.ErrOrderExpired
		}

		applied, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusWaitingPayment, entities.StatusPaid)
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		if !applied {
			return entities.ErrOrderNotPayable
		}

		s.logger.Info("order paid", slog.String("order_id", orderID))
		return nil
	})
}

// CompleteOrder фиксирует подтверждение расчёта с внешней стороны.
// Вызывается вручную или внешним сверщиком, не ядром.
func (s *orderService) CompleteOrder(ctx context.Context, orderID string) error {
	applied, err := s.repo.UpdateStatus(ctx, orderID, entities.StatusPaid, entities.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}
	if !applied {
		if _, err := s.repo.GetOrderByID(ctx, orderID); err != nil {
			return err
		}
		return entities.ErrOrderNotPayable
	}
	s.logger.Info("order completed", slog.String("order_id", orderID))
	return nil
}

// ExpireOrders - периодическая чистка: все протухшие waiting_payment
// переводятся в failed.
func (s *orderService) ExpireOrders(ctx context.Context) (int64, error) {
	expired, err := s.repo.ExpireOrders(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire orders: %w", err)
	}
	if expired > 0 {
		s.logger.Info("expired stale orders", slog.Int64("count", expired))
	}
	return expired, nil
}

func (s *orderService) failOrder(ctx context.Context, orderID string, from entities.Status) {
	// Запись провала переживает отмену исходного контекста, иначе
	// остановка консьюмера оставит заказ в нетерминальном статусе.
	ctx = context.WithoutCancel(ctx)

	// Из created в failed граф напрямую не ведёт, проходим через finding_rate.
	if from == entities.StatusCreated {
		var applied bool
		err := utils.Retry(storeRetry, func() error {
			var err error
			applied, err = s.repo.UpdateStatus(ctx, orderID, entities.StatusCreated, entities.StatusFindingRate)
			return err
		})
		if err != nil || !applied {
			s.logger.Error("failed to record order failure", slog.String("order_id", orderID), slog.Any("error", err))
			return
		}
		from = entities.StatusFindingRate
	}
	err := utils.Retry(storeRetry, func() error {
		_, err := s.repo.UpdateStatus(ctx, orderID, from, entities.StatusFailed)
		return err
	})
	if err != nil {
		s.logger.Error("failed to record order failure", slog.String("order_id", orderID), slog.Any("error", err))
	}
}
