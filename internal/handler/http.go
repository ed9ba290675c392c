package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gremlinx/exchange-service/internal/entities"
	"github.com/gremlinx/exchange-service/internal/service"
	"github.com/gremlinx/exchange-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	ConfirmPayment(ctx context.Context, orderID string) error
}

type QuoteService interface {
	GetQuote(ctx context.Context) entities.Quote
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderService
	quotes   QuoteService
}

func NewHTTPHandler(logger *slog.Logger, orders OrderService, quotes QuoteService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		orders:   orders,
		quotes:   quotes,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/rates", h.GetRates)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{order_id}", h.GetOrderByID)
		r.Post("/orders/{order_id}/confirm", h.ConfirmPayment)
	})
}

// GetRates возвращает текущий курс обмена.
// @Summary      Текущий курс
// @Description  Курс с учётом маржи сервиса. degraded=true означает фоллбэк при недоступных источниках
// @Tags         rates
// @Success      200  {object}  Rate
// @Router       /rates [get]
func (h *HTTPHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	quote := h.quotes.GetQuote(r.Context())
	if quote.Degraded {
		degradedQuotes.Inc()
	}
	utils.WriteJSON(w, QuoteEntityToJSON(quote), http.StatusOK)
}

// CreateOrder создаёт заказ на обмен.
// @Summary      Создать заказ
// @Description  Создаёт заказ в статусе created и запускает асинхронную обработку
// @Tags         orders
// @Accept       json
// @Param        request  body  CreateOrderRequest  true  "Параметры заказа"
// @Success      201  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.CreateOrder(ctx, service.CreateOrderInput{
		Amount: req.Amount,
		Wallet: req.Wallet,
		Email:  req.Email,
	})
	if errors.Is(err, entities.ErrInvalidOrder) {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create order", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ordersCreated.Inc()
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

// GetOrderByID возвращает заказ по ID.
// @Summary      Получить заказ
// @Description  Текущее состояние заказа для поллинга клиентом
// @Tags         orders
// @Param        order_id   path      string  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /orders/{order_id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// ConfirmPayment подтверждает оплату заказа.
// @Summary      Подтвердить оплату
// @Description  Переводит заказ из waiting_payment в paid, пока не истёк срок реквизитов
// @Tags         orders
// @Param        order_id   path      string  true  "Идентификатор заказа"
// @Success      200  {object}  ConfirmResponse
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      409  {object}  utils.ErrorResponse "Заказ не ждёт оплату или срок истёк"
// @Router       /orders/{order_id}/confirm [post]
func (h *HTTPHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	err := h.orders.ConfirmPayment(ctx, orderID)
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderExpired):
		utils.WriteError(w, "order requisites expired", http.StatusConflict)
	case errors.Is(err, entities.ErrOrderNotPayable):
		utils.WriteError(w, "order is not awaiting payment", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to confirm payment", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, ConfirmResponse{Success: true}, http.StatusOK)
	}
}
