package handler

import (
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"
)

// CreateOrderRequest - заявка на обмен
type CreateOrderRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Wallet string  `json:"wallet" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
}

// Order представляет заказ
type Order struct {
	ID              string      `json:"id"`
	User            User        `json:"user"`
	Amount          float64     `json:"amount"`
	Pair            string      `json:"pair"`
	FromCurrency    string      `json:"fromCurrency"`
	ToCurrency      string      `json:"toCurrency"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	Requisites      *Requisites `json:"requisites"`
	ExternalOrderID string      `json:"externalOrderId,omitempty"`
}

// User - получатель выплаты
type User struct {
	Wallet string `json:"wallet"`
	Email  string `json:"email"`
}

// Requisites - платёжные реквизиты заказа
type Requisites struct {
	Address    string    `json:"address"`
	Amount     float64   `json:"amount"`
	Exchanger  string    `json:"exchanger,omitempty"`
	ValidUntil time.Time `json:"validUntil"`
}

// Rate - котировка с учётом маржи сервиса
type Rate struct {
	Pair       string  `json:"pair"`
	MarketRate float64 `json:"marketRate"`
	OurRate    float64 `json:"ourRate"`
	FeePercent float64 `json:"feePercent"`
	Source     string  `json:"source"`
	Degraded   bool    `json:"degraded"`
}

// ConfirmResponse - результат подтверждения оплаты
type ConfirmResponse struct {
	Success bool `json:"success"`
}

func OrderEntityToJSON(o entities.Order) Order {
	order := Order{
		ID: o.ID,
		User: User{
			Wallet: o.User.Wallet,
			Email:  o.User.Email,
		},
		Amount:          o.Amount,
		Pair:            o.Pair,
		FromCurrency:    o.FromCurrency,
		ToCurrency:      o.ToCurrency,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		ExternalOrderID: o.ExternalOrderID,
	}

	if o.Requisites != nil {
		order.Requisites = &Requisites{
			Address:    o.Requisites.Address,
			Amount:     o.Requisites.Amount,
			Exchanger:  o.Requisites.Exchanger,
			ValidUntil: o.Requisites.ValidUntil,
		}
	}

	return order
}

func QuoteEntityToJSON(q entities.Quote) Rate {
	return Rate{
		Pair:       q.Pair,
		MarketRate: q.MarketRate,
		OurRate:    q.OurRate,
		FeePercent: q.FeePercent,
		Source:     q.Source,
		Degraded:   q.Degraded,
	}
}
