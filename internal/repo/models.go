package repo

import (
	"database/sql"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"
)

type Order struct {
	OrderID         string         `db:"order_id"`
	Wallet          string         `db:"wallet"`
	Email           string         `db:"email"`
	Amount          float64        `db:"amount"`
	Pair            string         `db:"pair"`
	FromCurrency    string         `db:"from_currency"`
	ToCurrency      string         `db:"to_currency"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	ExternalOrderID sql.NullString `db:"external_order_id"`
}

type Requisites struct {
	OrderID    string    `db:"order_id"`
	Address    string    `db:"address"`
	Amount     float64   `db:"amount"`
	Exchanger  string    `db:"exchanger"`
	ValidUntil time.Time `db:"valid_until"`
}

func OrderToEntity(o Order, req *Requisites) entities.Order {
	order := entities.Order{
		ID: o.OrderID,
		User: entities.User{
			Wallet: o.Wallet,
			Email:  o.Email,
		},
		Amount:          o.Amount,
		Pair:            o.Pair,
		FromCurrency:    o.FromCurrency,
		ToCurrency:      o.ToCurrency,
		Status:          entities.Status(o.Status),
		CreatedAt:       o.CreatedAt,
		ExternalOrderID: nullStringToString(o.ExternalOrderID),
	}

	if req != nil {
		order.Requisites = &entities.Requisites{
			Address:    req.Address,
			Amount:     req.Amount,
			Exchanger:  req.Exchanger,
			ValidUntil: req.ValidUntil,
		}
	}

	return order
}

func OrderFromEntity(o entities.Order) Order {
	return Order{
		OrderID:         o.ID,
		Wallet:          o.User.Wallet,
		Email:           o.User.Email,
		Amount:          o.Amount,
		Pair:            o.Pair,
		FromCurrency:    o.FromCurrency,
		ToCurrency:      o.ToCurrency,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		ExternalOrderID: stringToNullString(o.ExternalOrderID),
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func stringToNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
