package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"
	"github.com/gremlinx/exchange-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	row := OrderFromEntity(o)

	query, args := r.qb.Insert("orders").
		Columns("order_id", "wallet", "email", "amount", "pair",
			"from_currency", "to_currency", "status", "created_at", "external_order_id").
		Values(row.OrderID, row.Wallet, row.Email, row.Amount, row.Pair,
			row.FromCurrency, row.ToCurrency, row.Status, row.CreatedAt, row.ExternalOrderID).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	return r.getOrder(ctx, orderID, false)
}

// GetOrderForUpdate блокирует строку заказа до конца транзакции.
// Имеет смысл только внутри trm.Manager.Do.
func (r *postgresRepo) GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error) {
	return r.getOrder(ctx, orderID, true)
}

func (r *postgresRepo) getOrder(ctx context.Context, orderID string, forUpdate bool) (entities.Order, error) {
	b := r.qb.Select("order_id", "wallet", "email", "amount", "pair",
		"from_currency", "to_currency", "status", "created_at", "external_order_id").
		From("orders").
		Where(sq.Eq{"order_id": orderID})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args := b.MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select("order_id", "address", "amount", "exchanger", "valid_until").
		From("requisites").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var req Requisites
	err = r.getContext(ctx, &req, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderToEntity(order, nil), nil
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get requisites: %w", err)
	}

	return OrderToEntity(order, &req), nil
}

// UpdateStatus переводит заказ из from в to. Возвращает false, если
// заказ уже не в статусе from - защита от потерянных обновлений и
// повторной доставки из очереди.
func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, from, to entities.Status) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("illegal status transition %s -> %s", from, to)
	}

	query, args := r.qb.Update("orders").
		Set("status", string(to)).
		Where(sq.Eq{"order_id": orderID, "status": string(from)}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresRepo) SaveRequisites(ctx context.Context, orderID string, req entities.Requisites) error {
	query, args := r.qb.Insert("requisites").
		Columns("order_id", "address", "amount", "exchanger", "valid_until").
		Values(orderID, req.Address, req.Amount, req.Exchanger, req.ValidUntil).
		Suffix("ON CONFLICT (order_id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save requisites: %w", err)
	}
	return nil
}

// ExpireOrders переводит в failed все заказы, у которых срок оплаты
// истёк к моменту now. Возвращает число затронутых заказов.
func (r *postgresRepo) ExpireOrders(ctx context.Context, now time.Time) (int64, error) {
	query, args := r.qb.Update("orders").
		Set("status", string(entities.StatusFailed)).
		Where(sq.Eq{"status": string(entities.StatusWaitingPayment)}).
		Where(sq.Expr("order_id IN (SELECT order_id FROM requisites WHERE valid_until < ?)", now)).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire orders: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}
