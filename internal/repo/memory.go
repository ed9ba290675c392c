package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"
)

// memoryRepo - потокобезопасное хранилище заказов в памяти для
// однопроцессного развёртывания без базы. Реализует тот же контракт,
// что и postgresRepo.
type memoryRepo struct {
	mu     sync.Mutex
	orders map[string]entities.Order
}

func NewMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: make(map[string]entities.Order)}
}

func (r *memoryRepo) CreateOrder(_ context.Context, o entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *memoryRepo) GetOrderByID(_ context.Context, orderID string) (entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *memoryRepo) GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error) {
	return r.GetOrderByID(ctx, orderID)
}

func (r *memoryRepo) UpdateStatus(_ context.Context, orderID string, from, to entities.Status) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("illegal status transition %s -> %s", from, to)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	r.orders[orderID] = o
	return true, nil
}

func (r *memoryRepo) SaveRequisites(_ context.Context, orderID string, req entities.Requisites) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return entities.ErrOrderNotFound
	}
	if o.Requisites != nil {
		return nil
	}
	o.Requisites = &req
	r.orders[orderID] = o
	return nil
}

func (r *memoryRepo) ExpireOrders(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for id, o := range r.orders {
		if o.Status == entities.StatusWaitingPayment && o.Requisites != nil && o.Requisites.Expired(now) {
			o.Status = entities.StatusFailed
			r.orders[id] = o
			expired++
		}
	}
	return expired, nil
}

func cloneOrder(o entities.Order) entities.Order {
	if o.Requisites != nil {
		req := *o.Requisites
		o.Requisites = &req
	}
	return o
}
