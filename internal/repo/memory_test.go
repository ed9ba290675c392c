package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gremlinx/exchange-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_UpdateStatusCAS(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.CreateOrder(ctx, entities.Order{ID: "1", Status: entities.StatusCreated}))

	applied, err := r.UpdateStatus(ctx, "1", entities.StatusCreated, entities.StatusFindingRate)
	require.NoError(t, err)
	assert.True(t, applied)

	// повторный переход из created не применяется
	applied, err = r.UpdateStatus(ctx, "1", entities.StatusCreated, entities.StatusFindingRate)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = r.UpdateStatus(ctx, "missing", entities.StatusCreated, entities.StatusFindingRate)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestMemoryRepo_UpdateStatusRejectsIllegalTransition(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.CreateOrder(ctx, entities.Order{ID: "1", Status: entities.StatusCreated}))

	// переход мимо графа не выполняется даже при совпадении from
	applied, err := r.UpdateStatus(ctx, "1", entities.StatusCreated, entities.StatusCompleted)
	require.Error(t, err)
	assert.False(t, applied)

	got, err := r.GetOrderByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCreated, got.Status)
}

func TestMemoryRepo_ConcurrentTransitionAppliesOnce(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.CreateOrder(ctx, entities.Order{ID: "1", Status: entities.StatusCreated}))

	const workers = 16
	var wg sync.WaitGroup
	var appliedCount int64
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := r.UpdateStatus(ctx, "1", entities.StatusCreated, entities.StatusFindingRate)
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				appliedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, appliedCount)
}

func TestMemoryRepo_Requisites(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.CreateOrder(ctx, entities.Order{ID: "1", Status: entities.StatusFindingRate}))

	first := entities.Requisites{Address: "TPAAAAAALIVE", Amount: 100, ValidUntil: time.Now().Add(time.Minute)}
	require.NoError(t, r.SaveRequisites(ctx, "1", first))

	// реквизиты выставляются ровно один раз
	require.NoError(t, r.SaveRequisites(ctx, "1", entities.Requisites{Address: "TPBBBBBBLIVE"}))

	got, err := r.GetOrderByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got.Requisites)
	assert.Equal(t, "TPAAAAAALIVE", got.Requisites.Address)

	assert.ErrorIs(t, r.SaveRequisites(ctx, "missing", first), entities.ErrOrderNotFound)
}

func TestMemoryRepo_ExpireOrders(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	now := time.Now()

	require.NoError(t, r.CreateOrder(ctx, entities.Order{
		ID:         "stale",
		Status:     entities.StatusWaitingPayment,
		Requisites: &entities.Requisites{ValidUntil: now.Add(-time.Minute)},
	}))
	require.NoError(t, r.CreateOrder(ctx, entities.Order{
		ID:         "fresh",
		Status:     entities.StatusWaitingPayment,
		Requisites: &entities.Requisites{ValidUntil: now.Add(time.Minute)},
	}))
	require.NoError(t, r.CreateOrder(ctx, entities.Order{ID: "new", Status: entities.StatusCreated}))

	expired, err := r.ExpireOrders(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	stale, err := r.GetOrderByID(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, stale.Status)

	fresh, err := r.GetOrderByID(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusWaitingPayment, fresh.Status)
}
