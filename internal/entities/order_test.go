package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusCreated, StatusFindingRate},
		{StatusFindingRate, StatusWaitingPayment},
		{StatusFindingRate, StatusFailed},
		{StatusWaitingPayment, StatusPaid},
		{StatusWaitingPayment, StatusFailed},
		{StatusPaid, StatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, tr.from.CanTransitionTo(tr.to), "%s -> %s must be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to Status }{
		{StatusCreated, StatusWaitingPayment},
		{StatusCreated, StatusPaid},
		{StatusWaitingPayment, StatusCreated},
		{StatusPaid, StatusWaitingPayment},
		{StatusFailed, StatusCreated},
		{StatusFailed, StatusFindingRate},
		{StatusCompleted, StatusPaid},
	}
	for _, tr := range denied {
		assert.False(t, tr.from.CanTransitionTo(tr.to), "%s -> %s must be denied", tr.from, tr.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusCreated.Terminal())
	assert.False(t, StatusWaitingPayment.Terminal())
	assert.False(t, StatusPaid.Terminal())
}

func TestRequisitesExpired(t *testing.T) {
	now := time.Now()
	req := Requisites{ValidUntil: now.Add(time.Minute)}
	assert.False(t, req.Expired(now))
	assert.True(t, req.Expired(now.Add(2*time.Minute)))
}

func TestOrderMarshalRoundTrip(t *testing.T) {
	order := Order{
		ID:        "123",
		User:      User{Wallet: "4111", Email: "a@b.com"},
		Amount:    100,
		Pair:      "USDT/RUB",
		Status:    StatusWaitingPayment,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Requisites: &Requisites{
			Address:    "TPABCDEFLIVE",
			Amount:     100,
			Exchanger:  "CoinShop",
			ValidUntil: time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second),
		},
	}

	data, err := order.Marshal()
	require.NoError(t, err)

	var got Order
	require.NoError(t, got.Unmarshal(data))
	assert.Equal(t, order, got)
}
