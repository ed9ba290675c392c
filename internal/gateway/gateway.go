package gateway

import (
	"context"

	"github.com/gremlinx/exchange-service/internal/entities"
)

// Result - реквизиты, выданные обменником под конкретный заказ.
type Result struct {
	Address   string
	Amount    float64
	Exchanger string
}

// Gateway занимает слот на внешнем обменнике под заказ. Контракт
// строго одна попытка на заказ: координатор не ретраит вызов и не
// полагается на идемпотентность реализации. Реализация обязана
// укладываться в дедлайн переданного контекста.
type Gateway interface {
	Execute(ctx context.Context, order entities.Order) (Result, error)
}
