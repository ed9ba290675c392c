package rates

import "context"

// Source - источник рыночной котировки. Реализации не должны
// паниковать и пробрасывать друг другу ошибки: агрегатор опрашивает
// их независимо и переживает отказ любого из них.
type Source interface {
	Label() string
	FetchPrice(ctx context.Context) (float64, error)
}
