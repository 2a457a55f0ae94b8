package market

import (
	"context"

	"github.com/havelock/pairbook/pkg/market/model"
)

// OrderManager is the command surface a gateway drives.
type OrderManager interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) (*model.Order, error)
	CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error
}
