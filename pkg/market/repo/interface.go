package repo

import (
	"context"

	"github.com/havelock/pairbook/pkg/market/model"
)

type ITrade interface {
	Create(ctx context.Context, record *model.Trade) (*model.Trade, error)
	BulkCreate(ctx context.Context, records []*model.Trade) ([]*model.Trade, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.Trade, error)
}

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
}
