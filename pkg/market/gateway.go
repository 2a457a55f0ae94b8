package market

import (
	"context"

	"github.com/havelock/pairbook/pkg/market/model"
)

// OrderGateway is the client-facing transport (FIX acceptor in production).
type OrderGateway interface {
	Start(ctx context.Context) error

	// market to client
	OnOrderReport(ctx context.Context, order model.Order)
}

// NopGateway discards reports. Used by tests and the benchmark tool.
type NopGateway struct{}

func (NopGateway) Start(ctx context.Context) error                 { return nil }
func (NopGateway) OnOrderReport(ctx context.Context, _ model.Order) {}
