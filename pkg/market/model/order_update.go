package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddOrder is the gateway command for a new limit order. Price is the
// integer tick, Quantity the token base-unit amount.
type AddOrder struct {
	GatewayID    string
	Account      string
	Symbol       string
	Side         OrderSide
	Price        int64
	Quantity     decimal.Decimal
	TransactTime time.Time
}

// CancelOrder asks for removal of the order originally submitted under
// OrigGatewayID. The engine enforces that the requesting account owns it.
type CancelOrder struct {
	GatewayID     string
	OrigGatewayID string
	Account       string
}
