package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

type OrderExecType string

const (
	ExecTypeNew      OrderExecType = "New"
	ExecTypeTrade    OrderExecType = "Trade"
	ExecTypeCanceled OrderExecType = "Canceled"
	ExecTypeRejected OrderExecType = "Rejected"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"  // long
	OrderSideSell OrderSide = "SELL" // short
)

// Order is the service-level view of one client order: the engine tracks
// only the resting remainder, this record carries the full execution state
// reported back to the gateway.
type Order struct {
	OrderID       string
	GatewayID     string
	OrigGatewayID string
	EngineID      uint64 // resting id inside the matching engine, 0 once terminal or fully filled

	Account      string
	Symbol       string
	Side         OrderSide
	Price        int64
	Quantity     decimal.Decimal
	TransactTime time.Time

	ExecID         string
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      int64
	AvgPrice       decimal.Decimal
}

func (o *Order) UpdateAddOrder(add *AddOrder) {
	o.GatewayID = add.GatewayID
	o.Account = add.Account
	o.Symbol = add.Symbol
	o.Side = add.Side
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.TransactTime = add.TransactTime
	o.Status = OrderStatusPendingNew
	o.ExecType = ExecTypeNew
	o.CumQuantity = decimal.Zero
	o.LeavesQuantity = add.Quantity
	o.LastQuantity = decimal.Zero
	o.AvgPrice = decimal.Zero
}

// ApplyFill folds one executed quantity at one price into the cumulative
// state and flips the status to PartiallyFilled or Filled.
func (o *Order) ApplyFill(price int64, qty decimal.Decimal) {
	notional := o.AvgPrice.Mul(o.CumQuantity).Add(qty.Mul(decimal.NewFromInt(price)))
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.LeavesQuantity = o.LeavesQuantity.Sub(qty)
	o.LastQuantity = qty
	o.LastPrice = price
	o.AvgPrice = notional.Div(o.CumQuantity)
	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity.IsZero() {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

func (o *Order) ApplyRest(engineID uint64) {
	o.EngineID = engineID
	if o.Status == OrderStatusPendingNew {
		o.Status = OrderStatusNew
		o.ExecType = ExecTypeNew
	}
}

func (o *Order) ApplyCancel() {
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = decimal.Zero
	o.EngineID = 0
}

func (o *Order) ApplyReject() {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.LeavesQuantity = decimal.Zero
}

func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled:
		return o.EngineID != 0
	default:
		return false
	}
}

func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected:
		return true
	default:
		return false
	}
}

func NewExecID(orderID string, seq int) string {
	return fmt.Sprintf("%s-%d", orderID, seq)
}
