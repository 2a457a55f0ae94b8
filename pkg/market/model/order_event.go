package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is the append-only execution history entry for one order.
type OrderEvent struct {
	EventID       string          `gorm:"column:event_id;primaryKey"`
	OrderID       string          `gorm:"column:order_id"`
	GatewayID     string          `gorm:"column:gateway_id"`
	OrigGatewayID string          `gorm:"column:orig_gateway_id"`
	ExecType      OrderExecType   `gorm:"column:exec_type"`
	Status        OrderStatus     `gorm:"column:status"`
	Price         int64           `gorm:"column:price"`
	LastQuantity  decimal.Decimal `gorm:"column:last_quantity;type:numeric"`
	CumQuantity   decimal.Decimal `gorm:"column:cum_quantity;type:numeric"`
	LeavesQty     decimal.Decimal `gorm:"column:leaves_quantity;type:numeric"`
	Timestamp     time.Time       `gorm:"column:ts"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}

func NewOrderEvent(order Order, ts time.Time, seq uint64) *OrderEvent {
	return &OrderEvent{
		EventID:       NewEventID(order.OrderID, order.Status, seq),
		OrderID:       order.OrderID,
		GatewayID:     order.GatewayID,
		OrigGatewayID: order.OrigGatewayID,
		ExecType:      order.ExecType,
		Status:        order.Status,
		Price:         order.Price,
		LastQuantity:  order.LastQuantity,
		CumQuantity:   order.CumQuantity,
		LeavesQty:     order.LeavesQuantity,
		Timestamp:     ts,
	}
}

// NewEventID must be unique per emitted event, not per order: one resting
// maker can go PartiallyFilled many times, so the market's event sequence is
// folded in.
func NewEventID(orderID string, status OrderStatus, seq uint64) string {
	return fmt.Sprintf("%s-%s-%d", orderID, status, seq)
}
