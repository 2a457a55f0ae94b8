package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one settled match between a taker order and a resting maker.
type Trade struct {
	TradeID      string          `gorm:"column:trade_id;primaryKey"`
	Symbol       string          `gorm:"column:symbol"`
	Price        int64           `gorm:"column:price"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric"`
	Buyer        string          `gorm:"column:buyer"`
	Seller       string          `gorm:"column:seller"`
	TakerOrderID string          `gorm:"column:taker_order_id"`
	MakerOrderID uint64          `gorm:"column:maker_order_id"`
	ExecutedAt   time.Time       `gorm:"column:executed_at"`
}

func (Trade) TableName() string {
	return "trades"
}
