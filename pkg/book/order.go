package book

import "github.com/shopspring/decimal"

type Side string

const (
	Bid Side = "BID" // long / buy
	Ask Side = "ASK" // short / sell
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Order is a resting limit order. ID is the engine-wide sequence number and
// doubles as the time-priority tie breaker: lower ID always matches first at
// equal price. Remaining stays strictly positive while the order rests; an
// order that reaches zero is removed from its level, never kept as a
// placeholder.
type Order struct {
	ID        uint64
	Side      Side
	Price     int64 // price tick, never negative
	Remaining decimal.Decimal
	Owner     string
}

// Level is one enumerated price level: the price tick and the sum of the
// remaining quantities of every order queued at that tick.
type Level struct {
	Price    int64
	Quantity decimal.Decimal
}
