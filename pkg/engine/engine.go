// Package engine implements a deterministic price-time-priority matching
// engine for a single trading pair. Incoming orders match against the
// opposite book while prices cross; any remainder rests on the own side.
// Matched quantity settles through the external ledger before the books
// mutate, so a failed settlement leaves the engine exactly as it was.
package engine

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/book"
	"github.com/havelock/pairbook/pkg/ledger"
)

// FillLeg is one maker order consumed (fully or partially) by a submit.
type FillLeg struct {
	MakerOrderID uint64
	MakerOwner   string
	Price        int64
	Quantity     decimal.Decimal
}

// FillReport summarizes a submit call. OrderID is zero when the order filled
// completely and never rested. AvgPrice is the volume-weighted average over
// all legs and only meaningful when Filled is positive.
type FillReport struct {
	OrderID  uint64
	Filled   decimal.Decimal
	AvgPrice decimal.Decimal
	Resting  decimal.Decimal
	Legs     []FillLeg
}

// MatchingEngine owns the two books of one trading pair plus the order
// sequence counter. Every mutation runs to completion under one lock;
// enumeration takes a read lock so concurrent readers never observe a
// half-applied match.
type MatchingEngine struct {
	mu     sync.RWMutex
	bids   *book.PriceLevelBook
	asks   *book.PriceLevelBook
	ledger ledger.Ledger
	seq    uint64
	halted bool
}

func New(l ledger.Ledger) *MatchingEngine {
	return &MatchingEngine{
		bids:   book.NewPriceLevelBook(book.Bid),
		asks:   book.NewPriceLevelBook(book.Ask),
		ledger: l,
	}
}

// Submit matches an incoming order against the opposite book and rests any
// remainder. The call is all-or-nothing: if the ledger cannot settle every
// planned leg, already-moved legs are reversed and no book state changes.
func (e *MatchingEngine) Submit(side book.Side, price int64, quantity decimal.Decimal, owner string) (*FillReport, error) {
	if price < 0 || !quantity.IsPositive() || !quantity.IsInteger() {
		return nil, ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.halted {
		return nil, ErrHalted
	}

	own, opposite := e.sides(side)

	// plan phase: read-only walk of the opposite book, best price first,
	// FIFO within a level
	var legs []FillLeg
	remaining := quantity
	opposite.Walk(func(levelPrice int64, maker *book.Order) bool {
		if !crosses(side, price, levelPrice) || remaining.IsZero() {
			return false
		}
		matchQty := decimal.Min(remaining, maker.Remaining)
		legs = append(legs, FillLeg{
			MakerOrderID: maker.ID,
			MakerOwner:   maker.Owner,
			Price:        levelPrice,
			Quantity:     matchQty,
		})
		remaining = remaining.Sub(matchQty)
		return remaining.IsPositive()
	})

	// settlement phase: every leg moves through the ledger before any book
	// mutation, so an InsufficientBalance failure unwinds cleanly
	if err := e.settle(side, owner, legs); err != nil {
		return nil, err
	}

	// apply phase: consume the matched makers front-first
	filled := decimal.Zero
	notional := decimal.Zero
	for _, leg := range legs {
		if err := opposite.ReduceOrRemoveFront(leg.Price, leg.Quantity); err != nil {
			e.halted = true
			return nil, fmt.Errorf("consume maker %d: %w", leg.MakerOrderID, err)
		}
		filled = filled.Add(leg.Quantity)
		notional = notional.Add(leg.Quantity.Mul(decimal.NewFromInt(leg.Price)))
	}

	report := &FillReport{
		Filled:  filled,
		Resting: remaining,
		Legs:    legs,
	}
	if filled.IsPositive() {
		report.AvgPrice = notional.Div(filled)
	}

	if remaining.IsPositive() {
		e.seq++
		report.OrderID = e.seq
		resting := &book.Order{
			ID:        e.seq,
			Side:      side,
			Price:     price,
			Remaining: remaining,
			Owner:     owner,
		}
		if err := own.Insert(resting); err != nil {
			e.halted = true
			return nil, fmt.Errorf("rest remainder: %w", book.ErrInvariantViolation)
		}
	}

	return report, nil
}

// Cancel removes a resting order. Only the owner may cancel; ids of filled
// or previously cancelled orders are never reused, so late cancels keep
// failing with book.ErrNotFound.
func (e *MatchingEngine) Cancel(orderID uint64, requester string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.halted {
		return ErrHalted
	}

	holding := e.bids
	order, ok := holding.Get(orderID)
	if !ok {
		holding = e.asks
		order, ok = holding.Get(orderID)
	}
	if !ok {
		return book.ErrNotFound
	}
	if order.Owner != requester {
		return ErrUnauthorized
	}

	if _, err := holding.Remove(orderID); err != nil {
		e.halted = true
		return err
	}
	return nil
}

// EnumerateBook reports up to maxLevels aggregated price levels of one side,
// best price first. Pure read.
func (e *MatchingEngine) EnumerateBook(side book.Side, maxLevels int) []book.Level {
	e.mu.RLock()
	defer e.mu.RUnlock()

	own, _ := e.sides(side)
	return own.Enumerate(maxLevels)
}

// Best returns the best resting price of one side.
func (e *MatchingEngine) Best(side book.Side) (int64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	own, _ := e.sides(side)
	return own.Best()
}

// RestingOrders counts the resting orders of one side.
func (e *MatchingEngine) RestingOrders(side book.Side) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	own, _ := e.sides(side)
	return own.Len()
}

func (e *MatchingEngine) sides(side book.Side) (own, opposite *book.PriceLevelBook) {
	if side == book.Bid {
		return e.bids, e.asks
	}
	return e.asks, e.bids
}

// crosses reports whether an incoming order at price can trade against a
// resting level at levelPrice.
func crosses(incoming book.Side, price, levelPrice int64) bool {
	if incoming == book.Bid {
		return levelPrice <= price
	}
	return levelPrice >= price
}

// settle runs every leg through the ledger. The incoming owner is the buyer
// when the incoming side is the bid. On failure, legs settled so far are
// reversed with the inverse transfer before the error is returned.
func (e *MatchingEngine) settle(incoming book.Side, owner string, legs []FillLeg) error {
	for i, leg := range legs {
		buyer, seller := owner, leg.MakerOwner
		if incoming == book.Ask {
			buyer, seller = leg.MakerOwner, owner
		}
		notional := leg.Quantity.Mul(decimal.NewFromInt(leg.Price))
		if err := e.ledger.Settle(buyer, seller, leg.Quantity, notional); err != nil {
			e.unwind(incoming, owner, legs[:i])
			return fmt.Errorf("settle %s against maker %d: %w", leg.Quantity, leg.MakerOrderID, err)
		}
	}
	return nil
}

func (e *MatchingEngine) unwind(incoming book.Side, owner string, settled []FillLeg) {
	for i := len(settled) - 1; i >= 0; i-- {
		leg := settled[i]
		buyer, seller := leg.MakerOwner, owner
		if incoming == book.Ask {
			buyer, seller = owner, leg.MakerOwner
		}
		notional := leg.Quantity.Mul(decimal.NewFromInt(leg.Price))
		if err := e.ledger.Settle(buyer, seller, leg.Quantity, notional); err != nil {
			// reversing funds that were just moved cannot fail on a sane
			// ledger; if it does the books and balances disagree
			e.halted = true
			return
		}
	}
}
