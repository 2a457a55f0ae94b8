package book

import (
	"container/heap"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

// PriceLevelBook holds the resting orders of one side, grouped into FIFO
// queues per price tick and indexed by an exact price heap (max for bids,
// min for asks). A level exists iff it holds at least one order; emptied
// levels are dropped immediately, so Best and Enumerate never see dangling
// prices.
//
// The book is not safe for concurrent use on its own; the matching engine
// serializes access.
type PriceLevelBook struct {
	side   Side
	levels map[int64]*deque.Deque[*Order]
	prices *priceHeap
	byID   map[uint64]*Order
}

func NewPriceLevelBook(side Side) *PriceLevelBook {
	less := func(i, j int64) bool { return i > j } // best bid = highest
	if side == Ask {
		less = func(i, j int64) bool { return i < j } // best ask = lowest
	}
	return &PriceLevelBook{
		side:   side,
		levels: make(map[int64]*deque.Deque[*Order]),
		prices: newPriceHeap(less),
		byID:   make(map[uint64]*Order),
	}
}

func (b *PriceLevelBook) Side() Side {
	return b.side
}

// Insert appends order to the back of its price level's queue, creating the
// level if absent. The order becomes visible to matching and enumeration
// from this point on.
func (b *PriceLevelBook) Insert(order *Order) error {
	if order.Price < 0 {
		return errInvalidPrice
	}
	if !order.Remaining.IsPositive() {
		return errInvalidQuantity
	}
	q := b.levels[order.Price]
	if q == nil {
		q = &deque.Deque[*Order]{}
		b.levels[order.Price] = q
		heap.Push(b.prices, order.Price)
	}
	q.PushBack(order)
	b.byID[order.ID] = order
	return nil
}

// Best returns the most favorable resting price, or false when the side is
// empty.
func (b *PriceLevelBook) Best() (int64, bool) {
	return b.prices.Peek()
}

// PeekFront returns the oldest order at price without removing it.
func (b *PriceLevelBook) PeekFront(price int64) (*Order, bool) {
	q, ok := b.levels[price]
	if !ok || q.Len() == 0 {
		return nil, false
	}
	return q.Front(), true
}

// ReduceOrRemoveFront subtracts filled from the front order at price. When
// the order's remaining quantity reaches zero it leaves the queue, and when
// the queue empties the level and its heap entry go with it. Filling more
// than the front order holds, or touching a level that does not exist, is a
// caller bug and reported as ErrInvariantViolation.
func (b *PriceLevelBook) ReduceOrRemoveFront(price int64, filled decimal.Decimal) error {
	q, ok := b.levels[price]
	if !ok || q.Len() == 0 {
		return ErrInvariantViolation
	}
	front := q.Front()
	if !filled.IsPositive() || filled.GreaterThan(front.Remaining) {
		return ErrInvariantViolation
	}
	front.Remaining = front.Remaining.Sub(filled)
	if front.Remaining.IsZero() {
		q.PopFront()
		delete(b.byID, front.ID)
		if q.Len() == 0 {
			b.dropLevel(price)
		}
	}
	return nil
}

// Remove takes a specific order out of the book regardless of its queue
// position. This is the cancellation path.
func (b *PriceLevelBook) Remove(orderID uint64) (*Order, error) {
	order, ok := b.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	q, ok := b.levels[order.Price]
	if !ok {
		return nil, ErrInvariantViolation
	}
	i := q.Index(func(o *Order) bool { return o.ID == orderID })
	if i < 0 {
		return nil, ErrInvariantViolation
	}
	q.Remove(i)
	delete(b.byID, orderID)
	if q.Len() == 0 {
		b.dropLevel(order.Price)
	}
	return order, nil
}

// Get looks up a resting order by id.
func (b *PriceLevelBook) Get(orderID uint64) (*Order, bool) {
	o, ok := b.byID[orderID]
	return o, ok
}

// Enumerate reports up to maxLevels levels best-first as (price, aggregate
// remaining quantity) pairs. Pure: repeated calls with unchanged state
// return identical results.
func (b *PriceLevelBook) Enumerate(maxLevels int) []Level {
	out := []Level{}
	if maxLevels <= 0 {
		return out
	}
	for _, price := range b.prices.sorted() {
		q := b.levels[price]
		total := decimal.Zero
		for i := 0; i < q.Len(); i++ {
			total = total.Add(q.At(i).Remaining)
		}
		out = append(out, Level{Price: price, Quantity: total})
		if len(out) == maxLevels {
			break
		}
	}
	return out
}

// Walk visits every resting order best-price-first, FIFO within a level,
// until fn returns false. Read-only; fn must not mutate the book.
func (b *PriceLevelBook) Walk(fn func(price int64, o *Order) bool) {
	for _, price := range b.prices.sorted() {
		q := b.levels[price]
		for i := 0; i < q.Len(); i++ {
			if !fn(price, q.At(i)) {
				return
			}
		}
	}
}

// Len is the number of resting orders on this side.
func (b *PriceLevelBook) Len() int {
	return len(b.byID)
}

// Depth is the number of distinct price levels.
func (b *PriceLevelBook) Depth() int {
	return len(b.levels)
}

func (b *PriceLevelBook) dropLevel(price int64) {
	delete(b.levels, price)
	if i, ok := b.prices.index(price); ok {
		heap.Remove(b.prices, i)
	}
}
