package book

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func qty(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestInsertAndBest(t *testing.T) {
	bids := NewPriceLevelBook(Bid)
	asks := NewPriceLevelBook(Ask)

	if _, ok := bids.Best(); ok {
		t.Fatalf("expected empty bid side")
	}

	orders := []*Order{
		{ID: 1, Side: Bid, Price: 100000, Remaining: qty("10"), Owner: "a"},
		{ID: 2, Side: Bid, Price: 150000, Remaining: qty("10"), Owner: "a"},
		{ID: 3, Side: Bid, Price: 120000, Remaining: qty("10"), Owner: "b"},
	}
	for _, o := range orders {
		if err := bids.Insert(o); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if best, _ := bids.Best(); best != 150000 {
		t.Errorf("expected best bid 150000, got %d", best)
	}

	asks.Insert(&Order{ID: 4, Side: Ask, Price: 300000, Remaining: qty("10"), Owner: "c"})
	asks.Insert(&Order{ID: 5, Side: Ask, Price: 200000, Remaining: qty("10"), Owner: "c"})
	if best, _ := asks.Best(); best != 200000 {
		t.Errorf("expected best ask 200000, got %d", best)
	}
}

func TestInsertRejectsBadOrders(t *testing.T) {
	b := NewPriceLevelBook(Bid)
	if err := b.Insert(&Order{ID: 1, Price: -1, Remaining: qty("1")}); err == nil {
		t.Errorf("expected error for negative price")
	}
	if err := b.Insert(&Order{ID: 2, Price: 100, Remaining: decimal.Zero}); err == nil {
		t.Errorf("expected error for zero quantity")
	}
}

func TestPeekFrontFIFO(t *testing.T) {
	b := NewPriceLevelBook(Ask)
	b.Insert(&Order{ID: 1, Side: Ask, Price: 100, Remaining: qty("5"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Ask, Price: 100, Remaining: qty("7"), Owner: "b"})

	front, ok := b.PeekFront(100)
	if !ok || front.ID != 1 {
		t.Fatalf("expected oldest order 1 at front, got %+v", front)
	}
	if _, ok := b.PeekFront(999); ok {
		t.Errorf("expected absent level")
	}
}

func TestReduceOrRemoveFront(t *testing.T) {
	b := NewPriceLevelBook(Ask)
	b.Insert(&Order{ID: 1, Side: Ask, Price: 100, Remaining: qty("5"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Ask, Price: 100, Remaining: qty("7"), Owner: "b"})

	// partial fill keeps the order at the front
	if err := b.ReduceOrRemoveFront(100, qty("2")); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	front, _ := b.PeekFront(100)
	if front.ID != 1 || !front.Remaining.Equal(qty("3")) {
		t.Errorf("expected order 1 with remaining 3, got %+v", front)
	}

	// exact fill removes the order, level survives
	if err := b.ReduceOrRemoveFront(100, qty("3")); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	front, _ = b.PeekFront(100)
	if front.ID != 2 {
		t.Errorf("expected order 2 at front, got %+v", front)
	}

	// emptying the queue drops the level
	if err := b.ReduceOrRemoveFront(100, qty("7")); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if _, ok := b.Best(); ok {
		t.Errorf("expected empty book after full consumption")
	}
	if b.Depth() != 0 || b.Len() != 0 {
		t.Errorf("expected no levels and no orders, got depth=%d len=%d", b.Depth(), b.Len())
	}
}

func TestReduceOrRemoveFrontInvariants(t *testing.T) {
	b := NewPriceLevelBook(Ask)
	if err := b.ReduceOrRemoveFront(100, qty("1")); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected invariant violation on missing level, got %v", err)
	}
	b.Insert(&Order{ID: 1, Side: Ask, Price: 100, Remaining: qty("5"), Owner: "a"})
	if err := b.ReduceOrRemoveFront(100, qty("6")); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected invariant violation on overfill, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	b := NewPriceLevelBook(Bid)
	b.Insert(&Order{ID: 1, Side: Bid, Price: 100, Remaining: qty("5"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Bid, Price: 100, Remaining: qty("7"), Owner: "b"})
	b.Insert(&Order{ID: 3, Side: Bid, Price: 90, Remaining: qty("1"), Owner: "c"})

	// remove from the middle of a level, queue order preserved
	if _, err := b.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	front, _ := b.PeekFront(100)
	if front.ID != 2 {
		t.Errorf("expected order 2 at front after removal, got %+v", front)
	}

	// removing the last order of a level drops the level
	if _, err := b.Remove(3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if b.Depth() != 1 {
		t.Errorf("expected one level left, got %d", b.Depth())
	}

	// settled ids stay not found
	if _, err := b.Remove(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for removed id, got %v", err)
	}
	if _, err := b.Remove(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found for unknown id, got %v", err)
	}
}

func TestEnumerate(t *testing.T) {
	b := NewPriceLevelBook(Bid)
	if got := b.Enumerate(5); len(got) != 0 {
		t.Fatalf("expected empty enumeration, got %v", got)
	}

	b.Insert(&Order{ID: 1, Side: Bid, Price: 100, Remaining: qty("5"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Bid, Price: 100, Remaining: qty("7"), Owner: "b"})
	b.Insert(&Order{ID: 3, Side: Bid, Price: 150, Remaining: qty("2"), Owner: "c"})
	b.Insert(&Order{ID: 4, Side: Bid, Price: 120, Remaining: qty("4"), Owner: "d"})

	got := b.Enumerate(5)
	want := []Level{
		{Price: 150, Quantity: qty("2")},
		{Price: 120, Quantity: qty("4")},
		{Price: 100, Quantity: qty("12")},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Price != want[i].Price || !got[i].Quantity.Equal(want[i].Quantity) {
			t.Errorf("level %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	// bounded depth
	if got := b.Enumerate(2); len(got) != 2 || got[0].Price != 150 {
		t.Errorf("expected top 2 levels best-first, got %v", got)
	}

	// idempotent read
	again := b.Enumerate(5)
	if len(again) != 3 || again[0].Price != 150 || !again[2].Quantity.Equal(qty("12")) {
		t.Errorf("expected identical repeated enumeration, got %v", again)
	}
}

func TestEnumerateAskOrdering(t *testing.T) {
	b := NewPriceLevelBook(Ask)
	b.Insert(&Order{ID: 1, Side: Ask, Price: 300000, Remaining: qty("1"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Ask, Price: 200000, Remaining: qty("1"), Owner: "a"})

	got := b.Enumerate(5)
	if len(got) != 2 || got[0].Price != 200000 || got[1].Price != 300000 {
		t.Errorf("expected ascending ask enumeration, got %v", got)
	}
}

func TestWalkOrder(t *testing.T) {
	b := NewPriceLevelBook(Ask)
	b.Insert(&Order{ID: 1, Side: Ask, Price: 200, Remaining: qty("1"), Owner: "a"})
	b.Insert(&Order{ID: 2, Side: Ask, Price: 100, Remaining: qty("1"), Owner: "a"})
	b.Insert(&Order{ID: 3, Side: Ask, Price: 100, Remaining: qty("1"), Owner: "b"})

	var ids []uint64
	b.Walk(func(price int64, o *Order) bool {
		ids = append(ids, o.ID)
		return true
	})
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 3 || ids[2] != 1 {
		t.Errorf("expected walk order [2 3 1], got %v", ids)
	}

	// early stop
	n := 0
	b.Walk(func(int64, *Order) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("expected walk to stop after first order, got %d", n)
	}
}
