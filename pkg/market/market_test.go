package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/ledger"
	"github.com/havelock/pairbook/pkg/market/model"
)

type recordingGateway struct {
	mu      sync.Mutex
	reports []model.Order
}

func (g *recordingGateway) Start(ctx context.Context) error { return nil }

func (g *recordingGateway) OnOrderReport(ctx context.Context, order model.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reports = append(g.reports, order)
}

func (g *recordingGateway) last() model.Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reports[len(g.reports)-1]
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func newTestMarket(gw OrderGateway) *Market {
	l := ledger.NewMemLedger()
	for _, acc := range []string{"alice", "bob", "carol"} {
		l.Deposit(acc, d("1000000000000000000000000"), d("100000000000000000000000000000"))
	}
	return New(Config{Symbol: "GLD-ETH", Depth: 5}, gw, l)
}

func addOrder(gatewayID, account string, side model.OrderSide, price int64, qty string) *model.AddOrder {
	return &model.AddOrder{
		GatewayID:    gatewayID,
		Account:      account,
		Symbol:       "GLD-ETH",
		Side:         side,
		Price:        price,
		Quantity:     d(qty),
		TransactTime: time.Now(),
	}
}

func TestAddOrderRests(t *testing.T) {
	gw := &recordingGateway{}
	m := newTestMarket(gw)
	ctx := context.Background()

	order, err := m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "1000000000000000000"))
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if order.Status != model.OrderStatusNew {
		t.Errorf("expected status New, got %s", order.Status)
	}
	if order.EngineID == 0 {
		t.Errorf("expected resting order to carry an engine id")
	}

	report := gw.last()
	if report.Status != model.OrderStatusNew || !report.LeavesQuantity.Equal(d("1000000000000000000")) {
		t.Errorf("unexpected execution report %+v", report)
	}

	bids := m.EnumerateBook(true, 5)
	if len(bids) != 1 || bids[0].Price != 100000 {
		t.Errorf("expected [(100000, 1e18)], got %v", bids)
	}
}

func TestCrossReportsBothSides(t *testing.T) {
	gw := &recordingGateway{}
	m := newTestMarket(gw)
	ctx := context.Background()

	m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "1000000000000000000"))
	taker, err := m.AddOrder(ctx, addOrder("c2", "bob", model.OrderSideSell, 100000, "1000000000000000000"))
	if err != nil {
		t.Fatalf("add order: %v", err)
	}

	if taker.Status != model.OrderStatusFilled {
		t.Errorf("expected taker Filled, got %s", taker.Status)
	}
	if !taker.AvgPrice.Equal(d("100000")) {
		t.Errorf("expected avg price 100000, got %s", taker.AvgPrice)
	}

	// maker got its own Filled report before the taker's
	var makerFilled, takerFilled bool
	gw.mu.Lock()
	for _, r := range gw.reports {
		if r.Account == "alice" && r.Status == model.OrderStatusFilled {
			makerFilled = true
		}
		if r.Account == "bob" && r.Status == model.OrderStatusFilled {
			takerFilled = true
		}
	}
	gw.mu.Unlock()
	if !makerFilled || !takerFilled {
		t.Errorf("expected filled reports for both sides")
	}

	if len(m.EnumerateBook(true, 5)) != 0 || len(m.EnumerateBook(false, 5)) != 0 {
		t.Errorf("expected empty books after exact cross")
	}
}

func TestDuplicateGatewayID(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	ctx := context.Background()

	m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "10"))
	_, err := m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 110000, "10"))
	if err != errDuplicateOrder {
		t.Errorf("expected duplicate order error, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	gw := &recordingGateway{}
	m := newTestMarket(gw)
	ctx := context.Background()

	m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "10"))

	err := m.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     "c2",
		OrigGatewayID: "c1",
		Account:       "alice",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if report := gw.last(); report.Status != model.OrderStatusCanceled {
		t.Errorf("expected Canceled report, got %+v", report)
	}
	if len(m.EnumerateBook(true, 5)) != 0 {
		t.Errorf("expected empty bid book after cancel")
	}

	// cancelled orders stay terminal
	err = m.CancelOrder(ctx, &model.CancelOrder{GatewayID: "c3", OrigGatewayID: "c1", Account: "alice"})
	if err == nil {
		t.Errorf("expected error cancelling a terminal order")
	}
}

func TestCancelWrongOwner(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	ctx := context.Background()

	m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "10"))
	err := m.CancelOrder(ctx, &model.CancelOrder{GatewayID: "c2", OrigGatewayID: "c1", Account: "bob"})
	if err == nil {
		t.Errorf("expected unauthorized cancel to fail")
	}
	if len(m.EnumerateBook(true, 5)) != 1 {
		t.Errorf("order must survive an unauthorized cancel")
	}
}

func TestSymbolMismatchRejected(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	add := addOrder("c1", "alice", model.OrderSideBuy, 100000, "10")
	add.Symbol = "OTHER"
	if _, err := m.AddOrder(context.Background(), add); err != errSymbolMismatch {
		t.Errorf("expected symbol mismatch, got %v", err)
	}
}

func TestRepeatedPartialFillsGetDistinctEventIDs(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	ctx := context.Background()

	maker, err := m.AddOrder(ctx, addOrder("c1", "alice", model.OrderSideBuy, 100000, "10"))
	if err != nil {
		t.Fatalf("add maker: %v", err)
	}
	if _, err := m.AddOrder(ctx, addOrder("c2", "bob", model.OrderSideSell, 100000, "3")); err != nil {
		t.Fatalf("first taker: %v", err)
	}
	if _, err := m.AddOrder(ctx, addOrder("c3", "bob", model.OrderSideSell, 100000, "3")); err != nil {
		t.Fatalf("second taker: %v", err)
	}

	events := m.events.Events(maker.OrderID)
	var partials int
	seen := map[string]bool{}
	for _, ev := range events {
		if seen[ev.EventID] {
			t.Errorf("event id %q emitted more than once", ev.EventID)
		}
		seen[ev.EventID] = true
		if ev.Status == model.OrderStatusPartiallyFilled {
			partials++
		}
	}
	if partials != 2 {
		t.Errorf("expected 2 partial-fill events for the maker, got %d", partials)
	}
}

func TestDirectOrderIDsSequential(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	ctx := context.Background()

	first, err := m.Order(ctx, "alice", 100000, "10", true)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	second, err := m.Order(ctx, "alice", 99000, "10", true)
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	// the synthetic gateway id draws from its own counter, so order ids
	// stay gapless
	if first.OrderID != "GLD-ETH-1" || second.OrderID != "GLD-ETH-2" {
		t.Errorf("expected sequential order ids, got %s then %s", first.OrderID, second.OrderID)
	}
	if first.GatewayID != "direct-1" || second.GatewayID != "direct-2" {
		t.Errorf("expected sequential gateway ids, got %s then %s", first.GatewayID, second.GatewayID)
	}
}

func TestDirectOrderABI(t *testing.T) {
	m := newTestMarket(&recordingGateway{})
	ctx := context.Background()

	// the deployed-script sequence: short 200000, short 300000, long 270000 sweeps one level
	m.Order(ctx, "alice", 200000, "1000000000000000000", false)
	m.Order(ctx, "alice", 300000, "1000000000000000000", false)
	order, err := m.Order(ctx, "bob", 270000, "100000000000000000000", true)
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	if !order.CumQuantity.Equal(d("1000000000000000000")) {
		t.Errorf("expected 1e18 filled, got %s", order.CumQuantity)
	}
	if order.Status != model.OrderStatusPartiallyFilled {
		t.Errorf("expected PartiallyFilled, got %s", order.Status)
	}

	asks := m.EnumerateBook(false, 5)
	if len(asks) != 1 || asks[0].Price != 300000 {
		t.Errorf("expected asks [(300000, 1e18)], got %v", asks)
	}
	bids := m.EnumerateBook(true, 5)
	if len(bids) != 1 || bids[0].Price != 270000 || !bids[0].Quantity.Equal(d("99000000000000000000")) {
		t.Errorf("expected bids [(270000, 99e18)], got %v", bids)
	}
}
