// Package market orchestrates one trading pair: it runs gateway commands
// through pre-trade risk checks and the matching engine, keeps the
// service-level order state, and fans out execution reports, events, trades,
// depth snapshots and metrics.
package market

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/havelock/pairbook/pkg/book"
	"github.com/havelock/pairbook/pkg/engine"
	"github.com/havelock/pairbook/pkg/ledger"
	"github.com/havelock/pairbook/pkg/market/depth"
	"github.com/havelock/pairbook/pkg/market/eventstore"
	"github.com/havelock/pairbook/pkg/market/model"
	riskrule "github.com/havelock/pairbook/pkg/market/riskrule"
	"github.com/havelock/pairbook/pkg/market/stream"
	"github.com/havelock/pairbook/pkg/metrics"
)

type Config struct {
	Symbol string
	Depth  int // levels kept in the cached snapshot
}

type Market struct {
	cfg     Config
	gateway OrderGateway
	engine  *engine.MatchingEngine
	events  eventstore.EventStore
	rules   []riskrule.RiskRule

	publisher stream.Publisher // optional
	depths    *depth.Cache     // optional
	stats     *metrics.Metrics // optional

	orderIDMapping  sync.Map // OrderID -> *model.Order
	engineIDMapping sync.Map // engine id -> OrderID
	orderSeq        atomic.Uint64
	tradeSeq        atomic.Uint64
	eventSeq        atomic.Uint64
	directSeq       atomic.Uint64
	stopCh          chan struct{}
}

func New(cfg Config, gateway OrderGateway, l ledger.Ledger) *Market {
	if cfg.Depth <= 0 {
		cfg.Depth = 20
	}
	return &Market{
		cfg:     cfg,
		gateway: gateway,
		engine:  engine.New(l),
		events:  eventstore.NewInMemoryEventStore(),
		stopCh:  make(chan struct{}),
	}
}

func (m *Market) WithRules(rules ...riskrule.RiskRule) *Market {
	m.rules = append(m.rules, rules...)
	return m
}

func (m *Market) WithPublisher(p stream.Publisher) *Market {
	m.publisher = p
	return m
}

func (m *Market) WithDepthCache(c *depth.Cache) *Market {
	m.depths = c
	return m
}

func (m *Market) WithMetrics(s *metrics.Metrics) *Market {
	m.stats = s
	return m
}

func (m *Market) Start(ctx context.Context) error {
	return m.gateway.Start(ctx)
}

func (m *Market) Stop() {
	close(m.stopCh)
}

// AddOrder runs a new order through risk checks and the engine. The returned
// order carries the final execution state of this call; the same state goes
// to the gateway as an execution report.
func (m *Market) AddOrder(ctx context.Context, add *model.AddOrder) (*model.Order, error) {
	if add.Symbol != m.cfg.Symbol {
		return nil, errSymbolMismatch
	}
	if m.events.GetOrderID(add.GatewayID) != "" {
		return nil, errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(add)
	order.OrderID = m.nextOrderID()

	side, err := bookSide(add.Side)
	if err != nil {
		return nil, err
	}

	for _, rule := range m.rules {
		if err := rule.Check(add); err != nil {
			m.reject(ctx, order)
			return order, err
		}
	}

	report, err := m.engine.Submit(side, add.Price, add.Quantity, add.Account)
	if err != nil {
		m.reject(ctx, order)
		return order, err
	}

	m.storeOrder(order)

	now := time.Now()
	for i, leg := range report.Legs {
		order.ExecID = model.NewExecID(order.OrderID, i+1)
		order.ApplyFill(leg.Price, leg.Quantity)
		m.recordTrade(ctx, order, leg, now)
		m.updateMaker(ctx, leg, now)
	}
	if report.OrderID != 0 {
		order.ApplyRest(report.OrderID)
		m.engineIDMapping.Store(report.OrderID, order.OrderID)
	}
	if order.IsEnd() {
		m.dropOrder(order.OrderID)
	}

	m.emit(ctx, order, now)

	if m.stats != nil {
		m.stats.OrdersSubmitted.WithLabelValues(string(add.Side)).Inc()
	}
	m.refreshDepth(ctx)

	return order, nil
}

// CancelOrder removes a resting order. The requesting account must own it.
func (m *Market) CancelOrder(ctx context.Context, cancel *model.CancelOrder) error {
	orderID := m.events.GetOrderID(cancel.OrigGatewayID)
	if orderID == "" {
		return errGatewayIDNotFound
	}
	order, err := m.getOrder(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}
	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	if err := m.engine.Cancel(order.EngineID, cancel.Account); err != nil {
		return err
	}

	m.engineIDMapping.Delete(order.EngineID)
	order.OrigGatewayID = cancel.OrigGatewayID
	order.GatewayID = cancel.GatewayID
	order.ApplyCancel()
	m.dropOrder(order.OrderID)

	now := time.Now()
	m.emit(ctx, order, now)

	if m.stats != nil {
		m.stats.OrdersCanceled.Inc()
	}
	m.refreshDepth(ctx)

	return nil
}

// EnumerateBook mirrors the deployed ABI: isLong selects the bid book,
// maxLevels bounds the depth. Pure read.
func (m *Market) EnumerateBook(isLong bool, maxLevels int) []book.Level {
	side := book.Ask
	if isLong {
		side = book.Bid
	}
	return m.engine.EnumerateBook(side, maxLevels)
}

// Order mirrors the deployed ABI's order(price, quantity, isLong) call for
// direct (non-FIX) callers.
func (m *Market) Order(ctx context.Context, account string, price int64, quantity string, isLong bool) (*model.Order, error) {
	qty, err := parseQuantity(quantity)
	if err != nil {
		return nil, err
	}
	side := model.OrderSideSell
	if isLong {
		side = model.OrderSideBuy
	}
	return m.AddOrder(ctx, &model.AddOrder{
		GatewayID:    fmt.Sprintf("direct-%d", m.directSeq.Add(1)),
		Account:      account,
		Symbol:       m.cfg.Symbol,
		Side:         side,
		Price:        price,
		Quantity:     qty,
		TransactTime: time.Now(),
	})
}

func (m *Market) reject(ctx context.Context, order *model.Order) {
	order.ApplyReject()
	m.emit(ctx, order, time.Now())
	if m.stats != nil {
		m.stats.OrdersRejected.Inc()
	}
}

// recordTrade emits one settled leg as a trade.
func (m *Market) recordTrade(ctx context.Context, taker *model.Order, leg engine.FillLeg, now time.Time) {
	buyer, seller := taker.Account, leg.MakerOwner
	if taker.Side == model.OrderSideSell {
		buyer, seller = leg.MakerOwner, taker.Account
	}
	trade := &model.Trade{
		TradeID:      fmt.Sprintf("%s-T%d", m.cfg.Symbol, m.tradeSeq.Add(1)),
		Symbol:       m.cfg.Symbol,
		Price:        leg.Price,
		Quantity:     leg.Quantity,
		Buyer:        buyer,
		Seller:       seller,
		TakerOrderID: taker.OrderID,
		MakerOrderID: leg.MakerOrderID,
		ExecutedAt:   now,
	}
	if m.publisher != nil {
		if err := m.publisher.PublishTrade(trade); err != nil {
			zap.S().Warnw("publish trade failed", "trade_id", trade.TradeID, "err", err)
		}
	}
	if m.stats != nil {
		m.stats.Trades.Inc()
		vol, _ := leg.Quantity.Float64()
		m.stats.MatchedVolume.Add(vol)
	}
}

// updateMaker folds the fill into the resting counterparty's service-level
// order and reports it to the gateway.
func (m *Market) updateMaker(ctx context.Context, leg engine.FillLeg, now time.Time) {
	orderIDVal, ok := m.engineIDMapping.Load(leg.MakerOrderID)
	if !ok {
		// maker was placed outside this service (direct engine access);
		// nothing to report
		return
	}
	maker, err := m.getOrder(orderIDVal.(string))
	if err != nil {
		zap.S().Warnw("maker order missing", "engine_id", leg.MakerOrderID)
		return
	}
	maker.ApplyFill(leg.Price, leg.Quantity)
	if maker.IsEnd() {
		m.engineIDMapping.Delete(leg.MakerOrderID)
		m.dropOrder(maker.OrderID)
	}
	m.emit(ctx, maker, now)
}

// emit appends the order's current state to the event store, publishes it,
// and sends the execution report.
func (m *Market) emit(ctx context.Context, order *model.Order, now time.Time) {
	snapshot := *order
	ev := model.NewOrderEvent(snapshot, now, m.eventSeq.Add(1))
	m.events.AddEvent(ev)
	if m.publisher != nil {
		if err := m.publisher.PublishOrderEvent(ev); err != nil {
			zap.S().Warnw("publish order event failed", "order_id", order.OrderID, "err", err)
		}
	}
	m.gateway.OnOrderReport(ctx, snapshot)
}

func (m *Market) refreshDepth(ctx context.Context) {
	if m.stats != nil {
		m.stats.RestingOrders.WithLabelValues("bid").Set(float64(m.engine.RestingOrders(book.Bid)))
		m.stats.RestingOrders.WithLabelValues("ask").Set(float64(m.engine.RestingOrders(book.Ask)))
		m.stats.BookDepth.WithLabelValues("bid").Set(float64(len(m.engine.EnumerateBook(book.Bid, m.cfg.Depth))))
		m.stats.BookDepth.WithLabelValues("ask").Set(float64(len(m.engine.EnumerateBook(book.Ask, m.cfg.Depth))))
	}
	if m.depths == nil {
		return
	}
	bids := m.engine.EnumerateBook(book.Bid, m.cfg.Depth)
	asks := m.engine.EnumerateBook(book.Ask, m.cfg.Depth)
	if err := m.depths.Store(ctx, m.cfg.Symbol, bids, asks); err != nil {
		zap.S().Warnw("store depth snapshot failed", "symbol", m.cfg.Symbol, "err", err)
	}
}

func (m *Market) nextOrderID() string {
	return fmt.Sprintf("%s-%d", m.cfg.Symbol, m.orderSeq.Add(1))
}

func bookSide(side model.OrderSide) (book.Side, error) {
	switch side {
	case model.OrderSideBuy:
		return book.Bid, nil
	case model.OrderSideSell:
		return book.Ask, nil
	default:
		return "", errUnknownSide
	}
}
