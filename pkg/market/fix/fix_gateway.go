package fixgateway

import (
	"context"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/havelock/pairbook/pkg/market"
	"github.com/havelock/pairbook/pkg/market/model"
)

// FixGateway bridges FIX 4.4 sessions and the market: NewOrderSingle and
// OrderCancelRequest flow in, execution reports flow back to the session
// that placed the order.
type FixGateway struct {
	cfg            *FixGatewayConfig
	app            *Application
	marketInstance market.OrderManager

	requestMapping sync.Map // ClOrdID -> *quickfix.SessionID
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg: cfg,
	}
}

func (s *FixGateway) AddMarketInstance(m market.OrderManager) {
	s.marketInstance = m
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		zap.S().Errorw("start fix acceptor failed", "err", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, nos *NewOrderSingle) {
	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[nos.Side]

	s.requestMapping.Store(nos.ClOrdID, nos.SessionID)

	// only limit orders trade here; anything else is rejected before it can
	// reach the market as a mispriced limit order
	if nos.OrdType != enum.OrdType_LIMIT {
		zap.S().Warnw("unsupported ord type rejected", "cl_ord_id", nos.ClOrdID, "ord_type", nos.OrdType)
		s.OnOrderReport(ctx, rejectedOrder(nos, side))
		return
	}

	_, err := s.marketInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    nos.ClOrdID,
		Account:      nos.Account,
		Symbol:       nos.Symbol,
		Side:         side,
		Price:        nos.Price.IntPart(),
		Quantity:     nos.OrderQty,
		TransactTime: nos.TransactTime,
	})
	if err != nil {
		zap.S().Warnw("add order rejected", "cl_ord_id", nos.ClOrdID, "err", err)
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, req *OrderCancelRequest) {
	s.requestMapping.Store(req.ClOrdID, req.SessionID)

	err := s.marketInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		Account:       req.Account,
	})
	if err != nil {
		zap.S().Warnw("cancel rejected", "cl_ord_id", req.ClOrdID, "err", err)
	}
}

// OnOrderReport implements market.OrderGateway: each order state change goes
// back to the FIX session that submitted it as an ExecutionReport.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.sessionByClOrdID(order.GatewayID)
	if err != nil {
		zap.S().Warnw("no session for report", "order_id", order.OrderID, "cl_ord_id", order.GatewayID)
		return
	}

	go func() {
		if err := sendExecutionReport(order, sessionID); err != nil {
			zap.S().Warnw("send execution report failed", "order_id", order.OrderID, "err", err)
		}
	}()
}

func rejectedOrder(nos *NewOrderSingle, side model.OrderSide) model.Order {
	order := model.Order{}
	order.UpdateAddOrder(&model.AddOrder{
		GatewayID:    nos.ClOrdID,
		Account:      nos.Account,
		Symbol:       nos.Symbol,
		Side:         side,
		Price:        nos.Price.IntPart(),
		Quantity:     nos.OrderQty,
		TransactTime: nos.TransactTime,
	})
	order.ExecID = model.NewExecID(nos.ClOrdID, 1)
	order.ApplyReject()
	return order
}

func (s *FixGateway) sessionByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errSessionNotFound
	}
	return v.(*quickfix.SessionID), nil
}
