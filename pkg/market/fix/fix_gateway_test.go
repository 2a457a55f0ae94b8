package fixgateway

import (
	"context"
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/market/model"
)

type recordingManager struct {
	added    []*model.AddOrder
	canceled []*model.CancelOrder
}

func (m *recordingManager) AddOrder(ctx context.Context, add *model.AddOrder) (*model.Order, error) {
	m.added = append(m.added, add)
	order := &model.Order{}
	order.UpdateAddOrder(add)
	return order, nil
}

func (m *recordingManager) CancelOrder(ctx context.Context, cancel *model.CancelOrder) error {
	m.canceled = append(m.canceled, cancel)
	return nil
}

func newOrderSingle(ordType enum.OrdType) *NewOrderSingle {
	sessionID := quickfix.SessionID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "PAIRBOOK"}
	return &NewOrderSingle{
		SessionID:    &sessionID,
		Account:      "alice",
		ClOrdID:      "c1",
		Symbol:       "GLD-ETH",
		OrdType:      ordType,
		Price:        decimal.NewFromInt(100000),
		Side:         enum.Side_BUY,
		TransactTime: time.Now(),
		OrderQty:     decimal.NewFromInt(10),
	}
}

func TestAddOrderForwardsLimitOrders(t *testing.T) {
	mgr := &recordingManager{}
	gw := NewFixGateway(&FixGatewayConfig{})
	gw.AddMarketInstance(mgr)

	gw.AddOrder(context.Background(), newOrderSingle(enum.OrdType_LIMIT))

	if len(mgr.added) != 1 {
		t.Fatalf("expected 1 forwarded order, got %d", len(mgr.added))
	}
	add := mgr.added[0]
	if add.Side != model.OrderSideBuy || add.Price != 100000 || !add.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("unexpected forwarded order %+v", add)
	}
}

func TestAddOrderRejectsNonLimitOrdType(t *testing.T) {
	mgr := &recordingManager{}
	gw := NewFixGateway(&FixGatewayConfig{})
	gw.AddMarketInstance(mgr)

	gw.AddOrder(context.Background(), newOrderSingle(enum.OrdType_MARKET))

	if len(mgr.added) != 0 {
		t.Fatalf("market order must not reach the matching path, got %d forwarded", len(mgr.added))
	}
}

func TestRejectedOrderReport(t *testing.T) {
	order := rejectedOrder(newOrderSingle(enum.OrdType_MARKET), model.OrderSideBuy)
	if order.Status != model.OrderStatusRejected || order.ExecType != model.ExecTypeRejected {
		t.Errorf("expected rejected state, got %s/%s", order.Status, order.ExecType)
	}
	if order.GatewayID != "c1" || !order.LeavesQuantity.IsZero() {
		t.Errorf("unexpected reject report %+v", order)
	}
}
