package market

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/market/model"
)

func (m *Market) storeOrder(order *model.Order) {
	m.orderIDMapping.Store(order.OrderID, order)
	m.events.TrackGatewayID(order.OrderID, order.GatewayID, order.OrigGatewayID)
}

func (m *Market) getOrder(orderID string) (*model.Order, error) {
	v, ok := m.orderIDMapping.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return v.(*model.Order), nil
}

func (m *Market) dropOrder(orderID string) {
	m.orderIDMapping.Delete(orderID)
}

// StartCleaner periodically evicts terminal orders' event history. Gateway
// id dedupe for those orders ends with the eviction, matching the engine's
// id-never-reused rule only for live state.
func (m *Market) StartCleaner(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.cleanup()
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *Market) cleanup() {
	m.orderIDMapping.Range(func(k, v any) bool {
		order := v.(*model.Order)
		if order.IsEnd() {
			m.dropOrder(order.OrderID)
			m.events.DeleteByOrderID(order.OrderID)
		}
		return true
	})
}

func parseQuantity(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
