package eventstore

import "github.com/havelock/pairbook/pkg/market/model"

// EventStore keeps the execution history per order plus the gateway-id
// mapping used for duplicate detection and cancel routing.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	TrackGatewayID(orderID, gatewayID, origGatewayID string)
	GetOrderID(gatewayID string) string
	Events(orderID string) []*model.OrderEvent
	DeleteByOrderID(orderID string)
}
