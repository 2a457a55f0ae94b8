package eventstore

import (
	"sync"

	"github.com/havelock/pairbook/pkg/market/model"
)

type InMemoryEventStore struct {
	mu      sync.RWMutex
	events  map[string][]*model.OrderEvent
	orderID map[string]string // GatewayID -> OrderID
	chain   map[string]string // GatewayID -> OrigGatewayID
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events:  make(map[string][]*model.OrderEvent),
		orderID: make(map[string]string),
		chain:   make(map[string]string),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.OrderID] = append(s.events[ev.OrderID], ev)
	s.trackLocked(ev.OrderID, ev.GatewayID, ev.OrigGatewayID)
}

func (s *InMemoryEventStore) TrackGatewayID(orderID, gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackLocked(orderID, gatewayID, origGatewayID)
}

func (s *InMemoryEventStore) trackLocked(orderID, gatewayID, origGatewayID string) {
	if gatewayID != "" {
		s.orderID[gatewayID] = orderID
	}
	if origGatewayID != "" {
		s.chain[gatewayID] = origGatewayID
	}
}

// GetOrderID resolves a gateway (client) order id to the market order id,
// empty when unknown. A non-empty result for a fresh AddOrder means the
// client id was already used.
func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.orderID[gatewayID]
}

func (s *InMemoryEventStore) Events(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

func (s *InMemoryEventStore) DeleteByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events[orderID] {
		delete(s.orderID, ev.GatewayID)
		delete(s.chain, ev.GatewayID)
	}
	delete(s.events, orderID)
}
