// Package stream publishes order events and trades to NATS JetStream so
// downstream consumers (persistence worker, tape subscribers) stay off the
// matching path.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/havelock/pairbook/pkg/market/model"
)

const (
	StreamName    = "PAIRBOOK"
	SubjectOrders = "PAIRBOOK.orders"
	SubjectTrades = "PAIRBOOK.trades"
)

type Publisher interface {
	PublishOrderEvent(ev *model.OrderEvent) error
	PublishTrade(trade *model.Trade) error
}

type JetStreamPublisher struct {
	js nats.JetStreamContext
}

// NewJetStreamPublisher connects and makes sure the stream exists.
func NewJetStreamPublisher(url string) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamName + ".*"},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return &JetStreamPublisher{js: js}, nil
}

func (p *JetStreamPublisher) PublishOrderEvent(ev *model.OrderEvent) error {
	return p.publish(SubjectOrders, ev)
}

func (p *JetStreamPublisher) PublishTrade(trade *model.Trade) error {
	return p.publish(SubjectTrades, trade)
}

func (p *JetStreamPublisher) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	// async publish, ordering within a subject is preserved
	_, err = p.js.PublishAsync(subject, data)
	return err
}
