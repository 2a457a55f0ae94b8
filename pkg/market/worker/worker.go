// Package worker drains the market's event stream into postgres, keeping
// persistence off the matching path.
package worker

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/havelock/pairbook/pkg/market/model"
	"github.com/havelock/pairbook/pkg/market/repo"
	"github.com/havelock/pairbook/pkg/market/stream"
)

const fetchBatch = 10

type Worker struct {
	trades      repo.ITrade
	orderEvents repo.IOrderEvent
}

func NewWorker(r repo.IRepo) *Worker {
	return &Worker{
		trades:      r.Trade(),
		orderEvents: r.OrderEvent(),
	}
}

// StartOrderEventConsumer pulls order events from JetStream and persists
// them. Events are idempotent on event_id, so redelivery after a missed ack
// is harmless.
func (w *Worker) StartOrderEventConsumer(ctx context.Context, js nats.JetStreamContext, durable string) error {
	sub, err := js.PullSubscribe(stream.SubjectOrders, durable)
	if err != nil {
		return err
	}
	return w.consume(ctx, sub, w.handleOrderEvent)
}

// StartTradeConsumer persists the trade tape.
func (w *Worker) StartTradeConsumer(ctx context.Context, js nats.JetStreamContext, durable string) error {
	sub, err := js.PullSubscribe(stream.SubjectTrades, durable)
	if err != nil {
		return err
	}
	return w.consume(ctx, sub, w.handleTrade)
}

func (w *Worker) consume(ctx context.Context, sub *nats.Subscription, handle func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(fetchBatch, nats.Context(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue // fetch timeout, keep polling
		}

		for _, msg := range msgs {
			if err := handle(ctx, msg.Data); err != nil {
				zap.S().Warnw("handle event failed", "err", err)
				continue // no ack, redeliver
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) handleOrderEvent(ctx context.Context, data []byte) error {
	var ev model.OrderEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		zap.S().Warnw("unmarshal order event failed", "err", err)
		return nil // poison message, drop it
	}
	_, err := w.orderEvents.Create(ctx, &ev)
	return err
}

func (w *Worker) handleTrade(ctx context.Context, data []byte) error {
	var trade model.Trade
	if err := json.Unmarshal(data, &trade); err != nil {
		zap.S().Warnw("unmarshal trade failed", "err", err)
		return nil
	}
	_, err := w.trades.Create(ctx, &trade)
	return err
}
