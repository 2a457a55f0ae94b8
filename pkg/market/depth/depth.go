// Package depth caches top-of-book snapshots in redis so pollers can read
// market depth without touching the engine.
package depth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/book"
)

const defaultTTL = 5 * time.Second

type snapshotLevel struct {
	Price    int64  `json:"price"`
	Quantity string `json:"quantity"`
}

type snapshot struct {
	Symbol    string          `json:"symbol"`
	Bids      []snapshotLevel `json:"bids"`
	Asks      []snapshotLevel `json:"asks"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

func key(symbol string) string {
	return fmt.Sprintf("pairbook:depth:%s", symbol)
}

// Store writes the latest snapshot for symbol. Snapshots expire so a stalled
// publisher never serves stale depth forever.
func (c *Cache) Store(ctx context.Context, symbol string, bids, asks []book.Level) error {
	snap := snapshot{
		Symbol:    symbol,
		Bids:      toSnapshotLevels(bids),
		Asks:      toSnapshotLevels(asks),
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(symbol), data, c.ttl).Err()
}

// Load returns the cached snapshot, or (nil, nil, nil) on a miss.
func (c *Cache) Load(ctx context.Context, symbol string) ([]book.Level, []book.Level, error) {
	data, err := c.client.Get(ctx, key(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, err
	}
	bids, err := fromSnapshotLevels(snap.Bids)
	if err != nil {
		return nil, nil, err
	}
	asks, err := fromSnapshotLevels(snap.Asks)
	if err != nil {
		return nil, nil, err
	}
	return bids, asks, nil
}

func toSnapshotLevels(levels []book.Level) []snapshotLevel {
	out := make([]snapshotLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, snapshotLevel{Price: l.Price, Quantity: l.Quantity.String()})
	}
	return out
}

func fromSnapshotLevels(levels []snapshotLevel) ([]book.Level, error) {
	out := make([]book.Level, 0, len(levels))
	for _, l := range levels {
		q, err := decimal.NewFromString(l.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, book.Level{Price: l.Price, Quantity: q})
	}
	return out, nil
}
