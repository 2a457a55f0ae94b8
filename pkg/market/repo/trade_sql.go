package repo

import (
	"context"

	"github.com/havelock/pairbook/pkg/market/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TradeSQLRepo struct {
	db *gorm.DB
}

func NewTradeSQLRepo(db *gorm.DB) *TradeSQLRepo {
	return &TradeSQLRepo{
		db: db,
	}
}

func (s *TradeSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Create is an idempotent insert: a JetStream redelivery of an already
// persisted trade hits the primary key and is silently skipped.
func (r *TradeSQLRepo) Create(ctx context.Context, record *model.Trade) (*model.Trade, error) {
	return record, r.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

func (r *TradeSQLRepo) BulkCreate(ctx context.Context, records []*model.Trade) ([]*model.Trade, error) {
	return records, r.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(records).Error
}

func (r *TradeSQLRepo) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.Trade, error) {
	var trades []*model.Trade
	err := r.dbWithContext(ctx).
		Where("symbol = ?", symbol).
		Order("executed_at desc").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}
