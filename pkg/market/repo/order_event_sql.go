package repo

import (
	"context"

	"github.com/havelock/pairbook/pkg/market/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderEventSQLRepo struct {
	db *gorm.DB
}

func NewOrderEventSQLRepo(db *gorm.DB) *OrderEventSQLRepo {
	return &OrderEventSQLRepo{
		db: db,
	}
}

func (s *OrderEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Create is an idempotent insert: a JetStream redelivery of an already
// persisted event hits the primary key and is silently skipped.
func (r *OrderEventSQLRepo) Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error) {
	return record, r.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

func (r *OrderEventSQLRepo) BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error) {
	return records, r.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(records).Error
}
