package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Trade() ITrade
	OrderEvent() IOrderEvent
}

type Repo struct {
	marketDB *gorm.DB
}

func NewRepo(marketDB *gorm.DB) IRepo {
	return &Repo{
		marketDB: marketDB,
	}
}

func (r *Repo) Trade() ITrade {
	return NewTradeSQLRepo(r.marketDB)
}

func (r *Repo) OrderEvent() IOrderEvent {
	return NewOrderEventSQLRepo(r.marketDB)
}
