package riskrule

import "github.com/havelock/pairbook/pkg/market/model"

// RiskRule is a pre-trade check run before an order reaches the engine.
type RiskRule interface {
	Check(order *model.AddOrder) error
}
