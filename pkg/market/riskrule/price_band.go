package riskrule

import (
	"fmt"

	"github.com/havelock/pairbook/pkg/market/model"
)

type priceBand struct {
	floor int64
	ceil  int64
}

// PriceBandRule rejects orders priced outside the configured band for the
// symbol. Symbols without a band pass.
type PriceBandRule struct {
	bands map[string]priceBand
}

func NewPriceBandRule() *PriceBandRule {
	return &PriceBandRule{bands: make(map[string]priceBand)}
}

func (r *PriceBandRule) SetBand(symbol string, floor, ceil int64) {
	r.bands[symbol] = priceBand{floor: floor, ceil: ceil}
}

func (r *PriceBandRule) Check(order *model.AddOrder) error {
	band, ok := r.bands[order.Symbol]
	if !ok {
		return nil
	}
	if order.Price < band.floor || order.Price > band.ceil {
		return fmt.Errorf("price %d outside band [%d, %d]", order.Price, band.floor, band.ceil)
	}
	return nil
}
