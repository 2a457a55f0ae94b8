package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/havelock/pairbook/pkg/market/model"
)

type tickSizeBand struct {
	MaxPrice int64 `json:"maxPrice"` // 0 = no upper bound
	Step     int64 `json:"step"`
}

// TickSizeRule validates that order prices land on the pair's tick grid.
// Bands allow coarser ticks at higher prices.
type TickSizeRule struct {
	Bands map[string][]tickSizeBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bands map[string][]tickSizeBand
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, err
	}

	return &TickSizeRule{Bands: bands}, nil
}

func (r *TickSizeRule) Check(order *model.AddOrder) error {
	bands, ok := r.Bands[order.Symbol]
	if !ok { // no config -> no rule
		return nil
	}

	for _, band := range bands {
		if band.MaxPrice == 0 || order.Price <= band.MaxPrice {
			if band.Step > 0 && order.Price%band.Step != 0 {
				return fmt.Errorf("price %d off tick grid (step %d)", order.Price, band.Step)
			}
			return nil
		}
	}

	return nil
}
