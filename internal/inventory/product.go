package inventory

import (
	"fmt"
	"math"
)

// Product is a static catalog entry. It is immutable for the duration of a run.
type Product struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// DailyDemandMean and DailyDemandStd parameterise the simulated demand only;
	// the controller never reads them.
	DailyDemandMean float64 `yaml:"daily_demand_mean" json:"daily_demand_mean"`
	DailyDemandStd  float64 `yaml:"daily_demand_std" json:"daily_demand_std"`

	UnitPrice             float64 `yaml:"unit_price" json:"unit_price"`
	UnitCost              float64 `yaml:"unit_cost" json:"unit_cost"`
	HoldingCostPerUnitDay float64 `yaml:"holding_cost_per_unit_day" json:"holding_cost_per_unit_day"`
	OrderFixedCost        float64 `yaml:"order_fixed_cost" json:"order_fixed_cost"`
	LeadTimeMin           int     `yaml:"lead_time_min" json:"lead_time_min"`
	LeadTimeMax           int     `yaml:"lead_time_max" json:"lead_time_max"`
	InitialStock          int     `yaml:"initial_stock" json:"initial_stock"`
}

// OrderSpend is the cash outlay for ordering qty units: variable cost plus the
// fixed cost whenever anything is ordered.
func (p Product) OrderSpend(qty int) float64 {
	if qty <= 0 {
		return 0
	}
	return float64(qty)*p.UnitCost + p.OrderFixedCost
}

// NominalLeadTime is the midpoint of the lead-time range, rounded half to even
// and floored at one day.
func (p Product) NominalLeadTime() int {
	mid := math.RoundToEven(float64(p.LeadTimeMin+p.LeadTimeMax) / 2)
	return max(1, int(mid))
}

// Validate checks the entry for values the controller cannot work with.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is empty")
	}
	if p.UnitPrice <= 0 {
		return fmt.Errorf("product %s: unit_price must be > 0", p.ID)
	}
	if p.UnitCost < 0 || p.OrderFixedCost < 0 || p.HoldingCostPerUnitDay < 0 {
		return fmt.Errorf("product %s: costs must be >= 0", p.ID)
	}
	if p.LeadTimeMin < 0 || p.LeadTimeMax < p.LeadTimeMin {
		return fmt.Errorf("product %s: invalid lead time range [%d, %d]", p.ID, p.LeadTimeMin, p.LeadTimeMax)
	}
	if p.InitialStock < 0 {
		return fmt.Errorf("product %s: initial_stock must be >= 0", p.ID)
	}
	return nil
}

// Catalog is the ordered product list. Order is significant: every per-product
// loop in the controller walks products in catalog order.
type Catalog struct {
	Products []Product `yaml:"products" json:"products"`
}

// IDs returns product identifiers in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.Products))
	for i, p := range c.Products {
		ids[i] = p.ID
	}
	return ids
}

// Get looks up a product by identifier.
func (c Catalog) Get(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Validate checks every entry and rejects duplicate identifiers.
func (c Catalog) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("catalog has no products")
	}
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
