package planner

import "math"

// OrderLine is the chosen candidate for one product.
type OrderLine struct {
	Qty             int     `json:"qty"`
	ExpectedUtility float64 `json:"expected_utility"`
	Spend           float64 `json:"spend"`
	SafetyFactor    float64 `json:"safety_z"`
	SafetyStock     float64 `json:"safety_stock"`
}

// StopOrder announces a product newly frozen this cycle.
type StopOrder struct {
	ProductID string `json:"product_id"`
	Days      int    `json:"days"`
}

// PlanMeta aggregates the cycle's decision.
type PlanMeta struct {
	BudgetLimit     float64  `json:"budget_limit"`
	Spend           float64  `json:"spend"`
	Utility         float64  `json:"utility"`
	BlockedProducts []string `json:"blocked_products"`
	Fallback        bool     `json:"fallback,omitempty"`
}

// Plan is the planner's output, consumed by the executor.
type Plan struct {
	Day        int                  `json:"day"`
	Orders     map[string]OrderLine `json:"orders"`
	StopOrders []StopOrder          `json:"stop_orders"`
	Meta       PlanMeta             `json:"meta"`
}

// OrderCount is the number of products with a positive quantity.
func (p Plan) OrderCount() int {
	n := 0
	for _, o := range p.Orders {
		if o.Qty > 0 {
			n++
		}
	}
	return n
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
