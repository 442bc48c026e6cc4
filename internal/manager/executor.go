package manager

import (
	"fmt"
	"math"

	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/planner"
	"autoreplenish/internal/simulation"

	"github.com/rs/zerolog/log"
)

// spendTolerance matches the planner's budget tolerance.
const spendTolerance = 1e-9

// PlacedOrder is an order the executor committed.
type PlacedOrder struct {
	ProductID string  `json:"sku"`
	Qty       int     `json:"qty"`
	LeadTime  int     `json:"lead_time"`
	Spend     float64 `json:"spend"`
}

// Execution summarises what the executor did with a plan.
type Execution struct {
	Placed  []PlacedOrder `json:"orders_placed"`
	Skipped []string      `json:"skipped"`
	Spend   float64       `json:"spend"`
}

// Executor applies plans to the environment.
type Executor struct {
	env     *simulation.Environment
	store   *knowledge.Store
	catalog inventory.Catalog
}

// NewExecutor binds an executor to env and store.
func NewExecutor(env *simulation.Environment, store *knowledge.Store, catalog inventory.Catalog) *Executor {
	return &Executor{env: env, store: store, catalog: catalog}
}

// Execute walks the plan in catalog order and places every positive order
// whose spend fits the remaining budget, re-checked against the store rather
// than the plan. Orders that do not fit are skipped.
func (x *Executor) Execute(plan planner.Plan) (Execution, error) {
	var res Execution

	for _, p := range x.catalog.Products {
		line, ok := plan.Orders[p.ID]
		if !ok || line.Qty <= 0 {
			continue
		}

		spend := p.OrderSpend(line.Qty)
		if remaining := x.store.Budget(); spend > remaining+spendTolerance {
			log.Warn().
				Int("day", plan.Day).
				Str("sku", p.ID).
				Int("qty", line.Qty).
				Float64("spend", spend).
				Float64("remaining", remaining).
				Msg("Skipping order over budget")
			res.Skipped = append(res.Skipped, p.ID)
			continue
		}

		order, err := x.env.PlaceOrder(p.ID, line.Qty)
		if err != nil {
			return res, fmt.Errorf("failed to place order for %s: %w", p.ID, err)
		}
		x.store.Spend(spend)
		x.store.RecordOrder(p.ID, line.Qty, spend)

		res.Placed = append(res.Placed, PlacedOrder{
			ProductID: p.ID,
			Qty:       line.Qty,
			LeadTime:  order.LeadTime,
			Spend:     spend,
		})
		res.Spend += spend
	}

	res.Spend = math.Round(res.Spend*100) / 100
	return res, nil
}
