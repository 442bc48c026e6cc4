package simulation

import (
	"fmt"
	"maps"
	"math"
	"math/rand"
	"slices"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
)

// Environment is the simulated warehouse: stochastic demand, stochastic lead
// times, on-hand stock and orders in transit.
type Environment struct {
	catalog  inventory.Catalog
	scenario config.Scenario
	rng      *rand.Rand

	day         int
	stock       map[string]int
	pending     []inventory.PendingOrder
	lastOutcome inventory.Outcome
}

// NewEnvironment creates a warehouse at day 0 holding each product's initial stock.
func NewEnvironment(catalog inventory.Catalog, scenario config.Scenario) *Environment {
	e := &Environment{
		catalog:     catalog,
		scenario:    scenario,
		rng:         rand.New(rand.NewSource(scenario.Seed)),
		stock:       make(map[string]int, len(catalog.Products)),
		lastOutcome: inventory.NewOutcome(catalog.IDs()),
	}
	for _, p := range catalog.Products {
		e.stock[p.ID] = p.InitialStock
	}
	return e
}

// SetSeed reseeds the demand and lead-time generator.
func (e *Environment) SetSeed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// Day returns the current simulated day.
func (e *Environment) Day() int { return e.day }

// Stock returns a copy of on-hand units per product.
func (e *Environment) Stock() map[string]int { return maps.Clone(e.stock) }

// PendingOrders returns a copy of the orders in transit.
func (e *Environment) PendingOrders() []inventory.PendingOrder { return slices.Clone(e.pending) }

// LastOutcome returns what happened on the most recent day.
func (e *Environment) LastOutcome() inventory.Outcome { return e.lastOutcome }

// leadTimeRange applies the scenario multiplier to the product's lead-time range.
func (e *Environment) leadTimeRange(p inventory.Product) (lo, hi int) {
	m := e.scenario.LeadTimeMultiplier
	lo = max(1, int(math.RoundToEven(float64(p.LeadTimeMin)*m)))
	hi = max(1, int(math.RoundToEven(float64(p.LeadTimeMax)*m)))
	return lo, max(lo, hi)
}

// PlaceOrder puts qty units of a product in transit with a lead time drawn
// uniformly from the scenario-adjusted range.
func (e *Environment) PlaceOrder(id string, qty int) (inventory.PendingOrder, error) {
	if qty <= 0 {
		return inventory.PendingOrder{}, fmt.Errorf("order quantity must be positive, got %d", qty)
	}
	p, ok := e.catalog.Get(id)
	if !ok {
		return inventory.PendingOrder{}, fmt.Errorf("unknown product %q", id)
	}

	lo, hi := e.leadTimeRange(p)
	lt := lo + e.rng.Intn(hi-lo+1)

	order := inventory.PendingOrder{
		ProductID:  id,
		Quantity:   qty,
		ArrivalDay: e.day + lt,
		UnitCost:   p.UnitCost,
		LeadTime:   lt,
	}
	e.pending = append(e.pending, order)
	return order, nil
}

func (e *Environment) demand(p inventory.Product) int {
	m := e.scenario.DemandMultiplier
	d := e.rng.NormFloat64()*p.DailyDemandStd*m + p.DailyDemandMean*m
	return max(0, int(math.RoundToEven(d)))
}

// Tick advances one day: due orders land in stock, then demand is drawn and
// served from stock in catalog order. Unserved demand is lost.
func (e *Environment) Tick() inventory.Outcome {
	e.day++

	out := inventory.NewOutcome(e.catalog.IDs())

	remaining := e.pending[:0]
	for _, o := range e.pending {
		if o.ArrivalDay <= e.day {
			e.stock[o.ProductID] += o.Quantity
			out.Arrivals = append(out.Arrivals, inventory.Arrival{
				ProductID: o.ProductID,
				Quantity:  o.Quantity,
				Day:       e.day,
			})
			continue
		}
		remaining = append(remaining, o)
	}
	e.pending = remaining

	for _, p := range e.catalog.Products {
		d := e.demand(p)
		sold := min(d, e.stock[p.ID])
		e.stock[p.ID] -= sold

		out.Demand[p.ID] = d
		out.Sales[p.ID] = sold
		out.LostSales[p.ID] = d - sold
	}

	e.lastOutcome = out
	return out
}
