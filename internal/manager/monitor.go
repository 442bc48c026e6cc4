package manager

import (
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/simulation"

	"github.com/rs/zerolog/log"
)

// Observation is what the monitor saw in one pass.
type Observation struct {
	Day     int
	Stock   map[string]int
	Outcome inventory.Outcome
}

// Monitor copies environment state into the knowledge store.
type Monitor struct {
	env   *simulation.Environment
	store *knowledge.Store
}

// NewMonitor binds a monitor to env and store.
func NewMonitor(env *simulation.Environment, store *knowledge.Store) *Monitor {
	return &Monitor{env: env, store: store}
}

// Observe snapshots day, stock and pending orders. Once a day has elapsed the
// day's outcome is appended to the demand history.
func (m *Monitor) Observe() Observation {
	day := m.env.Day()
	m.store.UpdateDay(day)

	stock := m.env.Stock()
	m.store.UpdateStockLevels(stock)
	pending := m.env.PendingOrders()
	m.store.SetPendingOrders(pending)

	outcome := m.env.LastOutcome()
	if day > 0 {
		m.store.RecordOutcome(outcome)

		totalStock, totalSales, totalDemand := 0, 0, 0
		for _, id := range m.store.ProductIDs() {
			totalStock += stock[id]
			totalSales += outcome.Sales[id]
			totalDemand += outcome.Demand[id]
		}
		log.Debug().
			Int("day", day).
			Int("stock", totalStock).
			Int("sales", totalSales).
			Int("demand", totalDemand).
			Int("pending", len(pending)).
			Msg("Observed")
	}

	return Observation{Day: day, Stock: stock, Outcome: outcome}
}
