package knowledge

import (
	"maps"
	"slices"
	"sync"

	"autoreplenish/internal/inventory"
)

// Store is the shared knowledge of the control loop. Each field has a single
// writer per cycle: the monitor writes day, stock and pending orders; the
// analyzer writes forecast, volatility, service level and anomalies; the
// planner writes safety factors and blocks; the executor writes budget and
// order history.
type Store struct {
	mu sync.RWMutex

	ids []string

	day        int
	budget     float64
	dailySpent float64

	stock   map[string]int
	pending []inventory.PendingOrder

	history map[string][]inventory.DemandRecord
	orders  map[string][]inventory.OrderRecord

	forecast     map[string]inventory.Forecast
	volatility   map[string]float64
	serviceLevel map[string]float64
	anomalies    map[string]inventory.Anomaly

	safety map[string]float64
	blocks map[string]int // product -> last frozen day (inclusive)
}

// NewStore creates a store for the catalog, seeded with initial stock, the
// starting budget and a base safety factor for every product.
func NewStore(catalog inventory.Catalog, budget, baseSafetyFactor float64) *Store {
	s := &Store{
		ids:          catalog.IDs(),
		budget:       budget,
		stock:        make(map[string]int, len(catalog.Products)),
		history:      make(map[string][]inventory.DemandRecord, len(catalog.Products)),
		orders:       make(map[string][]inventory.OrderRecord, len(catalog.Products)),
		forecast:     make(map[string]inventory.Forecast),
		volatility:   make(map[string]float64),
		serviceLevel: make(map[string]float64),
		anomalies:    make(map[string]inventory.Anomaly),
		safety:       make(map[string]float64, len(catalog.Products)),
		blocks:       make(map[string]int),
	}
	for _, p := range catalog.Products {
		s.stock[p.ID] = p.InitialStock
		s.safety[p.ID] = baseSafetyFactor
	}
	return s
}

// ProductIDs returns the catalog order of products.
func (s *Store) ProductIDs() []string {
	return slices.Clone(s.ids)
}

// Day returns the current simulated day.
func (s *Store) Day() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

// UpdateDay moves the store to day and resets the daily spend ledger.
func (s *Store) UpdateDay(day int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = day
	s.dailySpent = 0
}

// SetBudget replaces the remaining budget.
func (s *Store) SetBudget(budget float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
}

// Budget returns the remaining budget.
func (s *Store) Budget() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget
}

// DailySpent returns what has been spent since the last UpdateDay.
func (s *Store) DailySpent() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dailySpent
}

// Spend debits amount from the remaining budget and the daily ledger.
func (s *Store) Spend(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget -= amount
	s.dailySpent += amount
}

// UpdateStockLevels replaces the on-hand snapshot.
func (s *Store) UpdateStockLevels(stock map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = maps.Clone(stock)
}

// Stock returns on-hand units of a product.
func (s *Store) Stock(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[id]
}

// SetPendingOrders replaces the in-transit snapshot.
func (s *Store) SetPendingOrders(pending []inventory.PendingOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = slices.Clone(pending)
}

// StockPosition is on-hand plus in-transit units of a product.
func (s *Store) StockPosition(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positionLocked(id)
}

func (s *Store) positionLocked(id string) int {
	pos := s.stock[id]
	for _, o := range s.pending {
		if o.ProductID == id {
			pos += o.Quantity
		}
	}
	return pos
}

// RecordOutcome appends one DemandRecord per product, stamped with the current day.
func (s *Store) RecordOutcome(outcome inventory.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids {
		s.history[id] = append(s.history[id], outcome.Record(id, s.day))
	}
}

// RecentHistory returns a copy of the last window records of a product.
// A non-positive window returns the full history.
func (s *Store) RecentHistory(id string, window int) []inventory.DemandRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.history[id]
	if window > 0 && len(h) > window {
		h = h[len(h)-window:]
	}
	return slices.Clone(h)
}

// HistoryLen returns the number of records kept for a product.
func (s *Store) HistoryLen(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history[id])
}

// RecordOrder appends to the order history at the current day.
func (s *Store) RecordOrder(id string, qty int, spend float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = append(s.orders[id], inventory.OrderRecord{
		Day:       s.day,
		ProductID: id,
		Quantity:  qty,
		Spend:     spend,
	})
}

// Orders returns a copy of the order history of a product.
func (s *Store) Orders(id string) []inventory.OrderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders[id])
}

// LastOrderQty returns the quantity of the most recent order, or 0.
func (s *Store) LastOrderQty(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastOrderQtyLocked(id)
}

func (s *Store) lastOrderQtyLocked(id string) int {
	o := s.orders[id]
	if len(o) == 0 {
		return 0
	}
	return o[len(o)-1].Quantity
}

// StoreForecast overwrites the product's forecast.
func (s *Store) StoreForecast(id string, f inventory.Forecast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecast[id] = f
}

// StoreVolatility overwrites the product's volatility.
func (s *Store) StoreVolatility(id string, vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volatility[id] = vol
}

// StoreServiceLevel overwrites the product's fill rate.
func (s *Store) StoreServiceLevel(id string, sl float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serviceLevel[id] = sl
}

// StoreAnomaly sets the product's anomaly, or clears it when a is nil.
func (s *Store) StoreAnomaly(id string, a *inventory.Anomaly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a == nil {
		delete(s.anomalies, id)
		return
	}
	s.anomalies[id] = *a
}

// SetSafetyFactor overwrites the product's safety factor.
func (s *Store) SetSafetyFactor(id string, z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.safety[id] = z
}

// BlockOrders freezes ordering for the product through day+days and returns that day.
func (s *Store) BlockOrders(id string, days int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	until := s.day + max(0, days)
	s.blocks[id] = until
	return until
}

// IsBlocked reports whether ordering is frozen for the product today.
func (s *Store) IsBlocked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.blocks[id]
	return ok && s.day <= until
}

// Snapshot returns a consistent copy of the state read by the planner.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	position := make(map[string]int, len(s.ids))
	lastQty := make(map[string]int, len(s.ids))
	for _, id := range s.ids {
		position[id] = s.positionLocked(id)
		lastQty[id] = s.lastOrderQtyLocked(id)
	}

	return Snapshot{
		Day:           s.day,
		Budget:        s.budget,
		DailySpent:    s.dailySpent,
		Stock:         maps.Clone(s.stock),
		Position:      position,
		LastOrderQty:  lastQty,
		Pending:       slices.Clone(s.pending),
		Forecast:      maps.Clone(s.forecast),
		Volatility:    maps.Clone(s.volatility),
		ServiceLevel:  maps.Clone(s.serviceLevel),
		Anomalies:     maps.Clone(s.anomalies),
		SafetyFactors: maps.Clone(s.safety),
		BlockedUntil:  maps.Clone(s.blocks),
	}
}
