package knowledge

import "autoreplenish/internal/inventory"

// Snapshot is a read-only copy of the store taken at the start of planning.
type Snapshot struct {
	Day        int     `json:"day"`
	Budget     float64 `json:"budget"`
	DailySpent float64 `json:"daily_spent"`

	Stock        map[string]int           `json:"stock_levels"`
	Position     map[string]int           `json:"stock_position"`
	LastOrderQty map[string]int           `json:"last_order_qty"`
	Pending      []inventory.PendingOrder `json:"pending_orders"`

	Forecast      map[string]inventory.Forecast `json:"forecast"`
	Volatility    map[string]float64            `json:"volatility"`
	ServiceLevel  map[string]float64            `json:"service_level"`
	Anomalies     map[string]inventory.Anomaly  `json:"anomalies"`
	SafetyFactors map[string]float64            `json:"safety_z"`
	BlockedUntil  map[string]int                `json:"blocks"`
}

// ForecastFor returns the product's forecast, or mean 0 and std 1 before the first analysis.
func (s Snapshot) ForecastFor(id string) (inventory.Forecast, bool) {
	f, ok := s.Forecast[id]
	if !ok {
		return inventory.Forecast{Mean: 0, Std: 1, Model: inventory.ForecastModelMovingAverage}, false
	}
	return f, true
}

// VolatilityFor defaults to 1 when no volatility has been measured.
func (s Snapshot) VolatilityFor(id string) float64 {
	if v, ok := s.Volatility[id]; ok {
		return v
	}
	return 1
}

// ServiceLevelFor defaults to 1 (no evidence of shortfall).
func (s Snapshot) ServiceLevelFor(id string) float64 {
	if sl, ok := s.ServiceLevel[id]; ok {
		return sl
	}
	return 1
}

// SpikeActive reports whether a spike anomaly is currently recorded for the product.
func (s Snapshot) SpikeActive(id string) bool {
	a, ok := s.Anomalies[id]
	return ok && a.Kind == inventory.Spike
}

// IsBlocked mirrors Store.IsBlocked at snapshot time.
func (s Snapshot) IsBlocked(id string) bool {
	until, ok := s.BlockedUntil[id]
	return ok && s.Day <= until
}
