package inventory

// DemandRecord is one product's outcome for one elapsed day. Records are
// append-only and never mutated after creation.
type DemandRecord struct {
	Day       int `json:"day"`
	Demand    int `json:"demand"`
	Sales     int `json:"sales"`
	LostSales int `json:"lost_sales"`
}

// EffectiveDemand is fulfilled plus lost sales, i.e. demand uncensored by stockouts.
func (r DemandRecord) EffectiveDemand() float64 {
	return float64(r.Sales + r.LostSales)
}

// ForecastModelMovingAverage tags forecasts produced by the rolling-window estimator.
const ForecastModelMovingAverage = "moving_average"

// Forecast is the per-product point forecast of daily demand.
type Forecast struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Model string  `json:"model"`
}

// AnomalyKind classifies a demand anomaly.
type AnomalyKind string

const (
	// Spike means today's demand is far above the forecast.
	Spike AnomalyKind = "spike"
	// Drop means today's demand is far below the forecast.
	Drop AnomalyKind = "drop"
)

// Anomaly is present for a product only while today's demand exceeds the z-score threshold.
type Anomaly struct {
	Kind     AnomalyKind `json:"type"`
	Z        float64     `json:"z"`
	Observed float64     `json:"today"`
	Mean     float64     `json:"mean"`
}

// PendingOrder is an order in transit.
type PendingOrder struct {
	ProductID  string  `json:"sku"`
	Quantity   int     `json:"qty"`
	ArrivalDay int     `json:"arrival_day"`
	UnitCost   float64 `json:"unit_cost"`
	LeadTime   int     `json:"lead_time"`
}

// OrderRecord is one order placed by the effector.
type OrderRecord struct {
	Day       int     `json:"day"`
	ProductID string  `json:"sku"`
	Quantity  int     `json:"qty"`
	Spend     float64 `json:"spend"`
}

// Arrival is a pending order that landed in stock.
type Arrival struct {
	ProductID string `json:"sku"`
	Quantity  int    `json:"qty"`
	Day       int    `json:"day"`
}

// Outcome is what happened in the warehouse on one simulated day.
type Outcome struct {
	Demand    map[string]int `json:"demand"`
	Sales     map[string]int `json:"sales"`
	LostSales map[string]int `json:"lost_sales"`
	Arrivals  []Arrival      `json:"arrivals"`
}

// NewOutcome returns an outcome with zero entries for every id.
func NewOutcome(ids []string) Outcome {
	o := Outcome{
		Demand:    make(map[string]int, len(ids)),
		Sales:     make(map[string]int, len(ids)),
		LostSales: make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		o.Demand[id] = 0
		o.Sales[id] = 0
		o.LostSales[id] = 0
	}
	return o
}

// Record converts the outcome for one product into a DemandRecord stamped with day.
func (o Outcome) Record(id string, day int) DemandRecord {
	return DemandRecord{
		Day:       day,
		Demand:    o.Demand[id],
		Sales:     o.Sales[id],
		LostSales: o.LostSales[id],
	}
}
