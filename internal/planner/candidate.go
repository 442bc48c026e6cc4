package planner

import (
	"math"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/stats"
)

// Candidate is one menu quantity for one product with its utility and spend.
type Candidate struct {
	Qty     int     `json:"qty"`
	Utility float64 `json:"utility"`
	Spend   float64 `json:"spend"`
}

// ProductView is everything the utility model needs to know about one product
// this cycle.
type ProductView struct {
	Product      inventory.Product
	Forecast     inventory.Forecast
	HasForecast  bool
	ServiceLevel float64
	Spike        bool
	Position     int
	LastOrderQty int
}

// ViewOf assembles the view of p from a snapshot.
func ViewOf(p inventory.Product, snap knowledge.Snapshot) ProductView {
	f, ok := snap.ForecastFor(p.ID)
	return ProductView{
		Product:      p,
		Forecast:     f,
		HasForecast:  ok,
		ServiceLevel: snap.ServiceLevelFor(p.ID),
		Spike:        snap.SpikeActive(p.ID),
		Position:     snap.Position[p.ID],
		LastOrderQty: snap.LastOrderQty[p.ID],
	}
}

// Breakdown itemises the utility of ordering Qty units.
type Breakdown struct {
	Qty             int     `json:"qty"`
	LeadTime        int     `json:"lead_time"`
	DemandMean      float64 `json:"lead_time_demand_mean"`
	DemandStd       float64 `json:"lead_time_demand_std"`
	Available       float64 `json:"available"`
	ExpectedSales   float64 `json:"expected_sales"`
	ExpectedShort   float64 `json:"expected_stockout"`
	Revenue         float64 `json:"revenue"`
	OrderCost       float64 `json:"order_cost"`
	HoldingCost     float64 `json:"holding_cost"`
	StockoutPenalty float64 `json:"stockout_penalty"`
	BullwhipPenalty float64 `json:"bullwhip_penalty"`
	Utility         float64 `json:"utility"`
}

// CandidateModel scores order quantities by expected profit over the lead time.
type CandidateModel struct {
	Settings config.Settings
}

// PriceWeight grows super-linearly with unit price and never drops below 1.
func PriceWeight(price, reference, exponent float64) float64 {
	return math.Max(1, math.Pow(price/reference, exponent))
}

func (m CandidateModel) serviceLevelFactor(sl float64) float64 {
	if sl < m.Settings.ServiceLevelTarget {
		return 1 + (m.Settings.ServiceLevelTarget-sl)*m.Settings.ServiceDeficitScale
	}
	return 1
}

// Breakdown evaluates ordering qty units for the product in v.
func (m CandidateModel) Breakdown(v ProductView, qty int) Breakdown {
	s := m.Settings
	p := v.Product
	lt := p.NominalLeadTime()

	mu := v.Forecast.Mean * float64(lt)
	if v.Spike {
		mu *= s.SpikeDemandMultiplier
	}
	sigma := v.Forecast.Std * math.Sqrt(float64(lt))
	available := float64(v.Position + qty)

	sales, short := stats.ExpectedSalesStockout(mu, sigma, available)

	b := Breakdown{
		Qty:           qty,
		LeadTime:      lt,
		DemandMean:    mu,
		DemandStd:     sigma,
		Available:     available,
		ExpectedSales: sales,
		ExpectedShort: short,
		Revenue:       sales * p.UnitPrice,
		OrderCost:     p.OrderSpend(qty),
		HoldingCost:   math.Max(0, available-sales) * p.HoldingCostPerUnitDay * float64(lt),
	}

	pw := PriceWeight(p.UnitPrice, s.PriceWeightReference, s.PriceWeightExponent)
	penalty := short * s.StockoutPenaltyPerUnit * pw * m.serviceLevelFactor(v.ServiceLevel)
	b.StockoutPenalty = math.Min(penalty, s.StockoutPenaltyCap)
	b.BullwhipPenalty = s.BullwhipLambda * math.Abs(float64(qty-v.LastOrderQty))

	b.Utility = b.Revenue - b.OrderCost - b.HoldingCost - b.StockoutPenalty - b.BullwhipPenalty
	return b
}

// Evaluate returns the candidate for ordering qty units.
func (m CandidateModel) Evaluate(v ProductView, qty int) Candidate {
	b := m.Breakdown(v, qty)
	return Candidate{Qty: qty, Utility: b.Utility, Spend: b.OrderCost}
}

// Candidates evaluates the whole quantity menu in menu order.
func (m CandidateModel) Candidates(v ProductView) []Candidate {
	out := make([]Candidate, len(m.Settings.CandidateQtys))
	for i, q := range m.Settings.CandidateQtys {
		out[i] = m.Evaluate(v, q)
	}
	return out
}
