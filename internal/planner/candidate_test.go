package planner

import (
	"math"
	"testing"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
)

func testProduct() inventory.Product {
	return inventory.Product{
		ID:                    "P",
		UnitPrice:             100,
		UnitCost:              50,
		OrderFixedCost:        10,
		HoldingCostPerUnitDay: 1,
		LeadTimeMin:           2,
		LeadTimeMax:           2,
	}
}

func deterministicView() ProductView {
	return ProductView{
		Product:      testProduct(),
		Forecast:     inventory.Forecast{Mean: 10, Std: 0},
		HasForecast:  true,
		ServiceLevel: 1,
		Position:     5,
	}
}

func TestBreakdown_Deterministic(t *testing.T) {
	m := CandidateModel{Settings: config.DefaultSettings()}

	b := m.Breakdown(deterministicView(), 25)

	if b.LeadTime != 2 || b.DemandMean != 20 || b.DemandStd != 0 {
		t.Fatalf("lead time horizon = (%d, %v, %v), want (2, 20, 0)", b.LeadTime, b.DemandMean, b.DemandStd)
	}
	if b.ExpectedSales != 20 || b.ExpectedShort != 0 {
		t.Errorf("sales/stockout = %v/%v, want 20/0", b.ExpectedSales, b.ExpectedShort)
	}
	if b.Revenue != 2000 || b.OrderCost != 1260 || b.HoldingCost != 20 {
		t.Errorf("revenue/order/holding = %v/%v/%v, want 2000/1260/20", b.Revenue, b.OrderCost, b.HoldingCost)
	}
	if b.BullwhipPenalty != 25 {
		t.Errorf("BullwhipPenalty = %v, want 25", b.BullwhipPenalty)
	}
	if b.Utility != 695 {
		t.Errorf("Utility = %v, want 695", b.Utility)
	}
}

func TestEvaluate_ZeroQuantityStockout(t *testing.T) {
	s := config.DefaultSettings()
	m := CandidateModel{Settings: s}

	c := m.Evaluate(deterministicView(), 0)

	// A = 5, demand 20: 5 sold, 15 short, no order cost.
	pw := math.Pow(2, 1.2)
	want := 500 - 15*300*pw
	if c.Spend != 0 {
		t.Errorf("Spend = %v, want 0", c.Spend)
	}
	if math.Abs(c.Utility-want) > 1e-9 {
		t.Errorf("Utility = %v, want %v", c.Utility, want)
	}
}

func TestBreakdown_SpikeScalesDemand(t *testing.T) {
	m := CandidateModel{Settings: config.DefaultSettings()}
	v := deterministicView()
	v.Spike = true

	b := m.Breakdown(v, 25)
	if b.DemandMean != 30 {
		t.Errorf("DemandMean = %v, want 30", b.DemandMean)
	}
	if b.Utility != 3000-1260-0-25 {
		t.Errorf("Utility = %v, want %v", b.Utility, 3000-1260-0-25)
	}
}

func TestBreakdown_StockoutPenaltyCapped(t *testing.T) {
	m := CandidateModel{Settings: config.DefaultSettings()}
	v := deterministicView()
	v.Forecast.Mean = 1000
	v.Position = 0

	b := m.Breakdown(v, 0)
	if b.StockoutPenalty != 50000 {
		t.Errorf("StockoutPenalty = %v, want cap 50000", b.StockoutPenalty)
	}
}

func TestBreakdown_ServiceDeficitRaisesPenalty(t *testing.T) {
	m := CandidateModel{Settings: config.DefaultSettings()}
	v := deterministicView()

	healthy := m.Breakdown(v, 0).StockoutPenalty
	v.ServiceLevel = 0.85
	short := m.Breakdown(v, 0).StockoutPenalty

	// factor = 1 + 0.10*5
	if math.Abs(short/healthy-1.5) > 1e-9 {
		t.Errorf("penalty ratio = %v, want 1.5", short/healthy)
	}
}

func TestCandidates_FollowMenu(t *testing.T) {
	s := config.DefaultSettings()
	m := CandidateModel{Settings: s}
	v := deterministicView()
	v.Forecast.Std = 3

	cands := m.Candidates(v)
	if len(cands) != len(s.CandidateQtys) {
		t.Fatalf("len(Candidates()) = %d, want %d", len(cands), len(s.CandidateQtys))
	}
	for i, c := range cands {
		if c.Qty != s.CandidateQtys[i] {
			t.Errorf("Candidates()[%d].Qty = %d, want %d", i, c.Qty, s.CandidateQtys[i])
		}
		if c.Spend != v.Product.OrderSpend(c.Qty) {
			t.Errorf("Candidates()[%d].Spend = %v, want %v", i, c.Spend, v.Product.OrderSpend(c.Qty))
		}
	}
}

func TestPriceWeight(t *testing.T) {
	if got := PriceWeight(35, 50, 1.2); got != 1 {
		t.Errorf("PriceWeight(35) = %v, want 1", got)
	}
	if got := PriceWeight(1000, 50, 1.2); math.Abs(got-math.Pow(20, 1.2)) > 1e-9 {
		t.Errorf("PriceWeight(1000) = %v, want 20^1.2", got)
	}
}
