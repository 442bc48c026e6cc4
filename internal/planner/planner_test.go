package planner

import (
	"context"
	"testing"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
)

func plannerCatalog() inventory.Catalog {
	return inventory.Catalog{Products: []inventory.Product{
		{
			ID: "A", UnitPrice: 100, UnitCost: 50, OrderFixedCost: 10,
			HoldingCostPerUnitDay: 0.1, LeadTimeMin: 2, LeadTimeMax: 2,
			InitialStock: 500,
		},
		{
			ID: "B", UnitPrice: 200, UnitCost: 120, OrderFixedCost: 20,
			HoldingCostPerUnitDay: 0.2, LeadTimeMin: 1, LeadTimeMax: 3,
			InitialStock: 0,
		},
	}}
}

func newPlannerStore(budget float64) *knowledge.Store {
	s := knowledge.NewStore(plannerCatalog(), budget, 2.5)
	s.StoreForecast("A", inventory.Forecast{Mean: 10, Std: 2, Model: inventory.ForecastModelMovingAverage})
	s.StoreForecast("B", inventory.Forecast{Mean: 30, Std: 6, Model: inventory.ForecastModelMovingAverage})
	s.StoreVolatility("A", 2)
	s.StoreVolatility("B", 6)
	return s
}

func TestPlanner_OverstockFreezeLifecycle(t *testing.T) {
	store := newPlannerStore(30000)
	p := New(store, plannerCatalog(), config.DefaultSettings())

	store.UpdateDay(1)
	plan, err := p.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	// A: 500 units over 10/day = 50 days of cover.
	if len(plan.StopOrders) != 1 || plan.StopOrders[0] != (StopOrder{ProductID: "A", Days: 2}) {
		t.Errorf("StopOrders = %+v, want [{A 2}]", plan.StopOrders)
	}
	if plan.Orders["A"].Qty != 0 {
		t.Errorf("Orders[A].Qty = %d, want 0 while frozen", plan.Orders["A"].Qty)
	}
	if len(plan.Meta.BlockedProducts) != 1 || plan.Meta.BlockedProducts[0] != "A" {
		t.Errorf("BlockedProducts = %v, want [A]", plan.Meta.BlockedProducts)
	}
	if plan.Orders["B"].Qty == 0 {
		t.Errorf("Orders[B].Qty = 0, want an order for an empty product")
	}

	for _, day := range []int{2, 3} {
		store.UpdateDay(day)
		plan, err = p.Plan(context.Background())
		if err != nil {
			t.Fatalf("Plan() day %d error = %v", day, err)
		}
		if len(plan.StopOrders) != 0 {
			t.Errorf("day %d: StopOrders = %+v, want none while the block holds", day, plan.StopOrders)
		}
		if plan.Orders["A"].Qty != 0 {
			t.Errorf("day %d: Orders[A].Qty = %d, want 0", day, plan.Orders["A"].Qty)
		}
		if len(plan.Meta.BlockedProducts) != 1 {
			t.Errorf("day %d: BlockedProducts = %v, want [A]", day, plan.Meta.BlockedProducts)
		}
	}

	// Block expires after day 3; stock is still excessive so A is frozen again.
	store.UpdateDay(4)
	plan, err = p.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.StopOrders) != 1 {
		t.Errorf("day 4: StopOrders = %+v, want a new freeze", plan.StopOrders)
	}
}

func TestPlanner_RespectsBudget(t *testing.T) {
	for _, budget := range []float64{0, 500, 2000, 10000, 30000} {
		store := newPlannerStore(budget)
		store.UpdateDay(1)
		p := New(store, plannerCatalog(), config.DefaultSettings())

		plan, err := p.Plan(context.Background())
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}

		if len(plan.Orders) != 2 {
			t.Errorf("budget %v: %d order lines, want one per product", budget, len(plan.Orders))
		}
		total := 0.0
		for _, o := range plan.Orders {
			total += o.Spend
		}
		if total > budget {
			t.Errorf("budget %v: total spend %v exceeds budget", budget, total)
		}
		if plan.Meta.BudgetLimit != budget {
			t.Errorf("Meta.BudgetLimit = %v, want %v", plan.Meta.BudgetLimit, budget)
		}
		if plan.Meta.Fallback {
			t.Errorf("budget %v: unexpected fallback", budget)
		}
	}
}

func TestPlanner_WritesSafetyFactors(t *testing.T) {
	store := newPlannerStore(30000)
	p := New(store, plannerCatalog(), config.DefaultSettings())

	plan, err := p.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	snap := store.Snapshot()
	// B: 2.5 + 0.12*6 = 3.22
	if z := snap.SafetyFactors["B"]; z < 3.2199 || z > 3.2201 {
		t.Errorf("SafetyFactors[B] = %v, want 3.22", z)
	}
	if plan.Orders["B"].SafetyFactor != snap.SafetyFactors["B"] {
		t.Errorf("plan safety factor %v differs from store %v", plan.Orders["B"].SafetyFactor, snap.SafetyFactors["B"])
	}
	if plan.Orders["B"].SafetyStock <= 0 {
		t.Errorf("SafetyStock = %v, want > 0", plan.Orders["B"].SafetyStock)
	}
}

func TestPlanner_NegativeBudgetFallsBack(t *testing.T) {
	store := newPlannerStore(-10)
	p := New(store, plannerCatalog(), config.DefaultSettings())

	plan, err := p.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !plan.Meta.Fallback {
		t.Error("Meta.Fallback = false, want true")
	}
	if plan.OrderCount() != 0 {
		t.Errorf("OrderCount() = %d, want 0", plan.OrderCount())
	}
	if len(plan.Orders) != 2 {
		t.Errorf("fallback plan has %d lines, want one per product", len(plan.Orders))
	}
}

func TestPlanner_Cancelled(t *testing.T) {
	store := newPlannerStore(30000)
	p := New(store, plannerCatalog(), config.DefaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Plan(ctx); err == nil {
		t.Error("Plan() with cancelled context returned nil error")
	}
}
