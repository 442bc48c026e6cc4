package manager

import (
	"context"
	"fmt"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/planner"
	"autoreplenish/internal/stats"

	"github.com/rs/zerolog/log"
)

// DayMetrics are the daily KPIs of a run.
type DayMetrics struct {
	Day          int     `json:"day"`
	FillRate     float64 `json:"fill_rate"`
	LostSales    int     `json:"lost_sales"`
	StockTotal   int     `json:"stock_total"`
	BudgetSpent  float64 `json:"budget_spent"`
	PlannedSpend float64 `json:"planned_spend"`
	Utility      float64 `json:"utility"`
	Revenue      float64 `json:"revenue"`
	Orders       int     `json:"orders"`
	Anomalies    int     `json:"anomalies"`
}

// ProductMetrics are one product's numbers for one day.
type ProductMetrics struct {
	Day       int    `json:"day"`
	ProductID string `json:"sku"`
	Stock     int    `json:"stock"`
	Demand    int    `json:"demand"`
	Sales     int    `json:"sales"`
	LostSales int    `json:"lost_sales"`
}

// ProductSummary totals one product over a run.
type ProductSummary struct {
	ProductID string  `json:"sku"`
	Name      string  `json:"name"`
	Demand    int     `json:"demand"`
	Sales     int     `json:"sales"`
	LostSales int     `json:"lost_sales"`
	FillRate  float64 `json:"fill_rate"`
}

// ScenarioResult is the outcome of a full run.
type ScenarioResult struct {
	Scenario            string           `json:"scenario"`
	Days                int              `json:"days"`
	DailyBudget         float64          `json:"daily_budget"`
	FillRate            float64          `json:"fill_rate"`
	MedianDailyFillRate float64          `json:"median_daily_fill_rate"`
	Revenue             float64          `json:"revenue"`
	Cost                float64          `json:"cost"`
	Margin              float64          `json:"margin"`
	MarginPct           float64          `json:"margin_pct"`
	LostSales           int              `json:"lost_sales"`
	TotalDemand         int              `json:"total_demand"`
	TotalSales          int              `json:"total_sales"`
	TotalSpend          float64          `json:"total_spend"`
	Products            []ProductSummary `json:"products"`
	Daily               []DayMetrics     `json:"daily"`
	FinalPlan           planner.Plan     `json:"final_plan"`
}

// MetricsSink receives metrics as the run progresses.
type MetricsSink interface {
	ObserveDay(scenario string, m DayMetrics)
	ObserveProduct(scenario string, m ProductMetrics)
}

// RunConfig describes one scenario run.
type RunConfig struct {
	Scenario config.Scenario
	Catalog  inventory.Catalog
	Settings config.Settings
	Days     int

	// HistoryDir, when set, receives the demand history at the end of the
	// run. With WarmStart the history is also loaded from there first.
	HistoryDir string
	WarmStart  bool

	Sinks []MetricsSink
}

func fillRate(sales, demand int) float64 {
	if demand <= 0 {
		return 1
	}
	return float64(sales) / float64(demand)
}

// RunScenario runs cfg.Days cycles and aggregates the KPIs.
func RunScenario(ctx context.Context, cfg RunConfig) (ScenarioResult, error) {
	if cfg.Days <= 0 {
		return ScenarioResult{}, fmt.Errorf("days must be > 0, got %d", cfg.Days)
	}

	m := New(cfg.Catalog, cfg.Settings, cfg.Scenario)
	name := cfg.Scenario.Name

	if cfg.WarmStart && cfg.HistoryDir != "" {
		if _, err := m.Store().LoadHistory(cfg.HistoryDir, name); err != nil {
			return ScenarioResult{}, fmt.Errorf("warm start: %w", err)
		}
	}

	log.Info().
		Str("scenario", name).
		Float64("demand_multiplier", cfg.Scenario.DemandMultiplier).
		Float64("lead_time_multiplier", cfg.Scenario.LeadTimeMultiplier).
		Float64("daily_budget", m.DailyBudget()).
		Int("days", cfg.Days).
		Msg("Scenario started")

	m.Start()

	ids := cfg.Catalog.IDs()
	totals := make(map[string]*ProductSummary, len(ids))
	for _, p := range cfg.Catalog.Products {
		totals[p.ID] = &ProductSummary{ProductID: p.ID, Name: p.Name}
	}

	res := ScenarioResult{
		Scenario:    name,
		Days:        cfg.Days,
		DailyBudget: m.DailyBudget(),
		Daily:       make([]DayMetrics, 0, cfg.Days),
	}
	dailyFill := make([]float64, 0, cfg.Days)

	for i := 0; i < cfg.Days; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		step, err := m.Step(ctx)
		if err != nil {
			return res, fmt.Errorf("scenario %s day %d: %w", name, i+1, err)
		}
		out := step.Outcome
		day := step.Observation.Day

		dm := DayMetrics{
			Day:          day,
			BudgetSpent:  step.Execution.Spend,
			PlannedSpend: step.Plan.Meta.Spend,
			Utility:      step.Plan.Meta.Utility,
			Orders:       len(step.Execution.Placed),
			Anomalies:    len(step.Analysis.Anomalies),
		}
		demand, sales := 0, 0
		for _, p := range cfg.Catalog.Products {
			t := totals[p.ID]
			t.Demand += out.Demand[p.ID]
			t.Sales += out.Sales[p.ID]
			t.LostSales += out.LostSales[p.ID]

			demand += out.Demand[p.ID]
			sales += out.Sales[p.ID]
			dm.LostSales += out.LostSales[p.ID]
			dm.StockTotal += step.Observation.Stock[p.ID]
			dm.Revenue += float64(out.Sales[p.ID]) * p.UnitPrice
			res.Cost += float64(out.Sales[p.ID]) * p.UnitCost

			pm := ProductMetrics{
				Day:       day,
				ProductID: p.ID,
				Stock:     step.Observation.Stock[p.ID],
				Demand:    out.Demand[p.ID],
				Sales:     out.Sales[p.ID],
				LostSales: out.LostSales[p.ID],
			}
			for _, s := range cfg.Sinks {
				s.ObserveProduct(name, pm)
			}
		}
		dm.FillRate = fillRate(sales, demand)

		res.Revenue += dm.Revenue
		res.TotalSpend += dm.BudgetSpent
		res.Daily = append(res.Daily, dm)
		res.FinalPlan = step.Plan
		dailyFill = append(dailyFill, dm.FillRate)

		for _, s := range cfg.Sinks {
			s.ObserveDay(name, dm)
		}

		log.Debug().
			Str("scenario", name).
			Int("day", day).
			Float64("fill_rate", dm.FillRate).
			Int("lost", dm.LostSales).
			Float64("spend", dm.BudgetSpent).
			Float64("remaining", m.Store().Budget()).
			Msg("Day complete")
	}

	for _, id := range ids {
		t := totals[id]
		t.FillRate = fillRate(t.Sales, t.Demand)
		res.Products = append(res.Products, *t)
		res.TotalDemand += t.Demand
		res.TotalSales += t.Sales
		res.LostSales += t.LostSales
	}
	res.FillRate = fillRate(res.TotalSales, res.TotalDemand)
	res.MedianDailyFillRate = stats.Median(dailyFill)
	res.Margin = res.Revenue - res.Cost
	if res.Revenue > 0 {
		res.MarginPct = res.Margin / res.Revenue * 100
	}

	if cfg.HistoryDir != "" {
		if err := m.Store().SaveHistory(cfg.HistoryDir, name); err != nil {
			return res, fmt.Errorf("save history: %w", err)
		}
	}

	log.Info().
		Str("scenario", name).
		Float64("fill_rate", res.FillRate).
		Int("lost_sales", res.LostSales).
		Float64("revenue", res.Revenue).
		Float64("margin", res.Margin).
		Msg("Scenario complete")

	return res, nil
}
