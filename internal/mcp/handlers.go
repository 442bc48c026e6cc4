package mcp

import (
	"context"
	"fmt"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/manager"
	"autoreplenish/internal/planner"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ListProductsOutput is the list_products result.
type ListProductsOutput struct {
	Products []inventory.Product `json:"products"`
}

// ListScenariosOutput is the list_scenarios result.
type ListScenariosOutput struct {
	Scenarios []config.Scenario `json:"scenarios"`
}

// RunScenarioInput are the run_scenario arguments.
type RunScenarioInput struct {
	Scenario    string  `json:"scenario" jsonschema:"name of a built-in scenario"`
	Days        int     `json:"days,omitempty" jsonschema:"number of simulated days, default 90"`
	Seed        *int64  `json:"seed,omitempty" jsonschema:"demand and lead-time seed, defaults to the scenario seed"`
	DailyBudget float64 `json:"daily_budget,omitempty" jsonschema:"daily spend limit overriding the scenario budget"`
}

// RunScenarioOutput is the run_scenario result.
type RunScenarioOutput struct {
	Scenario            string                   `json:"scenario"`
	Days                int                      `json:"days"`
	Seed                int64                    `json:"seed"`
	DailyBudget         float64                  `json:"daily_budget"`
	FillRate            float64                  `json:"fill_rate"`
	MedianDailyFillRate float64                  `json:"median_daily_fill_rate"`
	LostSales           int                      `json:"lost_sales"`
	Revenue             float64                  `json:"revenue"`
	Cost                float64                  `json:"cost"`
	Margin              float64                  `json:"margin"`
	MarginPct           float64                  `json:"margin_pct"`
	TotalSpend          float64                  `json:"total_spend"`
	Products            []manager.ProductSummary `json:"products"`
	FinalPlan           planner.Plan             `json:"final_plan"`
}

const defaultRunDays = 90

func (s *Server) handleListProducts(_ context.Context, _ *sdk.CallToolRequest, _ struct{}) (*sdk.CallToolResult, ListProductsOutput, error) {
	return nil, ListProductsOutput{Products: s.catalog.Products}, nil
}

func (s *Server) handleListScenarios(_ context.Context, _ *sdk.CallToolRequest, _ struct{}) (*sdk.CallToolResult, ListScenariosOutput, error) {
	return nil, ListScenariosOutput{Scenarios: config.DefaultScenarios()}, nil
}

func (s *Server) handleRunScenario(ctx context.Context, _ *sdk.CallToolRequest, in RunScenarioInput) (*sdk.CallToolResult, RunScenarioOutput, error) {
	scenario, err := config.FindScenario(in.Scenario)
	if err != nil {
		return nil, RunScenarioOutput{}, err
	}

	days := in.Days
	if days == 0 {
		days = defaultRunDays
	}
	if days < 0 || days > s.MaxDays {
		return nil, RunScenarioOutput{}, fmt.Errorf("days must be between 1 and %d, got %d", s.MaxDays, days)
	}
	if in.Seed != nil {
		scenario.Seed = *in.Seed
	}
	if in.DailyBudget < 0 {
		return nil, RunScenarioOutput{}, fmt.Errorf("daily_budget must be >= 0, got %v", in.DailyBudget)
	}
	if in.DailyBudget > 0 {
		scenario.DailyBudget = in.DailyBudget
	}

	log.Info().Str("scenario", scenario.Name).Int("days", days).Int64("seed", scenario.Seed).Msg("run_scenario called")

	res, err := manager.RunScenario(ctx, manager.RunConfig{
		Scenario: scenario,
		Catalog:  s.catalog,
		Settings: s.settings,
		Days:     days,
	})
	if err != nil {
		return nil, RunScenarioOutput{}, fmt.Errorf("run %s: %w", scenario.Name, err)
	}

	return nil, RunScenarioOutput{
		Scenario:            res.Scenario,
		Days:                res.Days,
		Seed:                scenario.Seed,
		DailyBudget:         res.DailyBudget,
		FillRate:            res.FillRate,
		MedianDailyFillRate: res.MedianDailyFillRate,
		LostSales:           res.LostSales,
		Revenue:             res.Revenue,
		Cost:                res.Cost,
		Margin:              res.Margin,
		MarginPct:           res.MarginPct,
		TotalSpend:          res.TotalSpend,
		Products:            res.Products,
		FinalPlan:           res.FinalPlan,
	}, nil
}
