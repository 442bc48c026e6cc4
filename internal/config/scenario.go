package config

import "fmt"

// Scenario parameterises one simulated run of the warehouse.
type Scenario struct {
	Name               string  `yaml:"name" json:"name"`
	DemandMultiplier   float64 `yaml:"demand_multiplier" json:"demand_multiplier"`
	LeadTimeMultiplier float64 `yaml:"lead_time_multiplier" json:"lead_time_multiplier"`
	Seed               int64   `yaml:"seed" json:"seed"`
	DailyBudget        float64 `yaml:"daily_budget" json:"daily_budget"`
}

// DefaultScenarios returns the evaluation scenarios in run order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "baseline", DemandMultiplier: 1.0, LeadTimeMultiplier: 1.0, Seed: 42, DailyBudget: 30000},
		{Name: "high_demand", DemandMultiplier: 1.2, LeadTimeMultiplier: 1.0, Seed: 42, DailyBudget: 42000},
		{Name: "supply_issues", DemandMultiplier: 1.0, LeadTimeMultiplier: 1.3, Seed: 42, DailyBudget: 35000},
	}
}

// FindScenario returns the default scenario with the given name.
func FindScenario(name string) (Scenario, error) {
	for _, s := range DefaultScenarios() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q", name)
}
