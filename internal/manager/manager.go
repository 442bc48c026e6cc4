package manager

import (
	"context"
	"fmt"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/planner"
	"autoreplenish/internal/simulation"
)

// Manager wires the monitor, analyzer, planner and executor around one
// environment and one knowledge store.
type Manager struct {
	scenario    config.Scenario
	dailyBudget float64

	env   *simulation.Environment
	store *knowledge.Store

	monitor  *Monitor
	analyzer *Analyzer
	planner  *planner.Planner
	executor *Executor
}

// StepResult is everything that happened in one cycle.
type StepResult struct {
	Analysis    Analysis
	Plan        planner.Plan
	Execution   Execution
	Outcome     inventory.Outcome
	Observation Observation
}

// New builds a manager for the scenario. A scenario without its own daily
// budget uses the settings' limit.
func New(catalog inventory.Catalog, settings config.Settings, scenario config.Scenario) *Manager {
	budget := scenario.DailyBudget
	if budget <= 0 {
		budget = settings.DailyBudgetLimit
	}

	env := simulation.NewEnvironment(catalog, scenario)
	store := knowledge.NewStore(catalog, budget, settings.ZBase)

	return &Manager{
		scenario:    scenario,
		dailyBudget: budget,
		env:         env,
		store:       store,
		monitor:     NewMonitor(env, store),
		analyzer:    NewAnalyzer(store, settings),
		planner:     planner.New(store, catalog, settings),
		executor:    NewExecutor(env, store, catalog),
	}
}

// Store exposes the knowledge store.
func (m *Manager) Store() *knowledge.Store { return m.store }

// Environment exposes the simulated warehouse.
func (m *Manager) Environment() *simulation.Environment { return m.env }

// DailyBudget is the budget restored at the start of every cycle.
func (m *Manager) DailyBudget() float64 { return m.dailyBudget }

// Start performs the initial observation at day 0.
func (m *Manager) Start() Observation {
	return m.monitor.Observe()
}

// Step runs one cycle: restore the daily budget, analyze, plan, execute,
// advance the environment one day and observe the result.
func (m *Manager) Step(ctx context.Context) (StepResult, error) {
	var res StepResult
	var err error

	m.store.SetBudget(m.dailyBudget)

	if res.Analysis, err = m.analyzer.Analyze(ctx); err != nil {
		return res, fmt.Errorf("analyze: %w", err)
	}
	if res.Plan, err = m.planner.Plan(ctx); err != nil {
		return res, fmt.Errorf("plan: %w", err)
	}
	if res.Execution, err = m.executor.Execute(res.Plan); err != nil {
		return res, fmt.Errorf("execute: %w", err)
	}

	res.Outcome = m.env.Tick()
	res.Observation = m.monitor.Observe()
	return res, nil
}
