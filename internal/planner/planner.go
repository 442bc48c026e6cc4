package planner

import (
	"context"
	"errors"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/policy"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Planner turns the knowledge store into an order plan once per cycle.
type Planner struct {
	store    *knowledge.Store
	catalog  inventory.Catalog
	settings config.Settings
	model    CandidateModel
}

// New creates a planner over store for the products in catalog.
func New(store *knowledge.Store, catalog inventory.Catalog, settings config.Settings) *Planner {
	return &Planner{
		store:    store,
		catalog:  catalog,
		settings: settings,
		model:    CandidateModel{Settings: settings},
	}
}

// Plan runs the policies, generates and shapes candidates per product in
// parallel, and selects one candidate per product under the remaining budget.
// A failed solve degrades to ordering nothing; only cancellation is returned
// as an error.
func (p *Planner) Plan(ctx context.Context) (Plan, error) {
	snap := p.store.Snapshot()
	ids := p.catalog.IDs()

	updates := policy.Evaluate(snap, ids, p.settings)
	for id, z := range updates.SafetyFactors {
		p.store.SetSafetyFactor(id, z)
	}

	plan := Plan{
		Day:        snap.Day,
		Orders:     make(map[string]OrderLine, len(ids)),
		StopOrders: []StopOrder{},
	}
	for _, f := range updates.Freezes {
		until := p.store.BlockOrders(f.ProductID, f.Days)
		plan.StopOrders = append(plan.StopOrders, StopOrder{ProductID: f.ProductID, Days: f.Days})
		log.Info().
			Int("day", snap.Day).
			Str("sku", f.ProductID).
			Float64("days_of_cover", f.DaysOfCover).
			Int("until", until).
			Msg("Overstock detected, blocking orders")
	}

	groups := make([]Group, len(p.catalog.Products))
	blocked := []string{}

	g, gctx := errgroup.WithContext(ctx)
	if p.settings.Workers > 0 {
		g.SetLimit(p.settings.Workers)
	}
	for i, prod := range p.catalog.Products {
		groups[i].ProductID = prod.ID
		if snap.IsBlocked(prod.ID) || updates.Frozen(prod.ID) {
			blocked = append(blocked, prod.ID)
			groups[i].Candidates = []Candidate{{}}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view := ViewOf(prod, snap)
			cands := p.model.Candidates(view)
			groups[i].Candidates = Prune(Shape(cands, view, p.settings))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	sel, err := Solve(groups, snap.Budget)
	if err != nil {
		if !errors.Is(err, ErrInfeasible) {
			return Plan{}, err
		}
		log.Warn().Err(err).Int("day", snap.Day).Float64("budget", snap.Budget).Msg("Selection failed, falling back to zero orders")
		sel = zeroSelection(groups)
		plan.Meta.Fallback = true
	}

	for i, prod := range p.catalog.Products {
		c := sel.Choices[i]
		z := updates.SafetyFactors[prod.ID]
		f, _ := snap.ForecastFor(prod.ID)
		plan.Orders[prod.ID] = OrderLine{
			Qty:             c.Qty,
			ExpectedUtility: c.Utility,
			Spend:           c.Spend,
			SafetyFactor:    z,
			SafetyStock:     policy.SafetyStock(z, f.Std, prod.NominalLeadTime()),
		}
	}

	plan.Meta.BudgetLimit = snap.Budget
	plan.Meta.Spend = roundCents(sel.Spend)
	plan.Meta.Utility = roundCents(sel.Utility)
	plan.Meta.BlockedProducts = blocked

	log.Info().
		Int("day", snap.Day).
		Float64("utility", plan.Meta.Utility).
		Float64("spend", plan.Meta.Spend).
		Float64("budget", plan.Meta.BudgetLimit).
		Int("orders", plan.OrderCount()).
		Int("products", len(ids)).
		Msg("Plan completed")

	return plan, nil
}

// zeroSelection picks each group's zero-quantity candidate, or an empty
// candidate when the menu has none.
func zeroSelection(groups []Group) Selection {
	sel := Selection{Choices: make([]Candidate, len(groups))}
	for i, g := range groups {
		for _, c := range g.Candidates {
			if c.Qty == 0 {
				sel.Choices[i] = c
				break
			}
		}
		sel.Spend += sel.Choices[i].Spend
		sel.Utility += sel.Choices[i].Utility
	}
	return sel
}
