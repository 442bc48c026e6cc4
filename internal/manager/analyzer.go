package manager

import (
	"context"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/knowledge"
	"autoreplenish/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Analysis is the per-cycle result of the analyzer.
type Analysis struct {
	Day       int
	Estimates map[string]stats.Estimate
	Anomalies map[string]inventory.Anomaly
}

// Analyzer estimates demand and detects anomalies for every product.
type Analyzer struct {
	store    *knowledge.Store
	settings config.Settings
}

// NewAnalyzer binds an analyzer to store.
func NewAnalyzer(store *knowledge.Store, settings config.Settings) *Analyzer {
	return &Analyzer{store: store, settings: settings}
}

type productAnalysis struct {
	estimate stats.Estimate
	anomaly  *inventory.Anomaly
}

// Analyze runs the estimator and detector per product in parallel, then
// writes forecast, volatility, service level and anomaly for each product.
func (a *Analyzer) Analyze(ctx context.Context) (Analysis, error) {
	ids := a.store.ProductIDs()
	results := make([]productAnalysis, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if a.settings.Workers > 0 {
		g.SetLimit(a.settings.Workers)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			window := a.store.RecentHistory(id, a.settings.ForecastWindowDays)
			est := stats.EstimateDemand(window)
			results[i] = productAnalysis{
				estimate: est,
				anomaly:  stats.DetectLatest(window, est.Forecast, a.settings.AnomalyZThreshold),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	day := a.store.Day()
	out := Analysis{
		Day:       day,
		Estimates: make(map[string]stats.Estimate, len(ids)),
		Anomalies: make(map[string]inventory.Anomaly),
	}
	for i, id := range ids {
		r := results[i]
		a.store.StoreForecast(id, r.estimate.Forecast)
		a.store.StoreVolatility(id, r.estimate.Volatility)
		a.store.StoreServiceLevel(id, r.estimate.ServiceLevel)
		a.store.StoreAnomaly(id, r.anomaly)

		out.Estimates[id] = r.estimate
		if r.anomaly != nil {
			out.Anomalies[id] = *r.anomaly
			log.Warn().
				Int("day", day).
				Str("sku", id).
				Str("type", string(r.anomaly.Kind)).
				Float64("z", r.anomaly.Z).
				Float64("today", r.anomaly.Observed).
				Float64("mean", r.anomaly.Mean).
				Msg("Demand anomaly")
		}
	}
	return out, nil
}
