package stats

import (
	"math"

	"autoreplenish/internal/inventory"

	"gonum.org/v1/gonum/stat"
)

// degenerateStd is the spread below which a sample is treated as having no variance.
const degenerateStd = 1e-6

// Estimate is the estimator's output for one product and one cycle.
type Estimate struct {
	Forecast     inventory.Forecast `json:"forecast"`
	Volatility   float64            `json:"volatility"`
	ServiceLevel float64            `json:"service_level"`
}

// EffectiveDemand maps each record to sales plus lost sales.
func EffectiveDemand(records []inventory.DemandRecord) []float64 {
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.EffectiveDemand()
	}
	return xs
}

// MeanStd returns the sample mean and population standard deviation of xs,
// with the std floored so downstream divisions never see zero:
//   - empty: (0, 1)
//   - one sample v: (v, max(1, |v|/4))
//   - zero spread: (mean, max(1, |mean|/4))
func MeanStd(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 1
	case 1:
		return xs[0], stdFloor(xs[0])
	}

	mean, std = stat.PopMeanStdDev(xs, nil)
	if std <= degenerateStd {
		std = stdFloor(mean)
	}
	return mean, std
}

func stdFloor(v float64) float64 {
	return math.Max(1, math.Abs(v)*0.25)
}

// Volatility is the population standard deviation of xs. With fewer than two
// samples there is no spread to measure, so fallback is returned.
func Volatility(xs []float64, fallback float64) float64 {
	if len(xs) < 2 {
		return fallback
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// ServiceLevel is the fill rate over the records: total sales over total demand.
// Without any demand there is no evidence of shortfall and 1 is returned.
func ServiceLevel(records []inventory.DemandRecord) float64 {
	demand, sales := 0, 0
	for _, r := range records {
		demand += r.Demand
		sales += r.Sales
	}
	if demand <= 0 {
		return 1
	}
	return float64(sales) / float64(demand)
}

// EstimateDemand computes forecast, volatility and service level from a
// window of history. It is a pure function of its input.
func EstimateDemand(window []inventory.DemandRecord) Estimate {
	xs := EffectiveDemand(window)
	mean, std := MeanStd(xs)

	return Estimate{
		Forecast: inventory.Forecast{
			Mean:  mean,
			Std:   std,
			Model: inventory.ForecastModelMovingAverage,
		},
		Volatility:   Volatility(xs, std),
		ServiceLevel: ServiceLevel(window),
	}
}
