package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalCDF is the standard normal cumulative distribution function.
func NormalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// NormalPDF is the standard normal density.
func NormalPDF(z float64) float64 {
	return distuv.UnitNormal.Prob(z)
}

// ExpectedSalesStockout evaluates the newsvendor model: demand ~ N(mu, sigma)
// censored at available units. It returns expected units sold and expected
// units short. When sigma is negligible the deterministic limit is used.
func ExpectedSalesStockout(mu, sigma, available float64) (sales, stockout float64) {
	if sigma <= degenerateStd {
		sold := math.Min(mu, available)
		return math.Max(0, sold), math.Max(0, mu-sold)
	}

	z := (available - mu) / sigma
	cdf := NormalCDF(z)
	pdf := NormalPDF(z)

	// E[min(D, A)] = mu*Phi(z) + A*(1-Phi(z)) - sigma*phi(z)
	sales = mu*cdf + available*(1-cdf) - sigma*pdf
	sales = math.Max(0, math.Min(available, sales))
	return sales, math.Max(0, mu-sales)
}
