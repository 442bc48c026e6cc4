package policy

import (
	"math"

	"autoreplenish/internal/config"
	"autoreplenish/internal/stats"
)

// SafetyFactor maps demand volatility linearly to a safety factor z, clamped
// to [ZMin, ZMax].
func SafetyFactor(volatility float64, s config.Settings) float64 {
	return stats.Clamp(s.ZBase+s.VolToZScale*volatility, s.ZMin, s.ZMax)
}

// SafetyStock is the buffer z·σ over a lead time of leadTime days.
func SafetyStock(z, dailyStd float64, leadTime int) float64 {
	return z * dailyStd * math.Sqrt(float64(max(1, leadTime)))
}
