package policy

import (
	"autoreplenish/internal/config"
	"autoreplenish/internal/knowledge"
)

// minCoverableDemand is the mean daily demand at or below which days-of-cover
// is not measured.
const minCoverableDemand = 1.0

// DaysOfCover is stock position over mean daily demand. ok is false when the
// mean is too small for the ratio to be meaningful.
func DaysOfCover(position int, meanDemand float64) (days float64, ok bool) {
	if meanDemand <= minCoverableDemand {
		return 0, false
	}
	return float64(position) / meanDemand, true
}

// IsOverstocked reports whether days-of-cover strictly exceeds threshold.
func IsOverstocked(position int, meanDemand, threshold float64) bool {
	days, ok := DaysOfCover(position, meanDemand)
	return ok && days > threshold
}

// Freeze is a decision to stop ordering a product.
type Freeze struct {
	ProductID   string  `json:"product_id"`
	Days        int     `json:"days"`
	DaysOfCover float64 `json:"days_of_cover"`
}

// Updates are the per-cycle outputs of the policies, to be written back to
// the knowledge store by the caller.
type Updates struct {
	SafetyFactors map[string]float64
	Freezes       []Freeze
}

// Frozen reports whether the updates freeze id.
func (u Updates) Frozen(id string) bool {
	for _, f := range u.Freezes {
		if f.ProductID == id {
			return true
		}
	}
	return false
}

// Evaluate runs the safety-stock and overstock policies for ids in order. It
// reads snap only. Products already blocked are not re-frozen.
func Evaluate(snap knowledge.Snapshot, ids []string, s config.Settings) Updates {
	u := Updates{SafetyFactors: make(map[string]float64, len(ids))}

	for _, id := range ids {
		u.SafetyFactors[id] = SafetyFactor(snap.VolatilityFor(id), s)

		if snap.IsBlocked(id) {
			continue
		}
		f, _ := snap.ForecastFor(id)
		position := snap.Position[id]
		if IsOverstocked(position, f.Mean, s.OverstockDaysOfCover) {
			days, _ := DaysOfCover(position, f.Mean)
			u.Freezes = append(u.Freezes, Freeze{
				ProductID:   id,
				Days:        s.StopOrdersDays,
				DaysOfCover: days,
			})
		}
	}
	return u
}
