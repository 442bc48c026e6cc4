package planner

import (
	"math"
	"slices"

	"autoreplenish/internal/config"
)

// Shape biases candidate utilities toward the service-level target:
//   - below target, ordering nothing is penalised and every positive quantity
//     is boosted, both in proportion to the deficit
//   - within the hysteresis band above target, positive quantities get a
//     smaller flat per-unit bonus
//   - otherwise candidates are returned unchanged
//
// The input slice is not modified.
func Shape(cands []Candidate, v ProductView, s config.Settings) []Candidate {
	out := slices.Clone(cands)

	meanDemand := s.DefaultMeanDemand
	if v.HasForecast {
		meanDemand = v.Forecast.Mean
	}
	meanDemand = math.Max(1, meanDemand)
	priority := PriceWeight(v.Product.UnitPrice, s.PriceWeightReference, s.PriorityExponent)

	switch sl := v.ServiceLevel; {
	case sl < s.ServiceLevelTarget:
		deficit := s.ServiceLevelTarget - sl
		for i := range out {
			if out[i].Qty == 0 {
				out[i].Utility -= deficit * meanDemand * s.ShaperZeroPenalty * priority
			} else {
				out[i].Utility += deficit * float64(out[i].Qty) * s.ShaperOrderBonus * priority
			}
		}
	case sl < s.ServiceLevelTarget+s.ShaperHysteresisBand:
		for i := range out {
			if out[i].Qty > 0 {
				out[i].Utility += float64(out[i].Qty) * s.ShaperHysteresisBonus * priority
			}
		}
	}
	return out
}
