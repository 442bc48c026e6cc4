package stats

import "autoreplenish/internal/inventory"

// ZScore measures how far observed lies from the forecast mean in units of its std.
// A degenerate std is replaced by 1.
func ZScore(observed float64, f inventory.Forecast) float64 {
	std := f.Std
	if std <= degenerateStd {
		std = 1
	}
	return (observed - f.Mean) / std
}

// DetectAnomaly flags today's effective demand against the forecast.
// It returns nil unless |z| strictly exceeds threshold.
func DetectAnomaly(today float64, f inventory.Forecast, threshold float64) *inventory.Anomaly {
	z := ZScore(today, f)

	var kind inventory.AnomalyKind
	switch {
	case z > threshold:
		kind = inventory.Spike
	case z < -threshold:
		kind = inventory.Drop
	default:
		return nil
	}

	return &inventory.Anomaly{
		Kind:     kind,
		Z:        z,
		Observed: today,
		Mean:     f.Mean,
	}
}

// DetectLatest runs DetectAnomaly on the most recent record of window.
// An empty window never produces an anomaly.
func DetectLatest(window []inventory.DemandRecord, f inventory.Forecast, threshold float64) *inventory.Anomaly {
	if len(window) == 0 {
		return nil
	}
	return DetectAnomaly(window[len(window)-1].EffectiveDemand(), f, threshold)
}
