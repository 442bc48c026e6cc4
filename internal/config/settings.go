package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// Settings holds every tunable of the decision engine. Field tags are shared by
// the YAML loader and the JSON schema used to check settings files.
type Settings struct {
	// Estimator and detector
	ForecastWindowDays int     `yaml:"forecast_window_days" json:"forecast_window_days,omitempty"`
	AnomalyZThreshold  float64 `yaml:"anomaly_z_threshold" json:"anomaly_z_threshold,omitempty"`

	// Safety-stock policy: z = clamp(ZBase + VolToZScale*volatility, ZMin, ZMax)
	ZBase       float64 `yaml:"z_base" json:"z_base,omitempty"`
	ZMin        float64 `yaml:"z_min" json:"z_min,omitempty"`
	ZMax        float64 `yaml:"z_max" json:"z_max,omitempty"`
	VolToZScale float64 `yaml:"vol_to_z_scale" json:"vol_to_z_scale,omitempty"`

	// Overstock policy
	OverstockDaysOfCover float64 `yaml:"overstock_days_of_cover" json:"overstock_days_of_cover,omitempty"`
	StopOrdersDays       int     `yaml:"stop_orders_days" json:"stop_orders_days,omitempty"`

	// Candidate utility model
	StockoutPenaltyPerUnit float64 `yaml:"stockout_penalty_per_unit" json:"stockout_penalty_per_unit,omitempty"`
	StockoutPenaltyCap     float64 `yaml:"stockout_penalty_cap" json:"stockout_penalty_cap,omitempty"`
	PriceWeightReference   float64 `yaml:"price_weight_reference" json:"price_weight_reference,omitempty"`
	PriceWeightExponent    float64 `yaml:"price_weight_exponent" json:"price_weight_exponent,omitempty"`
	ServiceDeficitScale    float64 `yaml:"service_deficit_scale" json:"service_deficit_scale,omitempty"`
	SpikeDemandMultiplier  float64 `yaml:"spike_demand_multiplier" json:"spike_demand_multiplier,omitempty"`
	BullwhipLambda         float64 `yaml:"bullwhip_lambda" json:"bullwhip_lambda,omitempty"`

	// Service-level priority shaper
	ServiceLevelTarget    float64 `yaml:"service_level_target" json:"service_level_target,omitempty"`
	PriorityExponent      float64 `yaml:"priority_exponent" json:"priority_exponent,omitempty"`
	ShaperZeroPenalty     float64 `yaml:"shaper_zero_penalty" json:"shaper_zero_penalty,omitempty"`
	ShaperOrderBonus      float64 `yaml:"shaper_order_bonus" json:"shaper_order_bonus,omitempty"`
	ShaperHysteresisBand  float64 `yaml:"shaper_hysteresis_band" json:"shaper_hysteresis_band,omitempty"`
	ShaperHysteresisBonus float64 `yaml:"shaper_hysteresis_bonus" json:"shaper_hysteresis_bonus,omitempty"`
	DefaultMeanDemand     float64 `yaml:"default_mean_demand" json:"default_mean_demand,omitempty"`

	// Selection
	DailyBudgetLimit float64 `yaml:"daily_budget_limit" json:"daily_budget_limit,omitempty"`
	CandidateQtys    []int   `yaml:"candidate_qtys" json:"candidate_qtys,omitempty"`

	// Workers bounds the per-product map phase. Zero means one goroutine per product.
	Workers int `yaml:"workers" json:"workers,omitempty"`
}

// DefaultSettings returns the tuned defaults of the controller.
func DefaultSettings() Settings {
	return Settings{
		ForecastWindowDays: 14,
		AnomalyZThreshold:  2.0,

		ZBase:       2.5,
		ZMin:        2.0,
		ZMax:        3.5,
		VolToZScale: 0.12,

		OverstockDaysOfCover: 45,
		StopOrdersDays:       2,

		StockoutPenaltyPerUnit: 300,
		StockoutPenaltyCap:     50000,
		PriceWeightReference:   50,
		PriceWeightExponent:    1.2,
		ServiceDeficitScale:    5,
		SpikeDemandMultiplier:  1.5,
		BullwhipLambda:         1.0,

		ServiceLevelTarget:    0.95,
		PriorityExponent:      1.3,
		ShaperZeroPenalty:     20000,
		ShaperOrderBonus:      500,
		ShaperHysteresisBand:  0.03,
		ShaperHysteresisBonus: 100,
		DefaultMeanDemand:     20,

		DailyBudgetLimit: 30000,
		CandidateQtys:    []int{0, 25, 50, 75, 100, 150, 200, 250},

		Workers: 4,
	}
}

// Validate rejects settings the decision engine cannot honour.
func (s Settings) Validate() error {
	if s.ForecastWindowDays <= 0 {
		return fmt.Errorf("forecast_window_days must be > 0, got %d", s.ForecastWindowDays)
	}
	if s.AnomalyZThreshold <= 0 {
		return fmt.Errorf("anomaly_z_threshold must be > 0, got %v", s.AnomalyZThreshold)
	}
	if s.ZMin > s.ZMax {
		return fmt.Errorf("z_min (%v) must not exceed z_max (%v)", s.ZMin, s.ZMax)
	}
	if s.OverstockDaysOfCover <= 0 {
		return fmt.Errorf("overstock_days_of_cover must be > 0, got %v", s.OverstockDaysOfCover)
	}
	if s.StopOrdersDays < 0 {
		return fmt.Errorf("stop_orders_days must be >= 0, got %d", s.StopOrdersDays)
	}
	if s.PriceWeightReference <= 0 {
		return fmt.Errorf("price_weight_reference must be > 0, got %v", s.PriceWeightReference)
	}
	if s.StockoutPenaltyCap < 0 {
		return fmt.Errorf("stockout_penalty_cap must be >= 0, got %v", s.StockoutPenaltyCap)
	}
	if s.ServiceLevelTarget <= 0 || s.ServiceLevelTarget > 1 {
		return fmt.Errorf("service_level_target must be in (0, 1], got %v", s.ServiceLevelTarget)
	}
	if s.DailyBudgetLimit < 0 {
		return fmt.Errorf("daily_budget_limit must be >= 0, got %v", s.DailyBudgetLimit)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}
	return validateMenu(s.CandidateQtys)
}

// The menu must be strictly ascending, non-negative and contain zero so that
// ordering nothing is always a feasible choice.
func validateMenu(qtys []int) error {
	if len(qtys) == 0 {
		return fmt.Errorf("candidate_qtys is empty")
	}
	if !slices.Contains(qtys, 0) {
		return fmt.Errorf("candidate_qtys must include 0")
	}
	for i, q := range qtys {
		if q < 0 {
			return fmt.Errorf("candidate_qtys contains negative quantity %d", q)
		}
		if i > 0 && q <= qtys[i-1] {
			return fmt.Errorf("candidate_qtys must be strictly ascending")
		}
	}
	return nil
}

// LoadSettings reads a YAML settings file over the defaults. An empty path
// returns the defaults. Keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := checkSettingsSchema(data); err != nil {
		return s, fmt.Errorf("settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to decode settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func checkSettingsSchema(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil
	}

	schema, err := jsonschema.For[Settings](nil)
	if err != nil {
		return fmt.Errorf("failed to build settings schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve settings schema: %w", err)
	}
	if err := resolved.Validate(doc); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}

// YAML renders the settings as a YAML document.
func (s Settings) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
