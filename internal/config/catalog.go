package config

import (
	"fmt"
	"os"

	"autoreplenish/internal/inventory"

	"gopkg.in/yaml.v3"
)

// DefaultCatalog returns the four-product warehouse used when no catalog file is given.
func DefaultCatalog() inventory.Catalog {
	return inventory.Catalog{Products: []inventory.Product{
		{
			ID: "SKU_001", Name: "Laptop",
			DailyDemandMean: 20, DailyDemandStd: 4,
			UnitPrice: 1000, UnitCost: 550,
			HoldingCostPerUnitDay: 0.3, OrderFixedCost: 50,
			LeadTimeMin: 2, LeadTimeMax: 4,
			InitialStock: 550,
		},
		{
			ID: "SKU_002", Name: "Phone",
			DailyDemandMean: 35, DailyDemandStd: 8,
			UnitPrice: 700, UnitCost: 350,
			HoldingCostPerUnitDay: 0.25, OrderFixedCost: 45,
			LeadTimeMin: 2, LeadTimeMax: 5,
			InitialStock: 750,
		},
		{
			ID: "SKU_003", Name: "Headphones",
			DailyDemandMean: 55, DailyDemandStd: 15,
			UnitPrice: 120, UnitCost: 45,
			HoldingCostPerUnitDay: 0.08, OrderFixedCost: 25,
			LeadTimeMin: 1, LeadTimeMax: 3,
			InitialStock: 550,
		},
		{
			ID: "SKU_004", Name: "Mouse",
			DailyDemandMean: 70, DailyDemandStd: 18,
			UnitPrice: 35, UnitCost: 8,
			HoldingCostPerUnitDay: 0.02, OrderFixedCost: 15,
			LeadTimeMin: 1, LeadTimeMax: 2,
			InitialStock: 700,
		},
	}}
}

// LoadCatalog reads a YAML product catalog. An empty path returns the default catalog.
func LoadCatalog(path string) (inventory.Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return inventory.Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c inventory.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return inventory.Catalog{}, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return inventory.Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}
