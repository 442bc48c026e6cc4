package mcp

import (
	"context"
	"fmt"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const serverName = "autoreplenish"

// Server exposes the replenishment controller as MCP tools.
type Server struct {
	catalog  inventory.Catalog
	settings config.Settings
	version  string

	// MaxDays is the longest run_scenario accepts.
	MaxDays int
}

// NewServer creates a tool server over the given catalog and controller settings.
func NewServer(catalog inventory.Catalog, settings config.Settings, version string) *Server {
	return &Server{
		catalog:  catalog,
		settings: settings,
		version:  version,
		MaxDays:  365,
	}
}

// Build registers the tools on a fresh go-sdk server.
func (s *Server) Build() (*sdk.Server, error) {
	server := sdk.NewServer(&sdk.Implementation{Name: serverName, Version: s.version}, nil)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "list_products",
		Description: "List the product catalog the controller replenishes (prices, costs, lead times, initial stock).",
	}, s.handleListProducts)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "list_scenarios",
		Description: "List the built-in evaluation scenarios (demand and lead-time multipliers, seed, daily budget).",
	}, s.handleListScenarios)

	runSchema, err := s.runScenarioSchema()
	if err != nil {
		return nil, err
	}
	sdk.AddTool(server, &sdk.Tool{
		Name: "run_scenario",
		Description: "Run the replenishment controller through a simulated scenario and return the KPIs " +
			"(fill rate, lost sales, revenue, margin, spend) together with the plan of the final day.",
		InputSchema: runSchema,
	}, s.handleRunScenario)

	return server, nil
}

// runScenarioSchema derives the input schema from RunScenarioInput and adds the bounds.
func (s *Server) runScenarioSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[RunScenarioInput](nil)
	if err != nil {
		return nil, fmt.Errorf("run_scenario schema: %w", err)
	}

	names := make([]any, 0, len(config.DefaultScenarios()))
	for _, sc := range config.DefaultScenarios() {
		names = append(names, sc.Name)
	}
	schema.Properties["scenario"].Enum = names

	minDays, maxDays := 1.0, float64(s.MaxDays)
	schema.Properties["days"].Minimum = &minDays
	schema.Properties["days"].Maximum = &maxDays

	minBudget := 0.0
	schema.Properties["daily_budget"].Minimum = &minBudget
	return schema, nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	server, err := s.Build()
	if err != nil {
		return err
	}
	log.Info().Str("version", s.version).Int("products", len(s.catalog.Products)).Msg("MCP server listening on stdio")
	return server.Run(ctx, &sdk.StdioTransport{})
}
