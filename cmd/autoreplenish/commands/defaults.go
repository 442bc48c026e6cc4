package commands

import (
	"fmt"

	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the effective settings, catalog and scenarios as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := struct {
			Settings  config.Settings     `yaml:"settings"`
			Products  []inventory.Product `yaml:"products"`
			Scenarios []config.Scenario   `yaml:"scenarios"`
		}{
			Settings:  settings,
			Products:  catalog.Products,
			Scenarios: config.DefaultScenarios(),
		}

		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal defaults: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
