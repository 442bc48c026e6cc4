package commands

import (
	"autoreplenish/internal/config"
	"autoreplenish/internal/inventory"
	"autoreplenish/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose      bool
	settingsFile string
	catalogFile  string

	cfg      *config.AppConfig
	settings config.Settings
	catalog  inventory.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "autoreplenish",
	Short: "Autonomous inventory replenishment controller",
	Long: `A self-adaptive replenishment controller. Every simulated day it estimates demand,
adapts safety stock, freezes overstocked products and picks one order quantity per product
that maximises expected utility within the daily budget.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		if err := logging.Init(logging.Options{Verbose: verbose, Dir: cfg.LogDir}); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialise logging")
		}

		if settingsFile == "" {
			settingsFile = cfg.SettingsFile
		}
		if settings, err = config.LoadSettings(settingsFile); err != nil {
			log.Fatal().Err(err).Str("path", settingsFile).Msg("Failed to load settings")
		}

		if catalogFile == "" {
			catalogFile = cfg.CatalogFile
		}
		if catalog, err = config.LoadCatalog(catalogFile); err != nil {
			log.Fatal().Err(err).Str("path", catalogFile).Msg("Failed to load catalog")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Int("products", len(catalog.Products)).
			Msg("autoreplenish starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "controller settings YAML (default: built-in settings)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "product catalog YAML (default: built-in catalog)")

	rootCmd.AddCommand(runCmd, serveCmd, defaultsCmd)
}
