package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AppConfig holds the process-level configuration (paths, run length, optional sinks).
// Controller tunables live in Settings; the product list lives in the catalog.
type AppConfig struct {
	DataPath        string
	LogDir          string
	OutputDir       string
	SimulationDays  int
	SettingsFile    string
	CatalogFile     string
	HistoryDB       string
	MetricsTextfile bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try the executable's directory first, then the working directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	// 2. Defaults, overridden by the environment
	v := viper.New()
	v.SetDefault("DATA_PATH", "")
	v.SetDefault("OUTPUT_DIR", "")
	v.SetDefault("SIMULATION_DAYS", 90)
	v.SetDefault("SETTINGS_FILE", "")
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("HISTORY_DB", "")
	v.SetDefault("METRICS_TEXTFILE", false)
	v.AutomaticEnv()

	// 3. Resolve data paths
	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = "."
	}
	outputDir := v.GetString("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = filepath.Join(dataPath, "output")
	}
	logDir := filepath.Join(dataPath, "logs")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", outputDir).Msg("Failed to create output directory")
	}

	cfg := &AppConfig{
		DataPath:        dataPath,
		LogDir:          logDir,
		OutputDir:       outputDir,
		SimulationDays:  v.GetInt("SIMULATION_DAYS"),
		SettingsFile:    v.GetString("SETTINGS_FILE"),
		CatalogFile:     v.GetString("CATALOG_FILE"),
		HistoryDB:       v.GetString("HISTORY_DB"),
		MetricsTextfile: v.GetBool("METRICS_TEXTFILE"),
	}

	return cfg, nil
}
