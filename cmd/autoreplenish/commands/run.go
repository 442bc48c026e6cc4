package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"autoreplenish/internal/config"
	"autoreplenish/internal/manager"
	"autoreplenish/internal/report"
	"autoreplenish/internal/telemetry"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	runScenarios  []string
	runDays       int
	runSeed       int64
	runBudget     float64
	runOutput     string
	metricsAddr   string
	writeTextfile bool
	warmStart     bool
	historyDB     string
	openReport    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller through one or more simulated scenarios",
	RunE:  runScenariosCmd,
}

func init() {
	runCmd.Flags().StringSliceVarP(&runScenarios, "scenario", "s", nil, "scenarios to run (default: all built-in scenarios)")
	runCmd.Flags().IntVarP(&runDays, "days", "d", 0, "simulated days per scenario (default: SIMULATION_DAYS)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "override the scenario seed")
	runCmd.Flags().Float64Var(&runBudget, "budget", 0, "override the daily budget")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output directory (default: OUTPUT_DIR)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	runCmd.Flags().BoolVar(&writeTextfile, "metrics-textfile", false, "write a Prometheus textfile next to the CSVs")
	runCmd.Flags().BoolVar(&warmStart, "warm-start", false, "seed forecasts from the demand history saved by a previous run")
	runCmd.Flags().StringVar(&historyDB, "history-db", "", "SQLite file recording every run (default: HISTORY_DB)")
	runCmd.Flags().BoolVar(&openReport, "open", false, "open the Markdown report when done")
}

func selectedScenarios(cmd *cobra.Command) ([]config.Scenario, error) {
	var out []config.Scenario
	if len(runScenarios) == 0 {
		out = config.DefaultScenarios()
	} else {
		for _, name := range runScenarios {
			sc, err := config.FindScenario(name)
			if err != nil {
				return nil, err
			}
			out = append(out, sc)
		}
	}

	for i := range out {
		if cmd.Flags().Changed("seed") {
			out[i].Seed = runSeed
		}
		if runBudget > 0 {
			out[i].DailyBudget = runBudget
		}
	}
	return out, nil
}

func runScenariosCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scenarios, err := selectedScenarios(cmd)
	if err != nil {
		return err
	}
	if runBudget < 0 {
		return fmt.Errorf("budget must be >= 0, got %v", runBudget)
	}

	days := runDays
	if days == 0 {
		days = cfg.SimulationDays
	}
	outDir := runOutput
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if historyDB == "" {
		historyDB = cfg.HistoryDB
	}

	recorder := telemetry.NewRecorder()
	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	if metricsAddr != "" {
		g.Go(func() error { return recorder.Serve(serveCtx, metricsAddr) })
	}

	var results []manager.ScenarioResult
	g.Go(func() error {
		defer stopServe()
		for _, sc := range scenarios {
			res, err := manager.RunScenario(gctx, manager.RunConfig{
				Scenario:   sc,
				Catalog:    catalog,
				Settings:   settings,
				Days:       days,
				HistoryDir: outDir,
				WarmStart:  warmStart,
				Sinks:      []manager.MetricsSink{recorder},
			})
			if err != nil {
				return err
			}
			results = append(results, res)

			path, err := report.WriteDailyCSV(outDir, res)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("Daily metrics saved")
			report.PrintSummary(cmd.OutOrStdout(), res)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	return writeArtifacts(ctx, cmd, outDir, results, recorder)
}

func writeArtifacts(ctx context.Context, cmd *cobra.Command, outDir string, results []manager.ScenarioResult, recorder *telemetry.Recorder) error {
	target := settings.ServiceLevelTarget

	if len(results) > 1 {
		path, err := report.WriteComparisonCSV(outDir, results)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Comparison saved")
		report.PrintComparison(cmd.OutOrStdout(), results, target)
	}

	mdPath, err := report.WriteMarkdown(outDir, results, target)
	if err != nil {
		return err
	}
	log.Info().Str("path", mdPath).Msg("Report saved")

	if writeTextfile || cfg.MetricsTextfile {
		path := filepath.Join(outDir, "autoreplenish.prom")
		if err := recorder.WriteTextfile(path); err != nil {
			return err
		}
	}

	if historyDB != "" {
		h, err := report.OpenHistory(historyDB)
		if err != nil {
			return err
		}
		defer h.Close()
		now := time.Now()
		for _, res := range results {
			id, err := h.Record(ctx, res, now)
			if err != nil {
				return err
			}
			log.Info().Int64("run_id", id).Str("scenario", res.Scenario).Str("path", h.Path()).Msg("Run recorded")
		}
	}

	if openReport {
		if err := browser.OpenFile(mdPath); err != nil {
			log.Warn().Err(err).Str("path", mdPath).Msg("Failed to open report")
		}
	}
	return nil
}
