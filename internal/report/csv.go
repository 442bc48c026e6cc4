package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"autoreplenish/internal/manager"
)

// ComparisonFile is the name of the multi-scenario CSV.
const ComparisonFile = "scenario_comparison.csv"

// DailyFile names the per-day CSV of a scenario.
func DailyFile(scenario string) string {
	return scenario + "_daily_metrics.csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return f.Close()
}

// WriteDailyCSV writes day, fill_rate, lost_sales, budget_spent and revenue for
// every simulated day of res into dir.
func WriteDailyCSV(dir string, res manager.ScenarioResult) (string, error) {
	rows := make([][]string, 0, len(res.Daily))
	for _, d := range res.Daily {
		rows = append(rows, []string{
			strconv.Itoa(d.Day),
			formatFloat(d.FillRate),
			strconv.Itoa(d.LostSales),
			formatFloat(d.BudgetSpent),
			formatFloat(d.Revenue),
		})
	}

	path := filepath.Join(dir, DailyFile(res.Scenario))
	header := []string{"day", "fill_rate", "lost_sales", "budget_spent", "revenue"}
	if err := writeCSV(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteComparisonCSV writes one row of totals per scenario into dir.
func WriteComparisonCSV(dir string, results []manager.ScenarioResult) (string, error) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Scenario,
			formatFloat(r.FillRate),
			formatFloat(r.Revenue),
			formatFloat(r.Cost),
			formatFloat(r.Margin),
			formatFloat(r.MarginPct),
			strconv.Itoa(r.LostSales),
			strconv.Itoa(r.TotalDemand),
			strconv.Itoa(r.TotalSales),
		})
	}

	path := filepath.Join(dir, ComparisonFile)
	header := []string{"scenario", "fill_rate", "revenue", "cost", "margin", "margin_pct", "lost_sales", "total_demand", "total_sales"}
	if err := writeCSV(path, header, rows); err != nil {
		return "", err
	}
	return path, nil
}
