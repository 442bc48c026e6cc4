package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autoreplenish/internal/manager"
)

// MarkdownFile is the name of the generated report.
const MarkdownFile = "report.md"

// RenderMarkdown builds a Markdown report with Mermaid charts for every scenario.
func RenderMarkdown(results []manager.ScenarioResult, target float64, generated time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Replenishment Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated %s. Service-level target %.0f%%, met by %d/%d scenarios.\n\n",
		generated.Format(time.RFC3339), target*100, TargetMet(results, target), len(results)))

	if len(results) > 1 {
		sb.WriteString("## Comparison\n\n")
		sb.WriteString("| Scenario | Fill Rate | Lost Sales | Revenue | Margin | Margin % |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, r := range results {
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %d | $%s | $%s | %.2f%% |\n",
				r.Scenario, r.FillRate, r.LostSales, money(r.Revenue), money(r.Margin), r.MarginPct))
		}
		sb.WriteString("\n")
		sb.WriteString(GenerateComparisonChart(results))
		sb.WriteString("\n\n")
	}

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("## %s\n\n", r.Scenario))
		sb.WriteString(fmt.Sprintf("%d days, daily budget $%s. Fill rate %.4f (median daily %.4f), lost %d units.\n\n",
			r.Days, money(r.DailyBudget), r.FillRate, r.MedianDailyFillRate, r.LostSales))

		sb.WriteString("| SKU | Name | Demand | Sales | Lost | Fill Rate |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, p := range r.Products {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %.4f |\n",
				p.ProductID, p.Name, p.Demand, p.Sales, p.LostSales, p.FillRate))
		}
		sb.WriteString("\n")

		for _, chart := range []string{
			GenerateFillRateChart(r.Daily, target),
			GenerateSpendChart(r.Daily, r.DailyBudget),
			GenerateLostSalesChart(r.Products),
		} {
			if chart == "" {
				continue
			}
			sb.WriteString(chart)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// WriteMarkdown renders the report into dir and returns its path.
func WriteMarkdown(dir string, results []manager.ScenarioResult, target float64) (string, error) {
	path := filepath.Join(dir, MarkdownFile)
	content := RenderMarkdown(results, target, time.Now())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
