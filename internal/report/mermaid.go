package report

import (
	"fmt"
	"math"
	"strings"

	"autoreplenish/internal/manager"
)

// GenerateFillRateChart creates a Mermaid xychart-beta of the daily fill rate
// against the service-level target.
func GenerateFillRateChart(daily []manager.DayMetrics, target float64) string {
	if len(daily) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var targets []string

	for _, d := range daily {
		labels = append(labels, fmt.Sprintf("%d", d.Day))
		values = append(values, fmt.Sprintf("%.3f", d.FillRate))
		targets = append(targets, fmt.Sprintf("%.3f", target))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Daily Fill Rate\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Fill Rate\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(targets, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSpendChart creates a Mermaid bar chart of daily spend with the
// daily budget drawn as a line.
func GenerateSpendChart(daily []manager.DayMetrics, budget float64) string {
	if len(daily) == 0 {
		return ""
	}

	var labels []string
	var values []string
	var limits []string
	maxY := budget

	for _, d := range daily {
		labels = append(labels, fmt.Sprintf("%d", d.Day))
		values = append(values, fmt.Sprintf("%.0f", d.BudgetSpent))
		limits = append(limits, fmt.Sprintf("%.0f", budget))
		maxY = math.Max(maxY, d.BudgetSpent)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Daily Spend vs Budget\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Spend\" 0 --> %d\n", int(math.Ceil(maxY*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(limits, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateLostSalesChart creates a Mermaid bar chart of lost units per product.
func GenerateLostSalesChart(products []manager.ProductSummary) string {
	if len(products) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0

	for _, p := range products {
		labels = append(labels, fmt.Sprintf("\"%s\"", p.ProductID))
		values = append(values, fmt.Sprintf("%d", p.LostSales))
		maxVal = max(maxVal, p.LostSales)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Lost Sales by Product\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Units\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateComparisonChart creates a Mermaid bar chart of overall fill rate per scenario.
func GenerateComparisonChart(results []manager.ScenarioResult) string {
	if len(results) == 0 {
		return ""
	}

	var labels []string
	var values []string

	for _, r := range results {
		labels = append(labels, fmt.Sprintf("\"%s\"", r.Scenario))
		values = append(values, fmt.Sprintf("%.3f", r.FillRate))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Fill Rate by Scenario\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Fill Rate\" 0 --> 1\n")
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
