package report

import (
	"fmt"
	"io"
	"strings"

	"autoreplenish/internal/manager"

	"github.com/dustin/go-humanize"
)

var (
	rule     = strings.Repeat("=", 60)
	wideRule = strings.Repeat("=", 80)
)

// PrintSummary writes the end-of-run report of one scenario.
func PrintSummary(w io.Writer, res manager.ScenarioResult) {
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "SCENARIO: %s - COMPLETE\n", strings.ToUpper(res.Scenario))
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "Overall Fill Rate: %.4f\n", res.FillRate)
	fmt.Fprintf(w, "Median Daily Fill Rate: %.4f\n", res.MedianDailyFillRate)

	fmt.Fprintf(w, "\nPer-SKU Fill Rate:\n")
	for _, p := range res.Products {
		fmt.Fprintf(w, "  %s: %.4f (lost units: %d)\n", p.ProductID, p.FillRate, p.LostSales)
	}

	fmt.Fprintf(w, "\nFinancial Summary:\n")
	fmt.Fprintf(w, "  Total Revenue: $%s\n", money(res.Revenue))
	fmt.Fprintf(w, "  Total Cost: $%s\n", money(res.Cost))
	fmt.Fprintf(w, "  Total Margin: $%s\n", money(res.Margin))
	fmt.Fprintf(w, "  Margin %%: %.2f%%\n", res.MarginPct)
	fmt.Fprintf(w, "  Total Spend: $%s\n", money(res.TotalSpend))
	fmt.Fprintf(w, "%s\n", rule)
}

// TargetMet counts the scenarios whose overall fill rate reached target.
func TargetMet(results []manager.ScenarioResult, target float64) int {
	n := 0
	for _, r := range results {
		if r.FillRate >= target {
			n++
		}
	}
	return n
}

// PrintComparison writes the multi-scenario table and the target analysis.
func PrintComparison(w io.Writer, results []manager.ScenarioResult, target float64) {
	fmt.Fprintf(w, "\n%s\n", wideRule)
	fmt.Fprintf(w, "MULTI-SCENARIO COMPARISON\n")
	fmt.Fprintf(w, "%s\n", wideRule)
	fmt.Fprintf(w, "%-20s %-12s %-12s %-15s %-10s\n", "Scenario", "Fill Rate", "Lost Sales", "Margin", "Margin %")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Fprintf(w, "%-20s %-12.4f %-12d $%-14s %-.2f%%\n", r.Scenario, r.FillRate, r.LostSales, money(r.Margin), r.MarginPct)
	}
	fmt.Fprintf(w, "%s\n", wideRule)

	fmt.Fprintf(w, "\nTARGET ANALYSIS:\n")
	fmt.Fprintf(w, "Scenarios meeting %.0f%% fill rate target: %d/%d\n", target*100, TargetMet(results, target), len(results))
	for _, r := range results {
		fmt.Fprintf(w, "   %s: %.2f%%\n", r.Scenario, r.FillRate*100)
	}
	fmt.Fprintf(w, "%s\n", wideRule)
}

// money formats v with two decimals and thousands separators.
func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
