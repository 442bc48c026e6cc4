package telemetry

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autoreplenish/internal/manager"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveDay(t *testing.T) {
	r := NewRecorder()

	r.ObserveDay("baseline", manager.DayMetrics{Day: 1, FillRate: 0.9, LostSales: 12, StockTotal: 500, BudgetSpent: 1000, Revenue: 5000, Orders: 2})
	r.ObserveDay("baseline", manager.DayMetrics{Day: 2, FillRate: 0.95, LostSales: 3, StockTotal: 450, BudgetSpent: 500, Revenue: 4000, Orders: 1})

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"Day", testutil.ToFloat64(r.day.WithLabelValues("baseline")), 2},
		{"FillRate", testutil.ToFloat64(r.fillRate.WithLabelValues("baseline")), 0.95},
		{"LostSalesGauge", testutil.ToFloat64(r.lostSales.WithLabelValues("baseline")), 3},
		{"LostSalesTotal", testutil.ToFloat64(r.lostTotal.WithLabelValues("baseline")), 15},
		{"SpendTotal", testutil.ToFloat64(r.spendTotal.WithLabelValues("baseline")), 1500},
		{"OrdersTotal", testutil.ToFloat64(r.ordersTotal.WithLabelValues("baseline")), 3},
		{"RevenueTotal", testutil.ToFloat64(r.revenueTotal.WithLabelValues("baseline")), 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestRecorder_ObserveProduct(t *testing.T) {
	r := NewRecorder()
	r.ObserveProduct("high_demand", manager.ProductMetrics{Day: 3, ProductID: "SKU_001", Stock: 40, Demand: 25, Sales: 20, LostSales: 5})

	if got := testutil.ToFloat64(r.productLost.WithLabelValues("high_demand", "SKU_001")); got != 5 {
		t.Errorf("product lost = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.productStock.WithLabelValues("high_demand", "SKU_001")); got != 40 {
		t.Errorf("product stock = %v, want 40", got)
	}
}

func TestRecorder_HandlerAndTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveDay("baseline", manager.DayMetrics{Day: 1, FillRate: 1})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `autoreplenish_fill_rate{scenario="baseline"} 1`) {
		t.Errorf("handler output missing fill rate:\n%s", body)
	}

	path := filepath.Join(t.TempDir(), "autoreplenish.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "autoreplenish_day") {
		t.Errorf("textfile missing day gauge:\n%s", data)
	}
}
