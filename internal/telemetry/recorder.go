package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"autoreplenish/internal/manager"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "autoreplenish"

// Recorder exports run metrics through a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	day         *prometheus.GaugeVec
	fillRate    *prometheus.GaugeVec
	lostSales   *prometheus.GaugeVec
	stockTotal  *prometheus.GaugeVec
	budgetSpent *prometheus.GaugeVec
	revenue     *prometheus.GaugeVec

	lostTotal    *prometheus.CounterVec
	spendTotal   *prometheus.CounterVec
	ordersTotal  *prometheus.CounterVec
	revenueTotal *prometheus.CounterVec

	productStock  *prometheus.GaugeVec
	productDemand *prometheus.GaugeVec
	productSales  *prometheus.GaugeVec
	productLost   *prometheus.GaugeVec
}

var _ manager.MetricsSink = (*Recorder)(nil)

func gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		day:         gauge("day", "Last simulated day.", "scenario"),
		fillRate:    gauge("fill_rate", "Fill rate of the last simulated day.", "scenario"),
		lostSales:   gauge("lost_sales_units", "Units lost on the last simulated day.", "scenario"),
		stockTotal:  gauge("stock_units", "On-hand units across all products.", "scenario"),
		budgetSpent: gauge("budget_spent", "Spend committed on the last simulated day.", "scenario"),
		revenue:     gauge("revenue", "Revenue of the last simulated day.", "scenario"),

		lostTotal:    counter("lost_sales_units_total", "Units lost over the run.", "scenario"),
		spendTotal:   counter("spend_total", "Spend committed over the run.", "scenario"),
		ordersTotal:  counter("orders_total", "Orders placed over the run.", "scenario"),
		revenueTotal: counter("revenue_total", "Revenue over the run.", "scenario"),

		productStock:  gauge("product_stock_units", "On-hand units per product.", "scenario", "sku"),
		productDemand: gauge("product_demand_units", "Demand per product on the last day.", "scenario", "sku"),
		productSales:  gauge("product_sales_units", "Sales per product on the last day.", "scenario", "sku"),
		productLost:   gauge("product_lost_units", "Lost sales per product on the last day.", "scenario", "sku"),
	}

	r.registry.MustRegister(
		r.day, r.fillRate, r.lostSales, r.stockTotal, r.budgetSpent, r.revenue,
		r.lostTotal, r.spendTotal, r.ordersTotal, r.revenueTotal,
		r.productStock, r.productDemand, r.productSales, r.productLost,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveDay records daily KPIs.
func (r *Recorder) ObserveDay(scenario string, m manager.DayMetrics) {
	r.day.WithLabelValues(scenario).Set(float64(m.Day))
	r.fillRate.WithLabelValues(scenario).Set(m.FillRate)
	r.lostSales.WithLabelValues(scenario).Set(float64(m.LostSales))
	r.stockTotal.WithLabelValues(scenario).Set(float64(m.StockTotal))
	r.budgetSpent.WithLabelValues(scenario).Set(m.BudgetSpent)
	r.revenue.WithLabelValues(scenario).Set(m.Revenue)

	r.lostTotal.WithLabelValues(scenario).Add(float64(m.LostSales))
	r.spendTotal.WithLabelValues(scenario).Add(m.BudgetSpent)
	r.ordersTotal.WithLabelValues(scenario).Add(float64(m.Orders))
	r.revenueTotal.WithLabelValues(scenario).Add(m.Revenue)
}

// ObserveProduct records one product's daily numbers.
func (r *Recorder) ObserveProduct(scenario string, m manager.ProductMetrics) {
	r.productStock.WithLabelValues(scenario, m.ProductID).Set(float64(m.Stock))
	r.productDemand.WithLabelValues(scenario, m.ProductID).Set(float64(m.Demand))
	r.productSales.WithLabelValues(scenario, m.ProductID).Set(float64(m.Sales))
	r.productLost.WithLabelValues(scenario, m.ProductID).Set(float64(m.LostSales))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry for the node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	log.Info().Str("file", path).Msg("Metrics textfile written")
	return nil
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
