package knowledge

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"autoreplenish/internal/inventory"
)

func testCatalog() inventory.Catalog {
	return inventory.Catalog{Products: []inventory.Product{
		{ID: "A", InitialStock: 100, LeadTimeMin: 1, LeadTimeMax: 2},
		{ID: "B", InitialStock: 40, LeadTimeMin: 2, LeadTimeMax: 4},
	}}
}

func TestStore_Initialisation(t *testing.T) {
	s := NewStore(testCatalog(), 30000, 2.5)

	if s.Day() != 0 {
		t.Errorf("Day() = %d, want 0", s.Day())
	}
	if s.Budget() != 30000 {
		t.Errorf("Budget() = %v, want 30000", s.Budget())
	}
	if s.Stock("A") != 100 || s.Stock("B") != 40 {
		t.Errorf("initial stock = %d/%d, want 100/40", s.Stock("A"), s.Stock("B"))
	}

	snap := s.Snapshot()
	if snap.SafetyFactors["A"] != 2.5 {
		t.Errorf("initial safety factor = %v, want 2.5", snap.SafetyFactors["A"])
	}
	if f, ok := snap.ForecastFor("A"); ok || f.Mean != 0 || f.Std != 1 {
		t.Errorf("ForecastFor() before analysis = %+v, %v; want default mean 0 std 1", f, ok)
	}
	if snap.ServiceLevelFor("A") != 1 || snap.VolatilityFor("A") != 1 {
		t.Errorf("service level / volatility defaults = %v / %v, want 1 / 1", snap.ServiceLevelFor("A"), snap.VolatilityFor("A"))
	}
}

func TestStore_StockPosition(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)
	s.SetPendingOrders([]inventory.PendingOrder{
		{ProductID: "A", Quantity: 25, ArrivalDay: 3},
		{ProductID: "A", Quantity: 50, ArrivalDay: 4},
		{ProductID: "B", Quantity: 10, ArrivalDay: 2},
	})

	if got := s.StockPosition("A"); got != 175 {
		t.Errorf("StockPosition(A) = %d, want 175", got)
	}
	if got := s.StockPosition("B"); got != 50 {
		t.Errorf("StockPosition(B) = %d, want 50", got)
	}
	if got := s.Snapshot().Position["A"]; got != 175 {
		t.Errorf("Snapshot().Position[A] = %d, want 175", got)
	}
}

func TestStore_RecentHistory(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)

	for day := 1; day <= 5; day++ {
		s.UpdateDay(day)
		out := inventory.NewOutcome(s.ProductIDs())
		out.Demand["A"] = day * 10
		out.Sales["A"] = day * 10
		s.RecordOutcome(out)
	}

	recent := s.RecentHistory("A", 3)
	if len(recent) != 3 {
		t.Fatalf("RecentHistory() len = %d, want 3", len(recent))
	}
	if recent[0].Day != 3 || recent[2].Day != 5 || recent[2].Demand != 50 {
		t.Errorf("RecentHistory() = %+v", recent)
	}

	if all := s.RecentHistory("A", 0); len(all) != 5 {
		t.Errorf("RecentHistory(window 0) len = %d, want 5", len(all))
	}

	// Returned slices are copies.
	recent[0].Demand = 999
	if s.RecentHistory("A", 3)[0].Demand == 999 {
		t.Error("RecentHistory() exposed internal storage")
	}
}

func TestStore_BudgetLedger(t *testing.T) {
	s := NewStore(testCatalog(), 1000, 2.5)
	s.Spend(300)
	s.RecordOrder("A", 25, 300)

	if s.Budget() != 700 {
		t.Errorf("Budget() = %v, want 700", s.Budget())
	}
	if s.DailySpent() != 300 {
		t.Errorf("DailySpent() = %v, want 300", s.DailySpent())
	}
	if s.LastOrderQty("A") != 25 || s.LastOrderQty("B") != 0 {
		t.Errorf("LastOrderQty() = %d/%d, want 25/0", s.LastOrderQty("A"), s.LastOrderQty("B"))
	}

	s.UpdateDay(1)
	if s.DailySpent() != 0 {
		t.Errorf("DailySpent() after UpdateDay = %v, want 0", s.DailySpent())
	}
}

func TestStore_BlockWindow(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)
	s.UpdateDay(10)

	until := s.BlockOrders("A", 2)
	if until != 12 {
		t.Errorf("BlockOrders() = %d, want 12", until)
	}

	tests := []struct {
		day     int
		blocked bool
	}{
		{10, true},
		{11, true},
		{12, true},
		{13, false},
	}
	for _, tt := range tests {
		s.UpdateDay(tt.day)
		if got := s.IsBlocked("A"); got != tt.blocked {
			t.Errorf("IsBlocked(day %d) = %v, want %v", tt.day, got, tt.blocked)
		}
		if got := s.Snapshot().IsBlocked("A"); got != tt.blocked {
			t.Errorf("Snapshot().IsBlocked(day %d) = %v, want %v", tt.day, got, tt.blocked)
		}
	}
	if s.IsBlocked("B") {
		t.Error("IsBlocked(B) = true, want false")
	}
}

func TestStore_AnomalyCleared(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)
	s.StoreAnomaly("A", &inventory.Anomaly{Kind: inventory.Spike, Z: 3})

	if !s.Snapshot().SpikeActive("A") {
		t.Fatal("SpikeActive() = false after storing spike")
	}

	s.StoreAnomaly("A", nil)
	if s.Snapshot().SpikeActive("A") {
		t.Error("SpikeActive() = true after clearing")
	}
}

func TestStore_ConcurrentAnalysisWrites(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)

	var wg sync.WaitGroup
	for _, id := range s.ProductIDs() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s.StoreForecast(id, inventory.Forecast{Mean: 10, Std: 2})
			s.StoreVolatility(id, 2)
			s.StoreServiceLevel(id, 0.9)
		}(id)
	}
	wg.Wait()

	snap := s.Snapshot()
	for _, id := range s.ProductIDs() {
		if f, ok := snap.ForecastFor(id); !ok || f.Mean != 10 {
			t.Errorf("ForecastFor(%s) = %+v, %v", id, f, ok)
		}
	}
}

func TestStore_HistoryPersistence(t *testing.T) {
	tmpDir := t.TempDir()

	s1 := NewStore(testCatalog(), 0, 2.5)
	for day := 1; day <= 3; day++ {
		s1.UpdateDay(day)
		out := inventory.NewOutcome(s1.ProductIDs())
		out.Demand["A"], out.Sales["A"] = 20, 15
		out.LostSales["A"] = 5
		s1.RecordOutcome(out)
	}

	if err := s1.SaveHistory(tmpDir, "baseline"); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	path := filepath.Join(tmpDir, "baseline_history.jsonl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("history file does not exist: %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}

	s2 := NewStore(testCatalog(), 0, 2.5)
	n, err := s2.LoadHistory(tmpDir, "baseline")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if n != 6 {
		t.Errorf("LoadHistory() = %d rows, want 6", n)
	}

	h := s2.RecentHistory("A", 0)
	if len(h) != 3 || h[2].Day != 3 || h[2].LostSales != 5 {
		t.Errorf("reloaded history = %+v", h)
	}
}

func TestStore_LoadHistoryMissingFile(t *testing.T) {
	s := NewStore(testCatalog(), 0, 2.5)
	n, err := s.LoadHistory(t.TempDir(), "none")
	if err != nil || n != 0 {
		t.Errorf("LoadHistory(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestStore_LoadHistorySkipsBadRows(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"sku":"A","day":1,"demand":10,"sales":10,"lost_sales":0}
not json
{"sku":"Z","day":1,"demand":5,"sales":5,"lost_sales":0}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "mixed_history.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(testCatalog(), 0, 2.5)
	n, err := s.LoadHistory(tmpDir, "mixed")
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if n != 1 || s.HistoryLen("A") != 1 {
		t.Errorf("LoadHistory() = %d, HistoryLen(A) = %d; want 1, 1", n, s.HistoryLen("A"))
	}
}
