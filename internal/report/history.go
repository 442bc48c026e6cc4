package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autoreplenish/internal/manager"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// History keeps scenario results across invocations in a SQLite file.
type History struct {
	db   *sql.DB
	path string
}

// RunRecord is one stored scenario run.
type RunRecord struct {
	ID        int64
	Scenario  string
	RunAt     time.Time
	Days      int
	FillRate  float64
	LostSales int
	Revenue   float64
	Margin    float64
}

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario TEXT NOT NULL,
	run_at TEXT NOT NULL,
	days INTEGER NOT NULL,
	daily_budget REAL NOT NULL,
	fill_rate REAL NOT NULL,
	median_daily_fill_rate REAL NOT NULL,
	lost_sales INTEGER NOT NULL,
	revenue REAL NOT NULL,
	cost REAL NOT NULL,
	margin REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS run_days (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	day INTEGER NOT NULL,
	fill_rate REAL NOT NULL,
	lost_sales INTEGER NOT NULL,
	budget_spent REAL NOT NULL,
	revenue REAL NOT NULL,
	PRIMARY KEY (run_id, day)
);`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history tables: %w", err)
	}
	return &History{db: db, path: path}, nil
}

// Path returns the database file.
func (h *History) Path() string { return h.path }

// Close releases the database.
func (h *History) Close() error { return h.db.Close() }

// Record stores res and its daily rows in one transaction and returns the run id.
func (h *History) Record(ctx context.Context, res manager.ScenarioResult, runAt time.Time) (id int64, retErr error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	r, err := tx.ExecContext(ctx, `INSERT INTO runs
		(scenario, run_at, days, daily_budget, fill_rate, median_daily_fill_rate, lost_sales, revenue, cost, margin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Scenario, runAt.UTC().Format(time.RFC3339), res.Days, res.DailyBudget,
		res.FillRate, res.MedianDailyFillRate, res.LostSales, res.Revenue, res.Cost, res.Margin)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err = r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_days
		(run_id, day, fill_rate, lost_sales, budget_spent, revenue) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare day insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range res.Daily {
		if _, err := stmt.ExecContext(ctx, id, d.Day, d.FillRate, d.LostSales, d.BudgetSpent, d.Revenue); err != nil {
			return 0, fmt.Errorf("insert day %d: %w", d.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs lists stored runs of a scenario, newest first. An empty scenario lists all runs.
func (h *History) Runs(ctx context.Context, scenario string) ([]RunRecord, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT id, scenario, run_at, days, fill_rate, lost_sales, revenue, margin
		FROM runs WHERE ? = '' OR scenario = ? ORDER BY id DESC`, scenario, scenario)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var runAt string
		if err := rows.Scan(&rec.ID, &rec.Scenario, &runAt, &rec.Days, &rec.FillRate, &rec.LostSales, &rec.Revenue, &rec.Margin); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if rec.RunAt, err = time.Parse(time.RFC3339, runAt); err != nil {
			return nil, fmt.Errorf("parse run_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DayCount returns how many daily rows are stored for a run.
func (h *History) DayCount(ctx context.Context, runID int64) (int, error) {
	var n int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_days WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count days: %w", err)
	}
	return n, nil
}
