package planner

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestSolve_BudgetCouplesProducts(t *testing.T) {
	groups := []Group{
		{ProductID: "A", Candidates: []Candidate{
			{Qty: 0, Utility: 0, Spend: 0},
			{Qty: 25, Utility: 500, Spend: 600},
		}},
		{ProductID: "B", Candidates: []Candidate{
			{Qty: 0, Utility: 0, Spend: 0},
			{Qty: 10, Utility: 300, Spend: 400},
			{Qty: 20, Utility: 450, Spend: 500},
		}},
	}

	sel, err := Solve(groups, 1000)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if sel.Choices[0].Qty != 25 || sel.Choices[1].Qty != 10 {
		t.Errorf("Solve() chose A=%d B=%d, want A=25 B=10", sel.Choices[0].Qty, sel.Choices[1].Qty)
	}
	if sel.Spend != 1000 {
		t.Errorf("Spend = %v, want 1000", sel.Spend)
	}
	if sel.Utility != 800 {
		t.Errorf("Utility = %v, want 800", sel.Utility)
	}
}

func TestSolve_NoProducts(t *testing.T) {
	sel, err := Solve(nil, 100)
	if err != nil {
		t.Fatalf("Solve(nil) error = %v", err)
	}
	if len(sel.Choices) != 0 || sel.Spend != 0 {
		t.Errorf("Solve(nil) = %+v, want empty selection", sel)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	groups := []Group{
		{ProductID: "A", Candidates: []Candidate{{Qty: 10, Utility: 5, Spend: 200}}},
	}
	_, err := Solve(groups, 100)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("Solve() error = %v, want ErrInfeasible", err)
	}
}

func TestSolve_NegativeUtilitiesStillChooseOne(t *testing.T) {
	groups := []Group{
		{ProductID: "A", Candidates: []Candidate{
			{Qty: 0, Utility: -5000, Spend: 0},
			{Qty: 25, Utility: -100, Spend: 300},
		}},
	}
	sel, err := Solve(groups, 1000)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sel.Choices[0].Qty != 25 {
		t.Errorf("Solve() chose qty %d, want 25", sel.Choices[0].Qty)
	}
}

func TestSolve_TieKeepsFirstCandidate(t *testing.T) {
	groups := []Group{
		{ProductID: "A", Candidates: []Candidate{
			{Qty: 0, Utility: 10, Spend: 0},
			{Qty: 25, Utility: 10, Spend: 0},
		}},
	}
	sel, err := Solve(groups, 0)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sel.Choices[0].Qty != 0 {
		t.Errorf("Solve() chose qty %d on a tie, want the first candidate", sel.Choices[0].Qty)
	}
}

// bruteForce enumerates every assignment.
func bruteForce(groups []Group, budget float64) (best float64, found bool) {
	best = math.Inf(-1)
	var walk func(g int, spend, util float64)
	walk = func(g int, spend, util float64) {
		if spend > budget+budgetTolerance {
			return
		}
		if g == len(groups) {
			found = true
			if util > best {
				best = util
			}
			return
		}
		for _, c := range groups[g].Candidates {
			walk(g+1, spend+c.Spend, util+c.Utility)
		}
	}
	walk(0, 0, 0)
	return best, found
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	qtys := []int{0, 25, 50, 75, 100}

	for trial := 0; trial < 200; trial++ {
		nGroups := 1 + rng.Intn(5)
		groups := make([]Group, nGroups)
		for g := range groups {
			unit := 5 + rng.Float64()*50
			fixed := rng.Float64() * 40
			for _, q := range qtys {
				c := Candidate{Qty: q, Utility: rng.Float64()*4000 - 1000}
				if q > 0 {
					c.Spend = float64(q)*unit + fixed
				}
				groups[g].Candidates = append(groups[g].Candidates, c)
			}
		}
		budget := rng.Float64() * 8000

		want, _ := bruteForce(groups, budget)
		sel, err := Solve(groups, budget)
		if err != nil {
			t.Fatalf("trial %d: Solve() error = %v", trial, err)
		}

		if len(sel.Choices) != nGroups {
			t.Fatalf("trial %d: %d choices for %d groups", trial, len(sel.Choices), nGroups)
		}
		spend, util := 0.0, 0.0
		for _, c := range sel.Choices {
			spend += c.Spend
			util += c.Utility
		}
		if spend > budget+budgetTolerance {
			t.Errorf("trial %d: spend %v exceeds budget %v", trial, spend, budget)
		}
		if math.Abs(util-want) > 1e-6 || math.Abs(sel.Utility-util) > 1e-6 {
			t.Errorf("trial %d: utility = %v (reported %v), want %v", trial, util, sel.Utility, want)
		}
	}
}

func TestPrune(t *testing.T) {
	in := []Candidate{
		{Qty: 0, Utility: 0, Spend: 0},
		{Qty: 25, Utility: 100, Spend: 600.4},
		{Qty: 26, Utility: 150, Spend: 600.2},
		{Qty: 30, Utility: 90, Spend: 700},
		{Qty: 31, Utility: 90, Spend: 700.3},
	}

	got := Prune(in)

	want := []Candidate{in[0], in[2], in[3]}
	if len(got) != len(want) {
		t.Fatalf("Prune() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Prune()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPrune_HalfToEvenLevels(t *testing.T) {
	// 0.5 rounds to level 0 and 1.5 to level 2.
	in := []Candidate{
		{Qty: 0, Utility: 0, Spend: 0},
		{Qty: 1, Utility: 5, Spend: 0.5},
		{Qty: 2, Utility: 1, Spend: 1.5},
	}
	got := Prune(in)
	if len(got) != 2 || got[0].Qty != 1 || got[1].Qty != 2 {
		t.Errorf("Prune() = %+v, want qty 1 at level 0 and qty 2 at level 2", got)
	}
}
