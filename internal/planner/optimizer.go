package planner

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInfeasible is returned when no assignment of one candidate per product
// fits the budget.
var ErrInfeasible = errors.New("no feasible selection within budget")

// budgetTolerance absorbs float accumulation when summing spends.
const budgetTolerance = 1e-9

// Group is the set of candidates for one product; exactly one is chosen.
type Group struct {
	ProductID  string
	Candidates []Candidate
}

// Selection is the solver's answer: Choices[i] is the candidate chosen for groups[i].
type Selection struct {
	Choices []Candidate
	Spend   float64
	Utility float64
}

// Prune keeps the highest-utility candidate per rounded spend level. The first
// candidate wins ties, and levels keep first-occurrence order.
func Prune(cands []Candidate) []Candidate {
	index := make(map[int]int, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		level := int(math.RoundToEven(c.Spend))
		if i, ok := index[level]; ok {
			if c.Utility > out[i].Utility {
				out[i] = c
			}
			continue
		}
		index[level] = len(out)
		out = append(out, c)
	}
	return out
}

type state struct {
	spend   float64
	utility float64
	parent  int
	choice  int
}

// Solve picks exactly one candidate per group to maximise total utility with
// total spend at most budget. It keeps, after each group, the Pareto frontier
// of (spend, utility) partial assignments: a partial assignment that costs
// more than another without earning strictly more can never complete into a
// better answer, so dropping it keeps the search exact. Ties resolve to the
// first candidate in group order.
func Solve(groups []Group, budget float64) (Selection, error) {
	limit := budget + budgetTolerance
	layers := make([][]state, len(groups))

	prev := []state{{parent: -1, choice: -1}}
	for g, group := range groups {
		var next []state
		for pi, ps := range prev {
			for ci, c := range group.Candidates {
				spend := ps.spend + c.Spend
				if spend > limit {
					continue
				}
				next = append(next, state{
					spend:   spend,
					utility: ps.utility + c.Utility,
					parent:  pi,
					choice:  ci,
				})
			}
		}
		if len(next) == 0 {
			return Selection{}, fmt.Errorf("%w: product %s", ErrInfeasible, group.ProductID)
		}
		layers[g] = frontier(next)
		prev = layers[g]
	}

	sel := Selection{Choices: make([]Candidate, len(groups))}
	if len(groups) == 0 {
		return sel, nil
	}

	// The frontier is ordered by spend with strictly increasing utility, so
	// its last element is the optimum.
	idx := len(prev) - 1
	sel.Spend = prev[idx].spend
	sel.Utility = prev[idx].utility
	for g := len(groups) - 1; g >= 0; g-- {
		st := layers[g][idx]
		sel.Choices[g] = groups[g].Candidates[st.choice]
		idx = st.parent
	}
	return sel, nil
}

// frontier sorts states by spend (utility descending on equal spend) and keeps
// only those whose utility strictly beats every cheaper state.
func frontier(states []state) []state {
	slices.SortStableFunc(states, func(a, b state) int {
		if c := cmp.Compare(a.spend, b.spend); c != 0 {
			return c
		}
		return cmp.Compare(b.utility, a.utility)
	})

	out := states[:0]
	best := math.Inf(-1)
	for _, st := range states {
		if st.utility > best {
			out = append(out, st)
			best = st.utility
		}
	}
	return out
}
