package solve

import "math"

// Backtracking is the default Oracle: an exact depth-first branch-and-bound
// search over the finite variable domains. Before the search starts, a
// greedy pass seeds a feasible incumbent; during the search, partial
// constraint sums are checked against the best and worst the remaining
// variables can still contribute, and the cost of covering the remaining
// lower-bound demand prunes dominated subtrees.
//
// The search is exact but exponential in the worst case; MaxNodes caps the
// effort and turns an over-budget solve into StatusError instead of hanging.
type Backtracking struct {
	// MaxNodes aborts the search once this many nodes have been expanded.
	// Zero means no budget.
	MaxNodes int
}

// Solve runs the search. It returns StatusOptimal with a proven-optimal
// assignment, StatusInfeasible when no assignment satisfies the constraints,
// or StatusError when the model is malformed or the node budget ran out.
func (b Backtracking) Solve(m *Model) Result {
	if err := m.Validate(); err != nil {
		return Result{Status: StatusError}
	}

	n := m.NumVars()
	if n == 0 {
		for _, c := range m.Constraints {
			if (c.HasLower && c.Lower > 0) || (c.HasUpper && c.Upper < 0) {
				return Result{Status: StatusInfeasible}
			}
		}
		return Result{Status: StatusOptimal, Values: []int{}}
	}

	s := newSearch(m, b.MaxNodes)
	s.seedGreedy()
	s.dfs(0, 0)

	if s.aborted {
		return Result{Status: StatusError, Nodes: s.nodes}
	}
	if !s.found {
		return Result{Status: StatusInfeasible, Nodes: s.nodes}
	}
	return Result{Status: StatusOptimal, Values: s.best, Objective: s.bestObj, Nodes: s.nodes}
}

type search struct {
	m        *Model
	n        int
	coeff    [][]int // dense coefficient row per constraint
	objCoeff []int   // dense objective coefficients
	maxTail  [][]int // maxTail[c][d]: largest sum vars d..n-1 can still add to constraint c
	minTail  [][]int // minTail[c][d]: smallest sum vars d..n-1 can still add
	objTail  []int   // objTail[d]: smallest objective vars d..n-1 can still add
	lowerCs  []int   // indices of constraints carrying a lower bound
	aggNum   []int   // aggNum[d]/aggDen[d]: best combined demand coverage per
	aggDen   []int   // unit of cost among vars d..n-1
	aggOK    []bool
	conNum   [][]int // the same ratio per lower-bounded constraint
	conDen   [][]int
	conOK    [][]bool
	sums     []int
	values   []int
	best     []int
	bestObj  int
	found    bool
	nodes    int
	maxNodes int
	aborted  bool
}

func newSearch(m *Model, maxNodes int) *search {
	n := m.NumVars()
	s := &search{
		m:        m,
		n:        n,
		objCoeff: make([]int, n),
		objTail:  make([]int, n+1),
		sums:     make([]int, len(m.Constraints)),
		values:   make([]int, n),
		best:     make([]int, n),
		maxNodes: maxNodes,
	}

	for _, t := range m.Objective {
		s.objCoeff[t.Var] += t.Coeff
	}
	for d := n - 1; d >= 0; d-- {
		add := s.objCoeff[d] * m.Upper[d]
		if add > 0 {
			add = 0
		}
		s.objTail[d] = s.objTail[d+1] + add
	}

	s.coeff = make([][]int, len(m.Constraints))
	s.maxTail = make([][]int, len(m.Constraints))
	s.minTail = make([][]int, len(m.Constraints))
	for c, con := range m.Constraints {
		row := make([]int, n)
		for _, t := range con.Terms {
			row[t.Var] += t.Coeff
		}
		s.coeff[c] = row

		maxT := make([]int, n+1)
		minT := make([]int, n+1)
		for d := n - 1; d >= 0; d-- {
			add := row[d] * m.Upper[d]
			maxT[d], minT[d] = maxT[d+1], minT[d+1]
			if add > 0 {
				maxT[d] += add
			} else {
				minT[d] += add
			}
		}
		s.maxTail[c] = maxT
		s.minTail[c] = minT

		if con.HasLower {
			s.lowerCs = append(s.lowerCs, c)
		}
	}

	aggCol := make([]int, n)
	for _, c := range s.lowerCs {
		for j, k := range s.coeff[c] {
			aggCol[j] += k
		}
	}
	s.aggNum, s.aggDen, s.aggOK = coverageRates(aggCol, s.objCoeff)
	for _, c := range s.lowerCs {
		num, den, ok := coverageRates(s.coeff[c], s.objCoeff)
		s.conNum = append(s.conNum, num)
		s.conDen = append(s.conDen, den)
		s.conOK = append(s.conOK, ok)
	}
	return s
}

// coverageRates computes, per depth d, the largest col[j]/obj[j] over
// variables j >= d as a fraction num[d]/den[d]. ok[d] reports whether the
// ratio is a sound cost bound from d on: every remaining variable needs a
// non-negative objective coefficient, and every contributing one a strictly
// positive coefficient.
func coverageRates(col, obj []int) (num, den []int, ok []bool) {
	n := len(col)
	num, den, ok = make([]int, n+1), make([]int, n+1), make([]bool, n+1)
	den[n], ok[n] = 1, true
	for d := n - 1; d >= 0; d-- {
		num[d], den[d], ok[d] = num[d+1], den[d+1], ok[d+1]
		switch {
		case obj[d] < 0 || (col[d] > 0 && obj[d] == 0):
			ok[d] = false
		case col[d] > 0 && col[d]*den[d] > num[d]*obj[d]:
			num[d], den[d] = col[d], obj[d]
		}
	}
	return num, den, ok
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// coverBound returns a lower bound on the objective still needed to lift
// every lower-bounded constraint to its bound using variables depth..n-1.
// Covering R units of demand through variables contributing at most num/den
// demand per unit of cost takes at least ceil(R·den/num) objective; the
// bound takes the strongest such estimate across the combined demand and
// each constraint alone.
func (s *search) coverBound(depth int) int {
	bound := 0
	if s.aggOK[depth] && s.aggNum[depth] > 0 {
		need := 0
		for _, c := range s.lowerCs {
			if d := s.m.Constraints[c].Lower - s.sums[c]; d > 0 {
				need += d
			}
		}
		if need > 0 {
			bound = ceilDiv(need*s.aggDen[depth], s.aggNum[depth])
		}
	}
	for li, c := range s.lowerCs {
		if !s.conOK[li][depth] || s.conNum[li][depth] == 0 {
			continue
		}
		need := s.m.Constraints[c].Lower - s.sums[c]
		if need <= 0 {
			continue
		}
		if b := ceilDiv(need*s.conDen[li][depth], s.conNum[li][depth]); b > bound {
			bound = b
		}
	}
	return bound
}

// seedGreedy tries to build a feasible incumbent before the search starts:
// it repeatedly raises the variable covering the most unmet demand per unit
// of objective cost. The incumbent lets the cover bound prune from the first
// node on. Models with negative coefficients are left unseeded; correctness
// never depends on the seed.
func (s *search) seedGreedy() {
	for j := 0; j < s.n; j++ {
		if s.objCoeff[j] < 0 {
			return
		}
	}
	for _, row := range s.coeff {
		for _, k := range row {
			if k < 0 {
				return
			}
		}
	}

	values := make([]int, s.n)
	sums := make([]int, len(s.m.Constraints))

	for {
		unmet := false
		for _, c := range s.lowerCs {
			if sums[c] < s.m.Constraints[c].Lower {
				unmet = true
				break
			}
		}
		if !unmet {
			break
		}

		bestJ, bestAmt, bestScore := -1, 0, 0.0
		for j := 0; j < s.n; j++ {
			amt := s.m.Upper[j] - values[j]
			for c, con := range s.m.Constraints {
				if !con.HasUpper || s.coeff[c][j] == 0 {
					continue
				}
				if room := (con.Upper - sums[c]) / s.coeff[c][j]; room < amt {
					amt = room
				}
			}
			if amt <= 0 {
				continue
			}

			// Raise no further than the hungriest unmet constraint requires.
			useful := 0
			for _, c := range s.lowerCs {
				need := s.m.Constraints[c].Lower - sums[c]
				if need <= 0 || s.coeff[c][j] <= 0 {
					continue
				}
				if u := ceilDiv(need, s.coeff[c][j]); u > useful {
					useful = u
				}
			}
			if useful == 0 {
				continue
			}
			if useful < amt {
				amt = useful
			}

			gain := 0
			for _, c := range s.lowerCs {
				if need := s.m.Constraints[c].Lower - sums[c]; need > 0 {
					if add := s.coeff[c][j] * amt; add < need {
						gain += add
					} else {
						gain += need
					}
				}
			}
			if gain <= 0 {
				continue
			}

			score := math.Inf(1)
			if cost := s.objCoeff[j] * amt; cost > 0 {
				score = float64(gain) / float64(cost)
			}
			if bestJ == -1 || score > bestScore {
				bestJ, bestAmt, bestScore = j, amt, score
			}
		}
		if bestJ == -1 {
			return
		}

		values[bestJ] += bestAmt
		for c := range s.coeff {
			if k := s.coeff[c][bestJ]; k != 0 {
				sums[c] += k * bestAmt
			}
		}
	}

	obj := 0
	for j, v := range values {
		obj += s.objCoeff[j] * v
	}
	s.found = true
	s.bestObj = obj
	copy(s.best, values)
}

// dfs assigns variable depth and recurses. High values are tried first so
// that demand-covering leaves are reached early, tightening the incumbent.
func (s *search) dfs(depth, obj int) {
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.aborted = true
		return
	}

	if depth == s.n {
		// The tail bounds are zero here, so every constraint sum has
		// already been verified against both of its bounds.
		if !s.found || obj < s.bestObj {
			s.found = true
			s.bestObj = obj
			copy(s.best, s.values)
		}
		return
	}

	for v := s.m.Upper[depth]; v >= 0; v-- {
		s.values[depth] = v
		for c := range s.coeff {
			if k := s.coeff[c][depth]; k != 0 {
				s.sums[c] += k * v
			}
		}

		feasible := true
		for c, con := range s.m.Constraints {
			if con.HasUpper && s.sums[c]+s.minTail[c][depth+1] > con.Upper {
				feasible = false
				break
			}
			if con.HasLower && s.sums[c]+s.maxTail[c][depth+1] < con.Lower {
				feasible = false
				break
			}
		}

		next := obj + s.objCoeff[depth]*v
		if feasible && s.found && next+s.objTail[depth+1]+s.coverBound(depth+1) >= s.bestObj {
			feasible = false
		}
		if feasible {
			s.dfs(depth+1, next)
		}

		for c := range s.coeff {
			if k := s.coeff[c][depth]; k != 0 {
				s.sums[c] -= k * v
			}
		}
		if s.aborted {
			return
		}
	}
	s.values[depth] = 0
}
