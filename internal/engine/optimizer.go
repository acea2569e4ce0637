// Package engine implements the cutting-stock core: exhaustive pattern
// enumeration, the single- and multi-stock integer programs built on top of
// it, and the solution reporter. The solver itself is an external oracle
// (see the solve package); the engine only formulates models and interprets
// results.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/fabworks/barcut/internal/model"
	"github.com/fabworks/barcut/internal/solve"
)

// RunState tracks an optimization run through its lifecycle. The oracle is
// invoked only in StateSolving; StateOptimal is the only state that yields
// a populated plan.
type RunState int

const (
	StateBuilt RunState = iota
	StateSolving
	StateOptimal
	StateInfeasible
	StateSolverError
)

func (s RunState) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateSolving:
		return "solving"
	case StateOptimal:
		return "optimal"
	case StateInfeasible:
		return "infeasible"
	default:
		return "solver-error"
	}
}

// Outcome describes one optimization run: its terminal state, the plan (empty
// unless optimal) and the diagnostics a user needs to adjust inputs.
type Outcome struct {
	State    RunState
	Plan     *model.CutPlan
	Patterns int // feasible patterns enumerated
	Vars     int // assignment variables instantiated
	Nodes    int // solver search nodes, when the oracle reports them
}

// Optimizer formulates cutting-stock integer programs and drives the oracle.
// Each call is an independent run: nothing is cached or shared across runs.
type Optimizer struct {
	Oracle solve.Oracle
}

// New returns an Optimizer backed by the given oracle, defaulting to the
// exact backtracking solver when nil.
func New(oracle solve.Oracle) *Optimizer {
	if oracle == nil {
		oracle = solve.Backtracking{}
	}
	return &Optimizer{Oracle: oracle}
}

// OptimizeSingle cuts all demand from one stock type with unlimited supply,
// minimizing the number of stock units used.
func (o *Optimizer) OptimizeSingle(items []model.Item, stock model.StockType, kerf int) (Outcome, error) {
	// Supply plays no role in this variant.
	stock.Supply = model.UnlimitedSupply
	return o.run(singleStock{stock: stock}, items, kerf)
}

// OptimizeMulti cuts demand from several finite-supply stock types,
// minimizing total waste across all cuts.
func (o *Optimizer) OptimizeMulti(items []model.Item, stocks []model.StockType, kerf int) (Outcome, error) {
	return o.run(multiStock{stocks: stocks}, items, kerf)
}

// assignVar is one decision variable: how many units of stock are cut with
// pattern.
type assignVar struct {
	pattern *model.Pattern
	stock   model.StockType
}

// stockPolicy abstracts what differs between the two formulations: the
// usable length patterns are enumerated against, which (pattern, stock)
// pairs become variables, their objective cost, and any supply constraints.
type stockPolicy interface {
	mode() model.Mode
	maxLength() int
	validate() error
	variables(patterns []*model.Pattern) []assignVar
	cost(v assignVar) int
	addSupplyConstraints(m *solve.Model, vars []assignVar)
}

func (o *Optimizer) run(pol stockPolicy, items []model.Item, kerf int) (Outcome, error) {
	out := Outcome{State: StateBuilt}

	if len(items) == 0 {
		return out, fmt.Errorf("%w: no items", ErrInvalidInput)
	}
	if kerf < 0 {
		return out, fmt.Errorf("%w: kerf must not be negative, got %d", ErrInvalidInput, kerf)
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if err := pol.validate(); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	patterns := EnumeratePatterns(items, pol.maxLength(), kerf)
	out.Patterns = len(patterns)
	if len(patterns) == 0 {
		return out, fmt.Errorf("%w: no combination of pieces fits within %d mm",
			ErrEmptyPatternSpace, pol.maxLength())
	}

	// Fullest patterns first: the oracle's high-first descent then reaches
	// dense covers early and tightens its incumbent sooner.
	ordered := append([]*model.Pattern(nil), patterns...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UsedLength > ordered[j].UsedLength
	})

	vars := pol.variables(ordered)
	out.Vars = len(vars)

	m := solve.NewModel()
	for _, v := range vars {
		m.AddVar(usageBound(items, v))
	}
	for i, it := range items {
		var terms []solve.Term
		for j, v := range vars {
			if c := v.pattern.Counts[i]; c > 0 {
				terms = append(terms, solve.Term{Var: j, Coeff: c})
			}
		}
		m.AddConstraint(solve.Constraint{
			Terms:    terms,
			Lower:    it.MinCount,
			HasLower: true,
			Upper:    it.MaxCount(),
			HasUpper: true,
		})
	}
	pol.addSupplyConstraints(m, vars)
	for j, v := range vars {
		if c := pol.cost(v); c != 0 {
			m.Objective = append(m.Objective, solve.Term{Var: j, Coeff: c})
		}
	}

	out.State = StateSolving
	res := o.Oracle.Solve(m)
	out.Nodes = res.Nodes

	switch res.Status {
	case solve.StatusOptimal:
		out.State = StateOptimal
	case solve.StatusInfeasible:
		out.State = StateInfeasible
		out.Plan = model.NewCutPlan(pol.mode(), kerf, items)
		return out, fmt.Errorf("%w: %d patterns, %d variables, %d demand constraints",
			ErrInfeasible, out.Patterns, out.Vars, len(items))
	default:
		out.State = StateSolverError
		out.Plan = model.NewCutPlan(pol.mode(), kerf, items)
		return out, fmt.Errorf("%w: solver reported %s after %d nodes",
			ErrSolver, res.Status, res.Nodes)
	}

	plan := model.NewCutPlan(pol.mode(), kerf, items)
	for j, v := range vars {
		if res.Values[j] > 0 {
			plan.Assignments = append(plan.Assignments, model.Assignment{
				Pattern: v.pattern,
				Stock:   v.stock,
				Count:   res.Values[j],
			})
		}
	}
	out.Plan = plan
	return out, nil
}

// usageBound derives a finite domain for an assignment variable from the
// demand windows: x·count_i can never exceed item i's maximum production.
// The supply bound applies on top for finite stocks. No solution is lost,
// since every value above the bound violates a constraint anyway.
func usageBound(items []model.Item, v assignVar) int {
	bound := math.MaxInt
	for i, c := range v.pattern.Counts {
		if c > 0 {
			if b := items[i].MaxCount() / c; b < bound {
				bound = b
			}
		}
	}
	if !v.stock.Unlimited() && v.stock.Supply < bound {
		bound = v.stock.Supply
	}
	return bound
}

// singleStock formulates one implicit unlimited stock; the objective is the
// number of stock units consumed.
type singleStock struct {
	stock model.StockType
}

func (p singleStock) mode() model.Mode { return model.ModeSingleStock }

func (p singleStock) maxLength() int { return p.stock.Length }

func (p singleStock) validate() error { return p.stock.Validate() }

func (p singleStock) variables(patterns []*model.Pattern) []assignVar {
	vars := make([]assignVar, len(patterns))
	for i, pat := range patterns {
		vars[i] = assignVar{pattern: pat, stock: p.stock}
	}
	return vars
}

func (p singleStock) cost(assignVar) int { return 1 }

func (p singleStock) addSupplyConstraints(*solve.Model, []assignVar) {}

// multiStock formulates pattern-to-stock assignment across finite supplies;
// the objective is total waste, which also prices the choice among stock
// types of different lengths.
type multiStock struct {
	stocks []model.StockType
}

func (p multiStock) mode() model.Mode { return model.ModeMultiStock }

func (p multiStock) maxLength() int {
	longest := 0
	for _, s := range p.stocks {
		if s.Length > longest {
			longest = s.Length
		}
	}
	return longest
}

func (p multiStock) validate() error {
	if len(p.stocks) == 0 {
		return fmt.Errorf("no stock types")
	}
	for _, s := range p.stocks {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.Unlimited() {
			return fmt.Errorf("stock %q: multi-stock runs require a finite supply", s.Name)
		}
	}
	return nil
}

// variables instantiates only (pattern, stock) pairs the pattern fits on.
// Infeasible pairs never become variables, keeping the model exactly as
// large as the true feasible set.
func (p multiStock) variables(patterns []*model.Pattern) []assignVar {
	var vars []assignVar
	for _, s := range p.stocks {
		for _, pat := range patterns {
			if pat.FitsOn(s) {
				vars = append(vars, assignVar{pattern: pat, stock: s})
			}
		}
	}
	return vars
}

func (p multiStock) cost(v assignVar) int {
	return v.stock.Length - v.pattern.UsedLength
}

func (p multiStock) addSupplyConstraints(m *solve.Model, vars []assignVar) {
	for _, s := range p.stocks {
		var terms []solve.Term
		for j, v := range vars {
			if v.stock.Name == s.Name {
				terms = append(terms, solve.Term{Var: j, Coeff: 1})
			}
		}
		if len(terms) > 0 {
			m.AddConstraint(solve.Constraint{
				Terms:    terms,
				Upper:    s.Supply,
				HasUpper: true,
			})
		}
	}
}
