package engine

import (
	"fmt"
	"sort"

	"github.com/fabworks/barcut/internal/model"
)

// ItemStatus classifies one item's production against its demand window.
type ItemStatus int

const (
	ItemMet     ItemStatus = iota // produced exactly MinCount
	ItemSurplus                   // above MinCount, within the allowance
	ItemDeficit                   // below MinCount — a contract violation
)

func (s ItemStatus) String() string {
	switch s {
	case ItemMet:
		return "met"
	case ItemSurplus:
		return "surplus"
	default:
		return "deficit"
	}
}

// ItemLine is one row of the production analysis.
type ItemLine struct {
	Name     string
	Length   int
	Required int
	Allowed  int // Required plus the surplus allowance
	Produced int
	Status   ItemStatus
}

// CutLine is one row of the pattern summary: a distinct (pattern, stock)
// assignment with its usage count and waste.
type CutLine struct {
	Pattern    string // human-facing description, non-zero counts in item order
	Stock      string
	Count      int
	UsedLength int
	Leftover   int // per stock unit
	Waste      int // Count × Leftover
}

// StockLine is one row of the per-stock consumption summary.
type StockLine struct {
	Stock  string
	Length int
	Used   int
	Supply int // model.UnlimitedSupply when unbounded
}

// Report is the aggregated, presentation-ordered view of a cut plan.
type Report struct {
	RunID      string
	Mode       model.Mode
	Items      []ItemLine
	Cuts       []CutLine
	Stocks     []StockLine
	StockUnits int
	TotalWaste int

	// Assignments holds the plan's assignments in presentation order,
	// parallel to Cuts, for renderers that need the raw pattern data.
	Assignments []model.Assignment
}

// BuildReport aggregates a plan into a report and verifies the plan's
// invariants. A deficit (or any other constraint violation) means the
// optimizer and solver contract was broken; it is returned as
// ErrInternalConsistency, never as a normal report state.
//
// Ordering is a presentation contract the rendering layer depends on:
// single-stock cuts sort by descending count with insertion order breaking
// ties; multi-stock cuts sort by stock name ascending, then count
// descending.
func BuildReport(plan *model.CutPlan) (Report, error) {
	rep := Report{RunID: plan.RunID, Mode: plan.Mode}

	for _, a := range plan.Assignments {
		if !a.Pattern.FitsOn(a.Stock) {
			return Report{}, fmt.Errorf("%w: pattern of %d mm assigned to %d mm stock %q",
				ErrInternalConsistency, a.Pattern.UsedLength, a.Stock.Length, a.Stock.Name)
		}
	}

	produced := plan.Produced()
	for i, it := range plan.Items {
		line := ItemLine{
			Name:     it.Name,
			Length:   it.Length,
			Required: it.MinCount,
			Allowed:  it.MaxCount(),
			Produced: produced[i],
		}
		switch {
		case produced[i] < it.MinCount:
			return Report{}, fmt.Errorf("%w: item %q produced %d, below minimum %d",
				ErrInternalConsistency, it.Name, produced[i], it.MinCount)
		case produced[i] > it.MaxCount():
			return Report{}, fmt.Errorf("%w: item %q produced %d, above allowance %d",
				ErrInternalConsistency, it.Name, produced[i], it.MaxCount())
		case produced[i] == it.MinCount:
			line.Status = ItemMet
		default:
			line.Status = ItemSurplus
		}
		rep.Items = append(rep.Items, line)
	}

	ordered := append([]model.Assignment(nil), plan.Assignments...)
	if plan.Mode == model.ModeMultiStock {
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Stock.Name != ordered[j].Stock.Name {
				return ordered[i].Stock.Name < ordered[j].Stock.Name
			}
			return ordered[i].Count > ordered[j].Count
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Count > ordered[j].Count
		})
	}

	for _, a := range ordered {
		rep.Cuts = append(rep.Cuts, CutLine{
			Pattern:    a.Pattern.Describe(plan.Items),
			Stock:      a.Stock.Name,
			Count:      a.Count,
			UsedLength: a.Pattern.UsedLength,
			Leftover:   a.Leftover(),
			Waste:      a.Waste(),
		})
	}

	rep.Assignments = ordered
	rep.Stocks = stockLines(ordered)
	rep.StockUnits = plan.StockUnits()
	rep.TotalWaste = plan.TotalWaste()
	return rep, nil
}

func stockLines(ordered []model.Assignment) []StockLine {
	var lines []StockLine
	index := make(map[string]int)
	for _, a := range ordered {
		i, ok := index[a.Stock.Name]
		if !ok {
			i = len(lines)
			index[a.Stock.Name] = i
			lines = append(lines, StockLine{
				Stock:  a.Stock.Name,
				Length: a.Stock.Length,
				Supply: a.Stock.Supply,
			})
		}
		lines[i].Used += a.Count
	}
	return lines
}
