package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item represents one required piece type in a cutting run.
type Item struct {
	Name     string `json:"name" yaml:"name"`
	Length   int    `json:"length" yaml:"length"`       // mm
	MinCount int    `json:"min_count" yaml:"min_count"` // required quantity
	MaxOver  int    `json:"max_over" yaml:"max_over"`   // allowed surplus above MinCount
}

// NewItem creates an Item with no surplus allowance.
func NewItem(name string, length, count int) Item {
	return Item{Name: name, Length: length, MinCount: count}
}

// MaxCount returns the largest acceptable production quantity.
func (it Item) MaxCount() int {
	return it.MinCount + it.MaxOver
}

// Validate reports the first constraint the item violates, or nil.
func (it Item) Validate() error {
	if it.Length <= 0 {
		return fmt.Errorf("item %q: length must be positive, got %d", it.Name, it.Length)
	}
	if it.MinCount < 0 {
		return fmt.Errorf("item %q: min count must not be negative, got %d", it.Name, it.MinCount)
	}
	if it.MaxOver < 0 {
		return fmt.Errorf("item %q: max over must not be negative, got %d", it.Name, it.MaxOver)
	}
	return nil
}

// UnlimitedSupply marks a StockType whose supply is not bounded.
// Only the single-stock optimizer accepts unlimited stock.
const UnlimitedSupply = 0

// StockType represents one kind of raw material bar.
type StockType struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"` // mm
	Supply int    `json:"supply" yaml:"supply"` // available units; UnlimitedSupply = no bound
}

// NewStockType creates a StockType with a finite supply.
func NewStockType(name string, length, supply int) StockType {
	return StockType{Name: name, Length: length, Supply: supply}
}

// UnlimitedStock creates a StockType with no supply bound.
func UnlimitedStock(name string, length int) StockType {
	return StockType{Name: name, Length: length, Supply: UnlimitedSupply}
}

// Unlimited reports whether the stock has no supply bound.
func (s StockType) Unlimited() bool {
	return s.Supply == UnlimitedSupply
}

// Validate reports the first constraint the stock violates, or nil.
func (s StockType) Validate() error {
	if s.Length <= 0 {
		return fmt.Errorf("stock %q: length must be positive, got %d", s.Name, s.Length)
	}
	if s.Supply < 0 {
		return fmt.Errorf("stock %q: supply must not be negative, got %d", s.Name, s.Supply)
	}
	return nil
}

// Pattern is one feasible way to cut pieces from a single stock unit.
// Counts is parallel to the run's item list. UsedLength charges the kerf
// once per piece placed, so UsedLength = Σ count·length + kerf·pieces.
// Patterns are immutable once enumerated and shared by pointer downstream.
type Pattern struct {
	Counts     []int `json:"counts"`
	Pieces     int   `json:"pieces"`
	UsedLength int   `json:"used_length"` // mm
}

// FitsOn reports whether the pattern can be cut from the given stock.
func (p *Pattern) FitsOn(s StockType) bool {
	return p.UsedLength <= s.Length
}

// Describe renders the non-zero piece counts in item order, e.g. "B=2, C=1".
func (p *Pattern) Describe(items []Item) string {
	var b strings.Builder
	for i, c := range p.Counts {
		if c == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", items[i].Name, c)
	}
	return b.String()
}

// Mode tags which optimizer variant produced a CutPlan.
type Mode string

const (
	ModeSingleStock Mode = "single" // one unlimited stock, minimize stock units
	ModeMultiStock  Mode = "multi"  // finite stock supplies, minimize total waste
)

// Assignment says how many stock units of Stock are cut using Pattern.
// An assignment only ever references a pattern that fits its stock.
type Assignment struct {
	Pattern *Pattern  `json:"pattern"`
	Stock   StockType `json:"stock"`
	Count   int       `json:"count"`
}

// Leftover returns the unused length of one stock unit cut this way.
func (a Assignment) Leftover() int {
	return a.Stock.Length - a.Pattern.UsedLength
}

// Waste returns the total unused length across all units of this assignment.
func (a Assignment) Waste() int {
	return a.Count * a.Leftover()
}

// CutPlan is the structured solution of one optimization run. It owns the
// run's inputs and the selected assignments; the reporting layer consumes
// it read-only.
type CutPlan struct {
	RunID       string       `json:"run_id"`
	Mode        Mode         `json:"mode"`
	Kerf        int          `json:"kerf"` // mm lost per piece cut
	Items       []Item       `json:"items"`
	Assignments []Assignment `json:"assignments"`
}

// NewCutPlan creates an empty plan for the given run inputs.
func NewCutPlan(mode Mode, kerf int, items []Item) *CutPlan {
	return &CutPlan{
		RunID: uuid.New().String()[:8],
		Mode:  mode,
		Kerf:  kerf,
		Items: items,
	}
}

// Produced returns the total pieces cut per item, parallel to Items.
func (cp *CutPlan) Produced() []int {
	produced := make([]int, len(cp.Items))
	for _, a := range cp.Assignments {
		for i, c := range a.Pattern.Counts {
			produced[i] += a.Count * c
		}
	}
	return produced
}

// StockUnits returns the total number of stock units consumed.
func (cp *CutPlan) StockUnits() int {
	total := 0
	for _, a := range cp.Assignments {
		total += a.Count
	}
	return total
}

// TotalWaste returns the total unused length across all cuts in mm.
func (cp *CutPlan) TotalWaste() int {
	total := 0
	for _, a := range cp.Assignments {
		total += a.Waste()
	}
	return total
}

// ConsumedSupply returns the number of stock units used per stock name.
func (cp *CutPlan) ConsumedSupply() map[string]int {
	used := make(map[string]int)
	for _, a := range cp.Assignments {
		used[a.Stock.Name] += a.Count
	}
	return used
}
