package model

import (
	"testing"
)

func TestItemMaxCount(t *testing.T) {
	it := Item{Name: "A", Length: 1402, MinCount: 24, MaxOver: 3}
	if got := it.MaxCount(); got != 27 {
		t.Errorf("expected max count 27, got %d", got)
	}

	exact := NewItem("B", 2034, 21)
	if got := exact.MaxCount(); got != 21 {
		t.Errorf("expected max count 21 with no allowance, got %d", got)
	}
}

func TestItemValidate(t *testing.T) {
	valid := Item{Name: "A", Length: 1000, MinCount: 5, MaxOver: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid item, got %v", err)
	}

	cases := []struct {
		name string
		item Item
	}{
		{"zero length", Item{Name: "A", Length: 0, MinCount: 1}},
		{"negative length", Item{Name: "A", Length: -100, MinCount: 1}},
		{"negative min count", Item{Name: "A", Length: 100, MinCount: -1}},
		{"negative allowance", Item{Name: "A", Length: 100, MinCount: 1, MaxOver: -1}},
	}
	for _, tc := range cases {
		if err := tc.item.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestStockTypeUnlimited(t *testing.T) {
	unlimited := UnlimitedStock("Beam", 6000)
	if !unlimited.Unlimited() {
		t.Error("expected unlimited stock")
	}

	finite := NewStockType("Beam", 6000, 10)
	if finite.Unlimited() {
		t.Error("expected finite stock")
	}
}

func TestStockTypeValidate(t *testing.T) {
	if err := NewStockType("Beam", 6000, 4).Validate(); err != nil {
		t.Errorf("expected valid stock, got %v", err)
	}
	if err := (StockType{Name: "Bad", Length: 0, Supply: 1}).Validate(); err == nil {
		t.Error("expected error for zero length")
	}
	if err := (StockType{Name: "Bad", Length: 1000, Supply: -2}).Validate(); err == nil {
		t.Error("expected error for negative supply")
	}
}

func TestPatternFitsOn(t *testing.T) {
	p := &Pattern{Counts: []int{0, 0, 4}, Pieces: 4, UsedLength: 5220}
	if !p.FitsOn(StockType{Name: "Long", Length: 6000}) {
		t.Error("pattern of 5220 mm should fit 6000 mm stock")
	}
	if p.FitsOn(StockType{Name: "Short", Length: 5000}) {
		t.Error("pattern of 5220 mm should not fit 5000 mm stock")
	}
	if !p.FitsOn(StockType{Name: "Exact", Length: 5220}) {
		t.Error("pattern should fit stock of exactly its used length")
	}
}

func TestPatternDescribe(t *testing.T) {
	items := []Item{
		{Name: "A", Length: 1402},
		{Name: "B", Length: 2034},
		{Name: "C", Length: 1300},
	}

	p := &Pattern{Counts: []int{0, 2, 1}}
	if got := p.Describe(items); got != "B=2, C=1" {
		t.Errorf("expected %q, got %q", "B=2, C=1", got)
	}

	single := &Pattern{Counts: []int{3, 0, 0}}
	if got := single.Describe(items); got != "A=3" {
		t.Errorf("expected %q, got %q", "A=3", got)
	}
}

func TestAssignmentLeftoverAndWaste(t *testing.T) {
	a := Assignment{
		Pattern: &Pattern{Counts: []int{2}, Pieces: 2, UsedLength: 5485},
		Stock:   StockType{Name: "Beam", Length: 6000},
		Count:   3,
	}
	if got := a.Leftover(); got != 515 {
		t.Errorf("expected leftover 515, got %d", got)
	}
	if got := a.Waste(); got != 1545 {
		t.Errorf("expected waste 1545, got %d", got)
	}
}

func TestNewCutPlanAssignsShortRunID(t *testing.T) {
	plan := NewCutPlan(ModeSingleStock, 5, []Item{{Name: "A", Length: 1000, MinCount: 1}})
	if len(plan.RunID) != 8 {
		t.Errorf("expected 8-character run ID, got %q", plan.RunID)
	}
	if plan.Mode != ModeSingleStock {
		t.Errorf("expected single mode, got %q", plan.Mode)
	}
}

func TestCutPlanAggregates(t *testing.T) {
	items := []Item{
		{Name: "A", Length: 1000, MinCount: 5},
		{Name: "B", Length: 800, MinCount: 2},
	}
	beam := StockType{Name: "Beam", Length: 3000, Supply: 10}
	plan := &CutPlan{
		RunID: "test0001",
		Mode:  ModeMultiStock,
		Items: items,
		Assignments: []Assignment{
			{Pattern: &Pattern{Counts: []int{3, 0}, Pieces: 3, UsedLength: 3000}, Stock: beam, Count: 1},
			{Pattern: &Pattern{Counts: []int{1, 2}, Pieces: 3, UsedLength: 2600}, Stock: beam, Count: 2},
		},
	}

	produced := plan.Produced()
	if produced[0] != 5 || produced[1] != 4 {
		t.Errorf("expected produced [5 4], got %v", produced)
	}
	if got := plan.StockUnits(); got != 3 {
		t.Errorf("expected 3 stock units, got %d", got)
	}
	// Two units with 400 mm leftover each, one with none.
	if got := plan.TotalWaste(); got != 800 {
		t.Errorf("expected total waste 800, got %d", got)
	}
	if used := plan.ConsumedSupply(); used["Beam"] != 3 {
		t.Errorf("expected 3 units of Beam consumed, got %d", used["Beam"])
	}
}
