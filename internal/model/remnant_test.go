package model

import (
	"testing"
)

func remnantTestPlan() *CutPlan {
	long := StockType{Name: "Long", Length: 6000, Supply: 10}
	short := StockType{Name: "Short", Length: 4000, Supply: 10}
	items := []Item{{Name: "A", Length: 1000, MinCount: 10}}
	return &CutPlan{
		RunID: "test0001",
		Mode:  ModeMultiStock,
		Items: items,
		Assignments: []Assignment{
			// Leftover 1000 mm, twice.
			{Pattern: &Pattern{Counts: []int{5}, Pieces: 5, UsedLength: 5000}, Stock: long, Count: 2},
			// Leftover 1000 mm on the short stock.
			{Pattern: &Pattern{Counts: []int{3}, Pieces: 3, UsedLength: 3000}, Stock: short, Count: 1},
			// Leftover 40 mm, below any sensible threshold.
			{Pattern: &Pattern{Counts: []int{5}, Pieces: 5, UsedLength: 5960}, Stock: long, Count: 3},
		},
	}
}

func TestDetectRemnantsGroupsAndSorts(t *testing.T) {
	remnants := DetectRemnants(remnantTestPlan(), 100)

	if len(remnants) != 2 {
		t.Fatalf("expected 2 remnant groups, got %d", len(remnants))
	}
	// Equal lengths sort by stock name ascending.
	if remnants[0].StockName != "Long" || remnants[0].Length != 1000 || remnants[0].Count != 2 {
		t.Errorf("unexpected first remnant: %+v", remnants[0])
	}
	if remnants[1].StockName != "Short" || remnants[1].Length != 1000 || remnants[1].Count != 1 {
		t.Errorf("unexpected second remnant: %+v", remnants[1])
	}
	for _, r := range remnants {
		if len(r.ID) != 8 {
			t.Errorf("expected 8-character remnant ID, got %q", r.ID)
		}
	}
}

func TestDetectRemnantsThreshold(t *testing.T) {
	// A 2000 mm threshold filters everything out.
	if got := DetectRemnants(remnantTestPlan(), 2000); len(got) != 0 {
		t.Errorf("expected no remnants above 2000 mm, got %d", len(got))
	}

	// Non-positive threshold falls back to the default minimum, which still
	// excludes the 40 mm leftovers.
	remnants := DetectRemnants(remnantTestPlan(), 0)
	for _, r := range remnants {
		if r.Length < MinRemnantLength {
			t.Errorf("remnant of %d mm below default minimum", r.Length)
		}
	}
}

func TestRemnantToStockType(t *testing.T) {
	r := Remnant{ID: "abcd1234", StockName: "Long", Length: 1000, Count: 2}
	s := r.ToStockType()
	if s.Name != "Remnant Long" {
		t.Errorf("expected name %q, got %q", "Remnant Long", s.Name)
	}
	if s.Length != 1000 || s.Supply != 2 {
		t.Errorf("unexpected stock: %+v", s)
	}
	if s.Unlimited() {
		t.Error("remnant stock must have a finite supply")
	}
}

func TestTotalRemnantLength(t *testing.T) {
	remnants := []Remnant{
		{Length: 1000, Count: 2},
		{Length: 500, Count: 3},
	}
	if got := TotalRemnantLength(remnants); got != 3500 {
		t.Errorf("expected 3500, got %d", got)
	}
}
