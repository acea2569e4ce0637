package model

import (
	"sort"

	"github.com/google/uuid"
)

// Remnant represents a usable leftover length from one cutting assignment.
type Remnant struct {
	ID        string `json:"id"`
	StockName string `json:"stock_name"` // which stock type it came from
	Length    int    `json:"length"`     // usable leftover length (mm)
	Count     int    `json:"count"`      // how many identical leftovers exist
}

// MinRemnantLength is the minimum leftover length (in mm) for a piece to be
// considered a reusable remnant. Shorter leftovers are waste.
const MinRemnantLength = 100

// ToStockType converts a remnant batch into a stock type for a future run.
func (r Remnant) ToStockType() StockType {
	return StockType{
		Name:   "Remnant " + r.StockName,
		Length: r.Length,
		Supply: r.Count,
	}
}

// DetectRemnants scans a cut plan for leftovers of at least minLength and
// groups identical ones per (stock, length). Results are sorted by length
// descending (largest remnants first).
func DetectRemnants(plan *CutPlan, minLength int) []Remnant {
	if minLength <= 0 {
		minLength = MinRemnantLength
	}

	type key struct {
		stock  string
		length int
	}
	grouped := make(map[key]int)
	for _, a := range plan.Assignments {
		left := a.Leftover()
		if left < minLength {
			continue
		}
		grouped[key{a.Stock.Name, left}] += a.Count
	}

	remnants := make([]Remnant, 0, len(grouped))
	for k, count := range grouped {
		remnants = append(remnants, Remnant{
			ID:        uuid.New().String()[:8],
			StockName: k.stock,
			Length:    k.length,
			Count:     count,
		})
	}

	sort.Slice(remnants, func(i, j int) bool {
		if remnants[i].Length != remnants[j].Length {
			return remnants[i].Length > remnants[j].Length
		}
		return remnants[i].StockName < remnants[j].StockName
	})

	return remnants
}

// TotalRemnantLength returns the total reusable length across all remnants.
func TotalRemnantLength(remnants []Remnant) int {
	total := 0
	for _, r := range remnants {
		total += r.Length * r.Count
	}
	return total
}
