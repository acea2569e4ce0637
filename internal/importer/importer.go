// Package importer reads cutting-run item lists from CSV and Excel files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fabworks/barcut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Length   int
	Quantity int
	Over     int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "item", "part", "piece", "description", "desc"},
	"length":   {"length", "len", "size", "l", "mm"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "min"},
	"over":     {"over", "max over", "over allow", "surplus", "allowance", "extra"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe; the one producing the most consistent
// multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		if weighted := score*10 + firstCols; weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

// DetectColumns examines a header row and returns a ColumnMapping, matching
// case-insensitively against known aliases. When no header is recognized it
// returns the default positional mapping (name, length, quantity, over) and
// false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Length: -1, Quantity: -1, Over: -1}
	isHeader := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				case "over":
					if mapping.Over == -1 {
						mapping.Over = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Length: 1, Quantity: 2, Over: 3}, false
	}
	return mapping, true
}

// ImportCSV imports items from a CSV file with delimiter autodetection.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV file: %v", err))
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse CSV data: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "CSV file is empty")
		return result
	}

	return importFromRows(records, "Line")
}

// ImportExcel imports items from an Excel (.xlsx) file. It reads the first
// sheet and auto-detects the column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row")
}

// importFromRows is the shared import logic for CSV and Excel data. It
// detects headers, maps columns, parses each row into an item, and enforces
// name uniqueness.
func importFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
	}
	if mapping.Name == -1 || mapping.Length == -1 || mapping.Quantity == -1 {
		result.Errors = append(result.Errors,
			"Header must include name, length and quantity columns")
		return result
	}

	seen := make(map[string]bool)
	for rowIdx := start; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}
		where := fmt.Sprintf("%s %d", rowPrefix, rowIdx+1)

		name := cellAt(row, mapping.Name)
		if name == "" {
			result.Warnings = append(result.Warnings, where+": missing name, skipped")
			continue
		}
		if seen[name] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: duplicate item name %q", where, name))
			continue
		}

		length, err := parseCount(cellAt(row, mapping.Length))
		if err != nil || length <= 0 {
			result.Errors = append(result.Errors, where+": length must be a positive integer")
			continue
		}
		quantity, err := parseCount(cellAt(row, mapping.Quantity))
		if err != nil || quantity < 0 {
			result.Errors = append(result.Errors, where+": quantity must be a non-negative integer")
			continue
		}

		over := 0
		if cell := cellAt(row, mapping.Over); cell != "" {
			over, err = parseCount(cell)
			if err != nil || over < 0 {
				result.Errors = append(result.Errors, where+": over allowance must be a non-negative integer")
				continue
			}
		}

		seen[name] = true
		result.Items = append(result.Items, model.Item{
			Name:     name,
			Length:   length,
			MinCount: quantity,
			MaxOver:  over,
		})
	}

	if len(result.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No items found")
	}
	return result
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseCount parses an integer cell, tolerating decimal notation from
// spreadsheet exports ("1300.0") as long as the value is whole.
func parseCount(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole number: %s", s)
	}
	return int(f), nil
}
