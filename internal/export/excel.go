package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fabworks/barcut/internal/engine"
	"github.com/fabworks/barcut/internal/model"
)

// Workbook sheet names.
const (
	sheetProduction = "Production"
	sheetPatterns   = "Patterns"
	sheetStocks     = "Stocks"
)

// WriteWorkbook exports the production analysis and pattern summary tables
// to an Excel workbook, one sheet per table.
func WriteWorkbook(path string, rep engine.Report) error {
	if len(rep.Cuts) == 0 {
		return fmt.Errorf("no cuts to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetProduction); err != nil {
		return err
	}

	prodHeaders := []string{"Item", "Length (mm)", "Required", "Allowed", "Produced", "Status"}
	if err := writeRow(f, sheetProduction, 1, prodHeaders); err != nil {
		return err
	}
	for i, line := range rep.Items {
		row := []interface{}{line.Name, line.Length, line.Required, line.Allowed, line.Produced, line.Status.String()}
		if err := writeValues(f, sheetProduction, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetPatterns); err != nil {
		return err
	}
	patHeaders := []string{"Pattern", "Stock", "Count", "Used (mm)", "Leftover (mm)", "Waste (mm)"}
	if err := writeRow(f, sheetPatterns, 1, patHeaders); err != nil {
		return err
	}
	for i, cut := range rep.Cuts {
		row := []interface{}{cut.Pattern, cut.Stock, cut.Count, cut.UsedLength, cut.Leftover, cut.Waste}
		if err := writeValues(f, sheetPatterns, i+2, row); err != nil {
			return err
		}
	}
	totalRow := []interface{}{"Total", "", rep.StockUnits, "", "", rep.TotalWaste}
	if err := writeValues(f, sheetPatterns, len(rep.Cuts)+2, totalRow); err != nil {
		return err
	}

	if len(rep.Stocks) > 0 {
		if _, err := f.NewSheet(sheetStocks); err != nil {
			return err
		}
		stockHeaders := []string{"Stock", "Length (mm)", "Used", "Supply"}
		if err := writeRow(f, sheetStocks, 1, stockHeaders); err != nil {
			return err
		}
		for i, s := range rep.Stocks {
			supply := interface{}("unlimited")
			if s.Supply != model.UnlimitedSupply {
				supply = s.Supply
			}
			row := []interface{}{s.Stock, s.Length, s.Used, supply}
			if err := writeValues(f, sheetStocks, i+2, row); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeValues(f, sheet, row, values)
}

func writeValues(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
