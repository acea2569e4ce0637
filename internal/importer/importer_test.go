package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Length,Qty\nA,1402,24\nB,2034,21\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Name;Length;Qty\nA;1402;24\nB;2034;21\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tLength\tQty\nA\t1402\t24\nB\t2034\t21\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Name|Length|Qty\nA|1402|24\nB|2034|21\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "Length", "Quantity", "Over"})
	if !isHeader {
		t.Fatal("expected header row to be recognized")
	}
	if mapping.Name != 0 || mapping.Length != 1 || mapping.Quantity != 2 || mapping.Over != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_Aliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Part", "Len", "Pcs", "Surplus"})
	if !isHeader {
		t.Fatal("expected aliased header to be recognized")
	}
	if mapping.Name != 0 || mapping.Length != 1 || mapping.Quantity != 2 || mapping.Over != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_ShuffledHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Qty", "Item", "Length"})
	if !isHeader {
		t.Fatal("expected header row to be recognized")
	}
	if mapping.Quantity != 0 || mapping.Name != 1 || mapping.Length != 2 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.Over != -1 {
		t.Errorf("expected no over column, got %d", mapping.Over)
	}
}

func TestDetectColumns_NoHeaderFallsBackToPositional(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"A", "1402", "24"})
	if isHeader {
		t.Error("data row must not be treated as a header")
	}
	if mapping.Name != 0 || mapping.Length != 1 || mapping.Quantity != 2 || mapping.Over != 3 {
		t.Errorf("unexpected positional mapping: %+v", mapping)
	}
}

// ─── ImportCSV Tests ───────────────────────────────────────

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCSV_WithHeader(t *testing.T) {
	path := writeTempCSV(t, "Name,Length,Qty,Over\nA,1402,24,0\nB,2034,21,2\n")

	result := ImportCSV(path)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].Name != "A" || result.Items[0].Length != 1402 || result.Items[0].MinCount != 24 {
		t.Errorf("unexpected first item: %+v", result.Items[0])
	}
	if result.Items[1].MaxOver != 2 {
		t.Errorf("expected over allowance 2, got %d", result.Items[1].MaxOver)
	}
}

func TestImportCSV_SemicolonNoHeader(t *testing.T) {
	path := writeTempCSV(t, "A;1402;24\nB;2034;21\n")

	result := ImportCSV(path)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
}

func TestImportCSV_DecimalLengths(t *testing.T) {
	// Spreadsheet exports often render whole numbers as decimals.
	path := writeTempCSV(t, "Name,Length,Qty\nA,1300.0,54\n")

	result := ImportCSV(path)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Items[0].Length != 1300 {
		t.Errorf("expected length 1300, got %d", result.Items[0].Length)
	}
}

func TestImportCSV_DuplicateNames(t *testing.T) {
	path := writeTempCSV(t, "Name,Length,Qty\nA,1402,24\nA,2034,21\n")

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Fatal("expected duplicate name error")
	}
	if !strings.Contains(result.Errors[0], "duplicate") {
		t.Errorf("unexpected error: %s", result.Errors[0])
	}
	if len(result.Items) != 1 {
		t.Errorf("expected the first item to survive, got %d", len(result.Items))
	}
}

func TestImportCSV_SkipsBlankAndNamelessRows(t *testing.T) {
	path := writeTempCSV(t, "Name,Length,Qty\nA,1402,24\n,,\n,2034,21\n")

	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(result.Items))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the nameless row")
	}
}

func TestImportCSV_BadValues(t *testing.T) {
	path := writeTempCSV(t, "Name,Length,Qty\nA,notanumber,24\nB,2034,-3\n")

	result := ImportCSV(path)

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── ImportExcel Tests ─────────────────────────────────────

func writeTempXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "items.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportExcel_WithHeader(t *testing.T) {
	path := writeTempXLSX(t, [][]interface{}{
		{"Name", "Length", "Qty", "Over"},
		{"A", 1402, 24, 0},
		{"B", 2034, 21, 1},
		{"C", 1300, 54, 0},
	})

	result := ImportExcel(path)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[2].Name != "C" || result.Items[2].MinCount != 54 {
		t.Errorf("unexpected third item: %+v", result.Items[2])
	}
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
