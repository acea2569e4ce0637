// BarCut — 1D cutting-stock optimizer.
//
// Reads a run definition (items, stocks, kerf) from a JSON/YAML run file or
// imports an item list from CSV/Excel, computes the optimal set of cutting
// patterns, prints the plan, and optionally writes PDF, Excel and label
// outputs.
//
// Build:
//
//	go build -o barcut ./cmd/barcut
//
// Examples:
//
//	barcut -run examples/beams.yaml -pdf layout.pdf
//	barcut -items cutlist.csv -stock-length 6000 -kerf 5 -xlsx plan.xlsx
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fabworks/barcut/internal/engine"
	"github.com/fabworks/barcut/internal/export"
	"github.com/fabworks/barcut/internal/importer"
	"github.com/fabworks/barcut/internal/model"
	"github.com/fabworks/barcut/internal/project"
	"github.com/fabworks/barcut/internal/solve"
)

func main() {
	log.SetFlags(0)

	runPath := flag.String("run", "", "run file (.json, .yaml)")
	itemsPath := flag.String("items", "", "import items from a CSV or Excel file instead of a run file")
	stockLength := flag.Int("stock-length", 6000, "stock length in mm for -items runs")
	kerf := flag.Int("kerf", 0, "kerf loss per cut in mm for -items runs")
	pdfPath := flag.String("pdf", "", "write the cutting layout PDF to this path")
	xlsxPath := flag.String("xlsx", "", "write the plan workbook to this path")
	labelsPath := flag.String("labels", "", "write QR cut labels PDF to this path")
	maxPatterns := flag.Int("max-patterns", 1_000_000, "refuse runs whose pattern candidate space exceeds this")
	maxNodes := flag.Int("max-nodes", 20_000_000, "solver search node budget before giving up, 0 = unlimited")
	remnantMin := flag.Int("remnant-min", model.MinRemnantLength, "minimum leftover length (mm) to list as a reusable remnant")
	flag.Parse()

	spec, err := loadSpec(*runPath, *itemsPath, *stockLength, *kerf)
	if err != nil {
		log.Fatal(err)
	}

	// The enumerator has no internal guard, so the candidate space is
	// bounded here before any work starts.
	longest := 0
	for _, s := range spec.Stocks {
		if s.Length > longest {
			longest = s.Length
		}
	}
	if size := engine.PatternSpaceSize(spec.Items, longest); size > *maxPatterns {
		log.Fatalf("run would enumerate %d pattern candidates (limit %d); reduce items or stock length, or raise -max-patterns", size, *maxPatterns)
	}

	opt := engine.New(solve.Backtracking{MaxNodes: *maxNodes})

	var outcome engine.Outcome
	if spec.Mode == model.ModeMultiStock {
		outcome, err = opt.OptimizeMulti(spec.Items, spec.Stocks, spec.Kerf)
	} else {
		outcome, err = opt.OptimizeSingle(spec.Items, spec.Stocks[0], spec.Kerf)
	}
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrEmptyPatternSpace):
			log.Fatalf("%v — every item is longer than the usable stock", err)
		case errors.Is(err, engine.ErrInfeasible):
			log.Fatalf("%v — demand cannot be met with the given stock; raise supply or allowances", err)
		case errors.Is(err, engine.ErrSolver):
			log.Fatalf("%v — raise -max-nodes or simplify the run", err)
		default:
			log.Fatal(err)
		}
	}

	rep, err := engine.BuildReport(outcome.Plan)
	if err != nil {
		log.Fatal(err)
	}

	printReport(rep, outcome)

	if remnants := model.DetectRemnants(outcome.Plan, *remnantMin); len(remnants) > 0 {
		fmt.Println("\nReusable remnants:")
		for _, r := range remnants {
			fmt.Printf("  %d × %d mm (from %s)\n", r.Count, r.Length, r.StockName)
		}
	}

	if *pdfPath != "" {
		if err := export.WritePDF(*pdfPath, outcome.Plan, rep); err != nil {
			log.Fatalf("pdf export: %v", err)
		}
		fmt.Printf("\nLayout written to %s\n", *pdfPath)
	}
	if *xlsxPath != "" {
		if err := export.WriteWorkbook(*xlsxPath, rep); err != nil {
			log.Fatalf("excel export: %v", err)
		}
		fmt.Printf("Workbook written to %s\n", *xlsxPath)
	}
	if *labelsPath != "" {
		if err := export.WriteLabels(*labelsPath, rep); err != nil {
			log.Fatalf("label export: %v", err)
		}
		fmt.Printf("Labels written to %s\n", *labelsPath)
	}
}

// loadSpec builds the run definition from either a run file or an imported
// item list with the quick-run flags.
func loadSpec(runPath, itemsPath string, stockLength, kerf int) (project.RunSpec, error) {
	switch {
	case runPath != "" && itemsPath != "":
		return project.RunSpec{}, fmt.Errorf("use either -run or -items, not both")
	case runPath != "":
		return project.LoadRunSpec(runPath)
	case itemsPath != "":
		var result importer.ImportResult
		if strings.EqualFold(filepath.Ext(itemsPath), ".xlsx") {
			result = importer.ImportExcel(itemsPath)
		} else {
			result = importer.ImportCSV(itemsPath)
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		if len(result.Errors) > 0 {
			return project.RunSpec{}, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
		}
		spec := project.RunSpec{
			Name:   filepath.Base(itemsPath),
			Mode:   model.ModeSingleStock,
			Kerf:   kerf,
			Items:  result.Items,
			Stocks: []model.StockType{model.UnlimitedStock("Stock", stockLength)},
		}
		return spec, spec.Validate()
	default:
		return project.RunSpec{}, fmt.Errorf("no input: pass -run <file> or -items <file> (see -help)")
	}
}

func printReport(rep engine.Report, outcome engine.Outcome) {
	fmt.Printf("Run %s (%s): %d stock units, %d mm waste — %d patterns, %d variables\n\n",
		rep.RunID, rep.Mode, rep.StockUnits, rep.TotalWaste, outcome.Patterns, outcome.Vars)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ITEM\tLENGTH\tREQUIRED\tPRODUCED\tSTATUS")
	for _, line := range rep.Items {
		fmt.Fprintf(w, "%s\t%d mm\t%d\t%d\t%s\n",
			line.Name, line.Length, line.Required, line.Produced, line.Status)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PATTERN\tSTOCK\tCOUNT\tUSED\tLEFTOVER")
	for _, cut := range rep.Cuts {
		fmt.Fprintf(w, "%s\t%s\t×%d\t%d mm\t%d mm\n",
			cut.Pattern, cut.Stock, cut.Count, cut.UsedLength, cut.Leftover)
	}

	if len(rep.Stocks) > 0 && rep.Mode == model.ModeMultiStock {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "STOCK\tLENGTH\tUSED\tSUPPLY")
		for _, s := range rep.Stocks {
			fmt.Fprintf(w, "%s\t%d mm\t%d\t%d\n", s.Stock, s.Length, s.Used, s.Supply)
		}
	}

	w.Flush()
}
