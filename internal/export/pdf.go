// Package export renders cut plans to PDF layout diagrams, Excel workbooks
// and QR-coded cut labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/fabworks/barcut/internal/engine"
	"github.com/fabworks/barcut/internal/model"
)

// pieceColor represents an RGB color for one item's pieces in the diagram.
type pieceColor struct {
	R, G, B int
}

// pieceColors cycles per item, in item order.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// leftoverColor marks the unused tail of each bar.
var leftoverColor = pieceColor{R: 244, G: 67, B: 54} // red

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 16.0 // caption plus bar
	barHeight    = 7.0
	drawAreaTop  = marginTop + headerHeight + 3.0
)

// barsPerPage is how many assignment bars fit on one page.
var barsPerPage = int(math.Floor((pageHeight - drawAreaTop - marginBottom) / rowHeight))

// WritePDF renders the cutting layout: one horizontal bar per distinct
// assignment with colored piece segments and a red leftover tail, followed
// by a summary page. Bars appear in the report's presentation order.
func WritePDF(path string, plan *model.CutPlan, rep engine.Report) error {
	if len(rep.Assignments) == 0 {
		return fmt.Errorf("no cuts to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	// One scale for every bar, so lengths compare visually across stocks.
	longest := 0
	for _, a := range rep.Assignments {
		if a.Stock.Length > longest {
			longest = a.Stock.Length
		}
	}
	scale := (pageWidth - marginLeft - marginRight) / float64(longest)

	for i, a := range rep.Assignments {
		if i%barsPerPage == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, plan, i/barsPerPage+1)
		}
		y := drawAreaTop + float64(i%barsPerPage)*rowHeight
		renderAssignmentBar(pdf, plan, a, i+1, y, scale)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, rep)

	return pdf.OutputFileAndClose(path)
}

func renderPageHeader(pdf *fpdf.Fpdf, plan *model.CutPlan, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting layout — run %s (%s, kerf %d mm), page %d",
		plan.RunID, plan.Mode, plan.Kerf, pageNum)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

// renderAssignmentBar draws one caption line and one stock bar: pieces in
// item order, each segment including its kerf share, then the leftover tail.
func renderAssignmentBar(pdf *fpdf.Fpdf, plan *model.CutPlan, a model.Assignment, num int, y, scale float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(marginLeft, y)
	caption := fmt.Sprintf("Pattern %02d ×%d on %s: %s | used %d mm | leftover %d mm",
		num, a.Count, a.Stock.Name, a.Pattern.Describe(plan.Items), a.Pattern.UsedLength, a.Leftover())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, caption, "", 0, "L", false, 0, "")

	barY := y + 5.0
	x := marginLeft
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)

	for i, count := range a.Pattern.Counts {
		if count == 0 {
			continue
		}
		color := pieceColors[i%len(pieceColors)]
		pdf.SetFillColor(color.R, color.G, color.B)
		segment := float64(plan.Items[i].Length+plan.Kerf) * scale
		for p := 0; p < count; p++ {
			pdf.Rect(x, barY, segment, barHeight, "FD")
			if segment > 8 {
				pdf.SetFont("Helvetica", "", 6)
				pdf.SetTextColor(0, 0, 0)
				pdf.SetXY(x, barY+barHeight/2-1.5)
				pdf.CellFormat(segment, 3, plan.Items[i].Name, "", 0, "C", false, 0, "")
			}
			x += segment
		}
	}

	if left := a.Leftover(); left > 0 {
		pdf.SetFillColor(leftoverColor.R, leftoverColor.G, leftoverColor.B)
		pdf.Rect(x, barY, float64(left)*scale, barHeight, "FD")
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, plan *model.CutPlan, rep engine.Report) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Production summary", "", 1, "L", false, 0, "")

	colWidths := []float64{60, 30, 30, 30, 30, 25}
	headers := []string{"Item", "Length", "Required", "Allowed", "Produced", "Status"}

	y := drawAreaTop
	pdf.SetFont("Helvetica", "B", 9)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "L", false, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range rep.Items {
		cells := []string{
			line.Name,
			fmt.Sprintf("%d mm", line.Length),
			fmt.Sprintf("%d", line.Required),
			fmt.Sprintf("%d", line.Allowed),
			fmt.Sprintf("%d", line.Produced),
			line.Status.String(),
		}
		x = marginLeft
		for i, c := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "L", false, 0, "")
			x += colWidths[i]
		}
		y += 6
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	totals := fmt.Sprintf("Stock units: %d | Total waste: %d mm", rep.StockUnits, rep.TotalWaste)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, totals, "", 1, "L", false, 0, "")

	if len(rep.Stocks) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "", 9)
		for _, s := range rep.Stocks {
			pdf.SetXY(marginLeft, y)
			supply := "unlimited"
			if s.Supply != model.UnlimitedSupply {
				supply = fmt.Sprintf("%d", s.Supply)
			}
			pdf.CellFormat(pageWidth-marginLeft-marginRight, 5,
				fmt.Sprintf("%s (%d mm): used %d of %s", s.Stock, s.Length, s.Used, supply),
				"", 1, "L", false, 0, "")
			y += 5
		}
	}
}
