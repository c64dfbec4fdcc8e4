// Package export provides functionality for exporting packing plans to
// various file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// boxColor represents an RGB color for a placed box.
type boxColor struct {
	R, G, B int
}

var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// placedView joins a placement with its box and oriented dimensions.
type placedView struct {
	Box       model.Box
	Placement model.Placement
	DX        float64
	DY        float64
	DZ        float64
}

// planViews resolves every placement of a plan against its box list and
// returns them sorted by z, then x, then y.
func planViews(plan model.Plan) ([]placedView, error) {
	byID := make(map[string]model.Box, len(plan.Boxes))
	for _, b := range plan.Boxes {
		byID[b.ID] = b
	}
	views := make([]placedView, 0, len(plan.Result.Placements))
	for _, p := range plan.Result.Placements {
		box, ok := byID[p.BoxID]
		if !ok {
			return nil, fmt.Errorf("placement references unknown box %q", p.BoxID)
		}
		dx, dy, dz := p.Orientation.Apply(box)
		views = append(views, placedView{Box: box, Placement: p, DX: dx, DY: dy, DZ: dz})
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].Placement, views[j].Placement
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return views, nil
}

// levels groups placed boxes by the height their base rests on. Each
// distinct z value becomes one drawing level.
func levels(views []placedView) []float64 {
	var zs []float64
	for _, v := range views {
		found := false
		for _, z := range zs {
			if math.Abs(z-v.Placement.Z) < 0.001 {
				found = true
				break
			}
		}
		if !found {
			zs = append(zs, v.Placement.Z)
		}
	}
	sort.Float64s(zs)
	return zs
}

// ExportPDF generates a PDF document for a packing plan. Each stacking
// level is rendered as a top view on its own page, followed by a
// summary page with metrics and the box manifest.
func ExportPDF(path string, plan model.Plan) error {
	views, err := planViews(plan)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, z := range levels(views) {
		pdf.AddPage()
		renderLevelPage(pdf, plan, views, z, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan, views)

	return pdf.OutputFileAndClose(path)
}

// renderLevelPage draws the top view of one stacking level.
func renderLevelPage(pdf *fpdf.Fpdf, plan model.Plan, views []placedView, levelZ float64, levelNum int) {
	bed := plan.Bed

	var onLevel []placedView
	for _, v := range views {
		if math.Abs(v.Placement.Z-levelZ) < 0.001 {
			onLevel = append(onLevel, v)
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Level %d at z=%.0f cm: %s (%.0f x %.0f x %.0f cm)",
		levelNum, levelZ, plan.Name, bed.Length, bed.Width, bed.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes on level: %d | Foot of the bed is on the left", len(onLevel))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/bed.Length, drawHeight/bed.Width)
	canvasW := bed.Length * scale
	canvasH := bed.Width * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Bed interior background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawCornerZones(pdf, bed, scale, offsetX, offsetY, canvasW, canvasH)

	for i, v := range onLevel {
		col := boxColors[i%len(boxColors)]
		bw := v.DX * scale
		bh := v.DY * scale
		bx := offsetX + v.Placement.X*scale
		by := offsetY + v.Placement.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(bx, by, bw, bh, "FD")

		if bw > 15 && bh > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(0, 0, 0)

			label := v.Box.Name
			dims := fmt.Sprintf("%.0fx%.0fx%.0f", v.DX, v.DY, v.DZ)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < bw-2 {
				pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if bh > 14 && dimsW < bw-2 {
				pdf.SetXY(bx+(bw-dimsW)/2, by+bh/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, bed, offsetX, offsetY, canvasW, canvasH)
	drawLevelLegend(pdf, onLevel, offsetY+canvasH+5)
}

// drawCornerZones hatches the wheel-arch squares excluded by the bed's
// corner radius.
func drawCornerZones(pdf *fpdf.Fpdf, bed model.Bed, scale, offsetX, offsetY, canvasW, canvasH float64) {
	r := bed.CornerRadius * scale
	if r <= 0 {
		return
	}
	zones := [][4]float64{
		{offsetX, offsetY, r, r},
		{offsetX + canvasW - r, offsetY, r, r},
		{offsetX, offsetY + canvasH - r, r, r},
		{offsetX + canvasW - r, offsetY + canvasH - r, r, r},
	}
	for _, z := range zones {
		pdf.SetFillColor(255, 200, 200)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.Rect(z[0], z[1], z[2], z[3], "FD")
		drawHatchPattern(pdf, z[0], z[1], z[2], z[3])
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle to indicate
// exclusion zones.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds length and width labels outside the bed
// rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, bed model.Bed, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f cm", bed.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%.0f cm", bed.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLevelLegend renders a compact legend of the boxes on a level.
func drawLevelLegend(pdf *fpdf.Fpdf, onLevel []placedView, startY float64) {
	if len(onLevel) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Boxes placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, v := range onLevel {
		col := boxColors[i%len(boxColors)]
		label := fmt.Sprintf("%s (%.1f kg)", v.Box.Name, v.Box.Weight)
		if v.Placement.Orientation.String() != "lwh" {
			label += " " + v.Placement.Orientation.String()
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with metrics, the placement
// manifest and any unplaced boxes.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Plan, views []placedView) {
	m := plan.Result.Metrics

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary: "+plan.Name, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Boxes Placed", fmt.Sprintf("%d / %d", m.PlacedBoxes, m.TotalBoxes)},
		{"Used Volume", fmt.Sprintf("%.1f%%", m.UsedVolumeRatio*100)},
		{"Free Volume", fmt.Sprintf("%.1f%%", m.FreeVolumeRatio*100)},
		{"Fragmentation", fmt.Sprintf("%.2f", m.FragmentationScore)},
		{"Strategy", string(plan.Settings.Strategy)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placement Manifest", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{60, 45, 50, 30, 35, 30}
	headers := []string{"Box", "Position (x,y,z)", "Oriented Size", "Weight", "Fragility", "Rotation"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, v := range views {
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			v.Box.Name,
			fmt.Sprintf("%.0f, %.0f, %.0f", v.Placement.X, v.Placement.Y, v.Placement.Z),
			fmt.Sprintf("%.0f x %.0f x %.0f cm", v.DX, v.DY, v.DZ),
			fmt.Sprintf("%.1f kg", v.Box.Weight),
			string(v.Box.Fragility),
			v.Placement.Orientation.String(),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(plan.Result.UnplacedBoxIDs) > 0 {
		byID := make(map[string]model.Box, len(plan.Boxes))
		for _, b := range plan.Boxes {
			byID[b.ID] = b
		}

		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Boxes", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, id := range plan.Result.UnplacedBoxIDs {
			box, ok := byID[id]
			text := "- " + id
			if ok {
				text = fmt.Sprintf("- %s: %.0f x %.0f x %.0f cm, %.1f kg", box.Name, box.Length, box.Width, box.Height, box.Weight)
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StackTics - Truck Bed Packing Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle
// dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
