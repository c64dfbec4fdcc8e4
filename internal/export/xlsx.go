package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// buildWorkbook renders a plan into an in-memory Excel workbook with a
// manifest sheet and a summary sheet.
func buildWorkbook(plan model.Plan) (*excelize.File, error) {
	views, err := planViews(plan)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	manifest := "Manifest"
	f.SetSheetName(f.GetSheetName(0), manifest)

	headers := []string{"Box", "ID", "X (cm)", "Y (cm)", "Z (cm)", "Length", "Width", "Height", "Weight (kg)", "Fragility", "Access", "Priority", "Rotation"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(manifest, cell, h); err != nil {
			return nil, err
		}
	}

	for row, v := range views {
		values := []interface{}{
			v.Box.Name, v.Box.ID,
			v.Placement.X, v.Placement.Y, v.Placement.Z,
			v.DX, v.DY, v.DZ,
			v.Box.Weight,
			string(v.Box.Fragility), string(v.Box.AccessFrequency), string(v.Box.Priority),
			v.Placement.Orientation.String(),
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(manifest, cell, val); err != nil {
				return nil, err
			}
		}
	}

	summary := "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return nil, err
	}

	m := plan.Result.Metrics
	rows := [][2]interface{}{
		{"Plan", plan.Name},
		{"Bed (L x W x H cm)", fmt.Sprintf("%.0f x %.0f x %.0f", plan.Bed.Length, plan.Bed.Width, plan.Bed.Height)},
		{"Strategy", string(plan.Settings.Strategy)},
		{"Total boxes", m.TotalBoxes},
		{"Placed boxes", m.PlacedBoxes},
		{"Used volume ratio", m.UsedVolumeRatio},
		{"Free volume ratio", m.FreeVolumeRatio},
		{"Fragmentation score", m.FragmentationScore},
	}
	for i, row := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summary, keyCell, row[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(summary, valCell, row[1]); err != nil {
			return nil, err
		}
	}

	if len(plan.Result.UnplacedBoxIDs) > 0 {
		byID := make(map[string]model.Box, len(plan.Boxes))
		for _, b := range plan.Boxes {
			byID[b.ID] = b
		}
		unplaced := "Unplaced"
		if _, err := f.NewSheet(unplaced); err != nil {
			return nil, err
		}
		for i, h := range []string{"Box", "ID", "Length", "Width", "Height", "Weight (kg)"} {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(unplaced, cell, h); err != nil {
				return nil, err
			}
		}
		for row, id := range plan.Result.UnplacedBoxIDs {
			box := byID[id]
			values := []interface{}{box.Name, id, box.Length, box.Width, box.Height, box.Weight}
			for col, val := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				if err := f.SetCellValue(unplaced, cell, val); err != nil {
					return nil, err
				}
			}
		}
	}

	return f, nil
}

// ExportXLSX writes the plan manifest workbook to a file.
func ExportXLSX(path string, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteXLSX streams the plan manifest workbook to a writer.
func WriteXLSX(w io.Writer, plan model.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
