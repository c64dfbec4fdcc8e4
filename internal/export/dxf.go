package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// ExportDXF writes a plan as a 2D DXF drawing. The bed outline goes on
// its own layer and every stacking level gets a layer with the top-view
// rectangles of the boxes resting there, so the drawing can be overlaid
// in any CAD viewer.
func ExportDXF(path string, plan model.Plan) error {
	views, err := planViews(plan)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return fmt.Errorf("no placements to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("BED", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add bed layer: %w", err)
	}
	drawBedOutline(d, plan.Bed)

	layerColors := []color.ColorNumber{color.Green, color.Cyan, color.Yellow, color.Magenta, color.Blue}
	for i, z := range levels(views) {
		layer := fmt.Sprintf("LEVEL_%d_Z%.0f", i+1, z)
		col := layerColors[i%len(layerColors)]
		if _, err := d.AddLayer(layer, col, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", layer, err)
		}
		for _, v := range views {
			if math.Abs(v.Placement.Z-z) < 0.001 {
				drawRect(d, v.Placement.X, v.Placement.Y, v.DX, v.DY)
			}
		}
	}

	return d.SaveAs(path)
}

// drawBedOutline draws the bed rectangle and, when a corner radius is
// set, the four wheel-arch circles.
func drawBedOutline(d *drawing.Drawing, bed model.Bed) {
	drawRect(d, 0, 0, bed.Length, bed.Width)

	r := bed.CornerRadius
	if r <= 0 {
		return
	}
	centers := [][2]float64{
		{r, r},
		{bed.Length - r, r},
		{r, bed.Width - r},
		{bed.Length - r, bed.Width - r},
	}
	for _, c := range centers {
		d.Circle(c[0], c[1], 0.0, r) //nolint:errcheck // in-memory drawing, cannot fail
	}
}

// drawRect draws an axis-aligned rectangle as four line entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0.0, x+w, y, 0.0)     //nolint:errcheck
	d.Line(x+w, y, 0.0, x+w, y+h, 0.0) //nolint:errcheck
	d.Line(x+w, y+h, 0.0, x, y+h, 0.0) //nolint:errcheck
	d.Line(x, y+h, 0.0, x, y, 0.0)     //nolint:errcheck
}
