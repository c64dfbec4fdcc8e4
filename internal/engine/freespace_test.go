package engine

import (
	"testing"

	"github.com/mazenwkamel/StackTics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArea(length, width, height float64) usableArea {
	return newUsableArea(model.Bed{Length: length, Width: width, Height: height}, defaultTestSettings())
}

func TestFreeSpace_CornerOccupyLeavesThreeSlabs(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	fs.occupy(Cuboid{X: 0, Y: 0, Z: 0, Len: 50, Wid: 50, Hei: 50})

	require.Len(t, fs.cuboids, 3)
	assert.Contains(t, fs.cuboids, Cuboid{X: 50, Y: 0, Z: 0, Len: 50, Wid: 100, Hei: 100})
	assert.Contains(t, fs.cuboids, Cuboid{X: 0, Y: 50, Z: 0, Len: 100, Wid: 50, Hei: 100})
	assert.Contains(t, fs.cuboids, Cuboid{X: 0, Y: 0, Z: 50, Len: 100, Wid: 100, Hei: 50})
}

func TestFreeSpace_InteriorOccupyLeavesSixSlabs(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	fs.occupy(Cuboid{X: 30, Y: 30, Z: 30, Len: 20, Wid: 20, Hei: 20})

	assert.Len(t, fs.cuboids, 6)
	var total float64
	for _, c := range fs.cuboids {
		total += c.Volume()
	}
	// Slabs overlap; each of the six keeps the full extent of the
	// original cuboid on its two other axes.
	assert.Greater(t, total, 100.0*100*100-20*20*20)
}

func TestFreeSpace_OccupyIgnoresDisjointRegions(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	before := len(fs.cuboids)
	fs.occupy(Cuboid{X: 200, Y: 200, Z: 0, Len: 10, Wid: 10, Hei: 10})
	assert.Len(t, fs.cuboids, before)
}

func TestFreeSpace_CandidatesScanOrder(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	fs.occupy(Cuboid{X: 0, Y: 0, Z: 0, Len: 60, Wid: 60, Hei: 40})

	cands := fs.candidates()
	require.NotEmpty(t, cands)
	for i := 1; i < len(cands); i++ {
		a, b := cands[i-1], cands[i]
		ordered := a.Z < b.Z ||
			(a.Z == b.Z && a.X < b.X) ||
			(a.Z == b.Z && a.X == b.X && a.Y <= b.Y)
		assert.True(t, ordered, "candidates out of z,x,y order at %d", i)
	}
}

func TestFreeSpace_CandidatesSkipSlivers(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	// Leave a 0.5cm strip along x.
	fs.occupy(Cuboid{X: 0, Y: 0, Z: 0, Len: 99.5, Wid: 100, Hei: 100})

	for _, c := range fs.candidates() {
		assert.GreaterOrEqual(t, c.Len, minUsefulDim)
		assert.GreaterOrEqual(t, c.Wid, minUsefulDim)
		assert.GreaterOrEqual(t, c.Hei, minUsefulDim)
	}
}

func TestFreeSpace_CloneIsIndependent(t *testing.T) {
	fs := newFreeSpace(testArea(100, 100, 100))
	trial := fs.clone()
	trial.occupy(Cuboid{X: 0, Y: 0, Z: 0, Len: 50, Wid: 50, Hei: 50})

	assert.Len(t, fs.cuboids, 1, "trial occupation must not touch the original")
	assert.Greater(t, len(trial.cuboids), 1)
}

func TestPruneContained_DropsNestedAndDuplicate(t *testing.T) {
	big := Cuboid{X: 0, Y: 0, Z: 0, Len: 100, Wid: 100, Hei: 100}
	nested := Cuboid{X: 10, Y: 10, Z: 10, Len: 20, Wid: 20, Hei: 20}
	separate := Cuboid{X: 200, Y: 0, Z: 0, Len: 10, Wid: 10, Hei: 10}

	kept := pruneContained([]Cuboid{big, nested, separate, big})
	assert.ElementsMatch(t, []Cuboid{big, separate}, kept)
}

func TestUsableArea_MarginsShrinkFootprint(t *testing.T) {
	settings := defaultTestSettings()
	settings.Margin = 3
	area := newUsableArea(model.Bed{Length: 200, Width: 150, Height: 30, Margin: 5}, settings)

	assert.Equal(t, 8.0, area.x0)
	assert.Equal(t, 8.0, area.y0)
	assert.Equal(t, 192.0, area.x1)
	assert.Equal(t, 142.0, area.y1)
	assert.Equal(t, 184.0, area.usableLength())
	assert.Equal(t, 134.0, area.usableWidth())
}

func TestViolatesCorners(t *testing.T) {
	area := newUsableArea(model.Bed{Length: 100, Width: 100, Height: 30, CornerRadius: 20}, defaultTestSettings())

	// A footprint hugging the bed corner reaches into the cutout.
	assert.True(t, area.violatesCorners(0, 0, 10, 10))
	assert.True(t, area.violatesCorners(90, 90, 10, 10))

	// Clear of all corner squares.
	assert.False(t, area.violatesCorners(30, 30, 40, 40))

	// Inside the corner square but within the quarter circle.
	assert.False(t, area.violatesCorners(18, 18, 10, 10))

	// No radius, no exclusions.
	plain := newUsableArea(model.Bed{Length: 100, Width: 100, Height: 30}, defaultTestSettings())
	assert.False(t, plain.violatesCorners(0, 0, 10, 10))
}

func TestNewFreeSpace_CarvesCornerSquares(t *testing.T) {
	area := newUsableArea(model.Bed{Length: 100, Width: 100, Height: 30, CornerRadius: 20}, defaultTestSettings())
	fs := newFreeSpace(area)

	for _, c := range fs.candidates() {
		for _, sq := range []Cuboid{
			{X: 0, Y: 0, Z: 0, Len: 20, Wid: 20, Hei: 30},
			{X: 80, Y: 0, Z: 0, Len: 20, Wid: 20, Hei: 30},
			{X: 0, Y: 80, Z: 0, Len: 20, Wid: 20, Hei: 30},
			{X: 80, Y: 80, Z: 0, Len: 20, Wid: 20, Hei: 30},
		} {
			assert.False(t, c.overlaps(sq), "cuboid %+v reaches into corner square %+v", c, sq)
		}
	}
}
