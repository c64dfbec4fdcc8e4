package engine

import (
	"testing"

	"github.com/mazenwkamel/StackTics/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestResolveMaxLoad_DerivesFromFragility(t *testing.T) {
	robust := testBox("a", 10, 10, 10, 1)
	robust.Fragility = model.FragilityRobust
	normal := testBox("b", 10, 10, 10, 1)
	fragile := testBox("c", 10, 10, 10, 1)
	fragile.Fragility = model.FragilityFragile

	assert.Equal(t, 50.0, ResolveMaxLoad(robust))
	assert.Equal(t, 20.0, ResolveMaxLoad(normal))
	assert.Equal(t, 5.0, ResolveMaxLoad(fragile))
}

func TestResolveMaxLoad_ExplicitValueWins(t *testing.T) {
	b := testBox("a", 10, 10, 10, 1)
	b.Fragility = model.FragilityFragile
	limit := 35.0
	b.MaxSupportedLoad = &limit

	assert.Equal(t, 35.0, ResolveMaxLoad(b))
}

func setRotation(b model.Box, x, y, z bool) model.Box {
	b.CanRotateX = x
	b.CanRotateY = y
	b.CanRotateZ = z
	return b
}

func TestAllowedOrientations_FlagGating(t *testing.T) {
	box := testBox("a", 30, 20, 10, 1)

	all := AllowedOrientations(setRotation(box, true, true, true))
	assert.Len(t, all, 6)

	none := AllowedOrientations(setRotation(box, false, false, false))
	assert.Equal(t, []model.Orientation{model.IdentityOrientation()}, none,
		"identity never requires rotation permission")

	// A single flag admits the identity plus the one matching swap.
	onlyZ := AllowedOrientations(setRotation(box, false, false, true))
	assert.Len(t, onlyZ, 2)
	assert.Contains(t, onlyZ, model.Orientation{
		LengthAxis: model.AxisWidth, WidthAxis: model.AxisLength, HeightAxis: model.AxisHeight})

	onlyX := AllowedOrientations(setRotation(box, true, false, false))
	assert.Len(t, onlyX, 2)
	assert.Contains(t, onlyX, model.Orientation{
		LengthAxis: model.AxisLength, WidthAxis: model.AxisHeight, HeightAxis: model.AxisWidth})

	onlyY := AllowedOrientations(setRotation(box, false, true, false))
	assert.Len(t, onlyY, 2)
	assert.Contains(t, onlyY, model.Orientation{
		LengthAxis: model.AxisHeight, WidthAxis: model.AxisWidth, HeightAxis: model.AxisLength})
}

func TestAllowedOrientations_TwoFlagsAdmitCycles(t *testing.T) {
	box := testBox("a", 30, 20, 10, 1)

	// x and z: identity, two single swaps, and both three-cycles; the
	// length/height swap still needs the missing y flag.
	got := AllowedOrientations(setRotation(box, true, false, true))
	assert.Len(t, got, 5)
	assert.NotContains(t, got, model.Orientation{
		LengthAxis: model.AxisHeight, WidthAxis: model.AxisWidth, HeightAxis: model.AxisLength})
	assert.Contains(t, got, model.Orientation{
		LengthAxis: model.AxisWidth, WidthAxis: model.AxisHeight, HeightAxis: model.AxisLength})
	assert.Contains(t, got, model.Orientation{
		LengthAxis: model.AxisHeight, WidthAxis: model.AxisLength, HeightAxis: model.AxisWidth})
}

func TestAllowedOrientations_DeterministicOrder(t *testing.T) {
	box := testBox("a", 30, 20, 10, 1)
	first := AllowedOrientations(box)
	second := AllowedOrientations(box)
	assert.Equal(t, first, second)
	assert.Equal(t, model.IdentityOrientation(), first[0])
}

func TestOrientationApply(t *testing.T) {
	box := testBox("a", 30, 20, 10, 1)

	dx, dy, dz := model.IdentityOrientation().Apply(box)
	assert.Equal(t, [3]float64{30, 20, 10}, [3]float64{dx, dy, dz})

	// Box length along the bed width, width along bed length.
	turned := model.Orientation{
		LengthAxis: model.AxisWidth, WidthAxis: model.AxisLength, HeightAxis: model.AxisHeight}
	dx, dy, dz = turned.Apply(box)
	assert.Equal(t, [3]float64{20, 30, 10}, [3]float64{dx, dy, dz})

	// Box stood on its side: height along bed width.
	tipped := model.Orientation{
		LengthAxis: model.AxisLength, WidthAxis: model.AxisHeight, HeightAxis: model.AxisWidth}
	dx, dy, dz = tipped.Apply(box)
	assert.Equal(t, [3]float64{30, 10, 20}, [3]float64{dx, dy, dz})
}
