package engine

import "github.com/mazenwkamel/StackTics/internal/model"

// Default maximum supported load by fragility, in kg. Process-wide
// constants so the engine stays pure and trivially testable.
var defaultMaxLoad = map[model.Fragility]float64{
	model.FragilityRobust:  50.0,
	model.FragilityNormal:  20.0,
	model.FragilityFragile: 5.0,
}

// ResolveMaxLoad returns the box's max supported load, deriving it from
// fragility when the box does not set one explicitly.
func ResolveMaxLoad(b model.Box) float64 {
	if b.MaxSupportedLoad != nil {
		return *b.MaxSupportedLoad
	}
	if v, ok := defaultMaxLoad[b.Fragility]; ok {
		return v
	}
	return defaultMaxLoad[model.FragilityNormal]
}

// orientationSpec pairs an axis permutation with the rotations needed to
// reach it from the identity. A single swap of length and width is a turn
// about z; width and height about x; length and height about y. The two
// three-cycles decompose into two swaps, so they need two of the flags.
type orientationSpec struct {
	o                model.Orientation
	needX, needY, needZ bool
}

// The fixed enumeration order keeps candidate scanning deterministic.
var orientationSpecs = []orientationSpec{
	{o: model.Orientation{LengthAxis: model.AxisLength, WidthAxis: model.AxisWidth, HeightAxis: model.AxisHeight}},
	{o: model.Orientation{LengthAxis: model.AxisWidth, WidthAxis: model.AxisLength, HeightAxis: model.AxisHeight}, needZ: true},
	{o: model.Orientation{LengthAxis: model.AxisLength, WidthAxis: model.AxisHeight, HeightAxis: model.AxisWidth}, needX: true},
	{o: model.Orientation{LengthAxis: model.AxisHeight, WidthAxis: model.AxisWidth, HeightAxis: model.AxisLength}, needY: true},
	{o: model.Orientation{LengthAxis: model.AxisWidth, WidthAxis: model.AxisHeight, HeightAxis: model.AxisLength}, needZ: true, needX: true},
	{o: model.Orientation{LengthAxis: model.AxisHeight, WidthAxis: model.AxisLength, HeightAxis: model.AxisWidth}, needZ: true, needY: true},
}

// AllowedOrientations returns the axis permutations the box's rotation
// flags admit, in a fixed deterministic order. The identity orientation is
// always included: leaving a box as-is never requires permission. A
// three-cycle is admitted when any two-swap decomposition of it is allowed,
// which amounts to having at least two of the three flags set.
func AllowedOrientations(b model.Box) []model.Orientation {
	flags := 0
	if b.CanRotateX {
		flags++
	}
	if b.CanRotateY {
		flags++
	}
	if b.CanRotateZ {
		flags++
	}

	out := make([]model.Orientation, 0, len(orientationSpecs))
	for _, spec := range orientationSpecs {
		swaps := 0
		if spec.needX {
			swaps++
		}
		if spec.needY {
			swaps++
		}
		if spec.needZ {
			swaps++
		}
		switch swaps {
		case 0:
			out = append(out, spec.o)
		case 1:
			if (spec.needX && b.CanRotateX) || (spec.needY && b.CanRotateY) || (spec.needZ && b.CanRotateZ) {
				out = append(out, spec.o)
			}
		default:
			if flags >= 2 {
				out = append(out, spec.o)
			}
		}
	}
	return out
}
