package model

import "github.com/google/uuid"

// Fragility represents how delicate a box is. It determines the default
// maximum load a box can carry when none is given explicitly.
type Fragility string

const (
	FragilityRobust  Fragility = "robust"
	FragilityNormal  Fragility = "normal"
	FragilityFragile Fragility = "fragile"
)

// Level returns the fragility as an ordinal, robust lowest.
func (f Fragility) Level() int {
	switch f {
	case FragilityRobust:
		return 0
	case FragilityFragile:
		return 2
	default:
		return 1
	}
}

// Valid reports whether f is one of the known fragility values.
func (f Fragility) Valid() bool {
	switch f {
	case FragilityRobust, FragilityNormal, FragilityFragile:
		return true
	}
	return false
}

// AccessFrequency represents how often a box needs to be reached.
type AccessFrequency string

const (
	AccessRare      AccessFrequency = "rare"
	AccessSometimes AccessFrequency = "sometimes"
	AccessOften     AccessFrequency = "often"
)

// Factor returns the access frequency as an ordinal, rare lowest.
func (a AccessFrequency) Factor() int {
	switch a {
	case AccessOften:
		return 2
	case AccessSometimes:
		return 1
	default:
		return 0
	}
}

// Valid reports whether a is one of the known access frequency values.
func (a AccessFrequency) Valid() bool {
	switch a {
	case AccessRare, AccessSometimes, AccessOften:
		return true
	}
	return false
}

// Priority marks whether a box must be placed or is merely nice to have.
type Priority string

const (
	PriorityMustFit  Priority = "must_fit"
	PriorityOptional Priority = "optional"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	return p == PriorityMustFit || p == PriorityOptional
}

// Strategy selects the scoring variant used by the placement search.
type Strategy string

const (
	StrategyMaximizeVolume Strategy = "maximize_volume" // Tightest-fit, minimize leftover per cuboid
	StrategyMinimizeHoles  Strategy = "minimize_holes"  // Penalize fragmenting free space into slivers
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	return s == StrategyMaximizeVolume || s == StrategyMinimizeHoles
}

// Bed represents the container space boxes are packed into.
type Bed struct {
	Length       float64 `json:"length"`        // cm, along the bed (foot = x 0)
	Width        float64 `json:"width"`         // cm, across the bed
	Height       float64 `json:"height"`        // cm, vertical clearance
	Margin       float64 `json:"margin"`        // cm, kept clear from all edges
	CornerRadius float64 `json:"corner_radius"` // cm, circular exclusion at each corner
}

// Box represents a single box to be placed. Boxes are immutable inputs;
// the engine only produces derived placement records.
type Box struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Length           float64         `json:"length"` // cm
	Width            float64         `json:"width"`  // cm
	Height           float64         `json:"height"` // cm
	Weight           float64         `json:"weight"` // kg
	Fragility        Fragility       `json:"fragility"`
	AccessFrequency  AccessFrequency `json:"access_frequency"`
	Priority         Priority        `json:"priority"`
	CanRotateX       bool            `json:"can_rotate_x"` // Tip about x: swaps width and height
	CanRotateY       bool            `json:"can_rotate_y"` // Tip about y: swaps length and height
	CanRotateZ       bool            `json:"can_rotate_z"` // Turn about z: swaps length and width
	MaxSupportedLoad *float64        `json:"max_supported_load,omitempty"` // kg, nil = derive from fragility
}

// NewBox creates a box with a generated ID and default attributes.
func NewBox(name string, length, width, height, weight float64) Box {
	return Box{
		ID:              uuid.New().String()[:8],
		Name:            name,
		Length:          length,
		Width:           width,
		Height:          height,
		Weight:          weight,
		Fragility:       FragilityNormal,
		AccessFrequency: AccessSometimes,
		Priority:        PriorityOptional,
		CanRotateX:      true,
		CanRotateY:      true,
		CanRotateZ:      true,
	}
}

// Volume returns the box volume in cubic cm.
func (b Box) Volume() float64 {
	return b.Length * b.Width * b.Height
}

// Settings holds packing preferences for one optimization run.
type Settings struct {
	Strategy                Strategy `json:"strategy"`
	AccessibilityPreference float64  `json:"accessibility_preference"` // 0 = compact, 1 = accessible
	Padding                 float64  `json:"padding"`                  // cm, clearance between boxes
	Margin                  float64  `json:"margin"`                   // cm, added to the bed margin
}

// DefaultSettings returns the settings applied when a request leaves them out.
func DefaultSettings() Settings {
	return Settings{
		Strategy:                StrategyMaximizeVolume,
		AccessibilityPreference: 0.5,
		Padding:                 1.0,
		Margin:                  0.0,
	}
}

// Axis names used by Orientation.
const (
	AxisLength = "length"
	AxisWidth  = "width"
	AxisHeight = "height"
)

// Orientation maps each box dimension onto a bed axis. LengthAxis names the
// bed axis the box's length dimension runs along, and so on. The identity
// orientation maps length to length, width to width, height to height.
type Orientation struct {
	LengthAxis string `json:"length_axis"`
	WidthAxis  string `json:"width_axis"`
	HeightAxis string `json:"height_axis"`
}

// IdentityOrientation returns the orientation with no rotation applied.
func IdentityOrientation() Orientation {
	return Orientation{LengthAxis: AxisLength, WidthAxis: AxisWidth, HeightAxis: AxisHeight}
}

// Apply returns the box's extent along each bed axis (x, y, z) under o.
func (o Orientation) Apply(b Box) (dx, dy, dz float64) {
	assign := func(axis string, dim float64) {
		switch axis {
		case AxisWidth:
			dy = dim
		case AxisHeight:
			dz = dim
		default:
			dx = dim
		}
	}
	assign(o.LengthAxis, b.Length)
	assign(o.WidthAxis, b.Width)
	assign(o.HeightAxis, b.Height)
	return dx, dy, dz
}

// String returns a compact form like "lwh" or "wlh".
func (o Orientation) String() string {
	return o.LengthAxis[:1] + o.WidthAxis[:1] + o.HeightAxis[:1]
}

// Placement records where and how a single box ended up.
type Placement struct {
	BoxID       string      `json:"box_id"`
	X           float64     `json:"x"` // cm along bed length, 0 = foot
	Y           float64     `json:"y"` // cm across bed width, 0 = left edge
	Z           float64     `json:"z"` // cm vertical, 0 = floor
	Orientation Orientation `json:"orientation"`
}

// Metrics summarizes an optimization result.
type Metrics struct {
	TotalBoxes         int     `json:"total_boxes"`
	PlacedBoxes        int     `json:"placed_boxes"`
	UsedVolumeRatio    float64 `json:"used_volume_ratio"`
	FreeVolumeRatio    float64 `json:"free_volume_ratio"`
	FragmentationScore float64 `json:"fragmentation_score"`
}

// OptimizeResult holds the full solution for one run.
type OptimizeResult struct {
	Placements     []Placement `json:"placements"`
	UnplacedBoxIDs []string    `json:"unplaced_box_ids"`
	Metrics        Metrics     `json:"metrics"`
}

// Plan ties a request and its result together for save/load.
type Plan struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Bed      Bed            `json:"bed"`
	Boxes    []Box          `json:"boxes"`
	Settings Settings       `json:"settings"`
	Result   OptimizeResult `json:"result"`
}

// NewPlan creates a named plan with a generated ID.
func NewPlan(name string, bed Bed, boxes []Box, settings Settings, result OptimizeResult) Plan {
	return Plan{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Bed:      bed,
		Boxes:    boxes,
		Settings: settings,
		Result:   result,
	}
}
