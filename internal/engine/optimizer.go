// Package engine implements the placement engine: given a bed interior, a
// list of boxes and packing settings it produces non-overlapping placements,
// the boxes that could not fit, and summary metrics. Each run is a pure,
// synchronous computation over immutable inputs; concurrent runs need no
// coordination.
package engine

import (
	"fmt"
	"math"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// Optimizer runs the 3D placement algorithm.
type Optimizer struct {
	Settings model.Settings
}

func New(settings model.Settings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// smallFragmentRatio is the share of the usable volume below which a free
// cuboid counts as a hole for the minimize_holes strategy.
const smallFragmentRatio = 0.05

// Zone accessibility ranks, best (foot) to worst (head).
const (
	zoneFoot = iota
	zoneEdge
	zoneCenter
	zoneHead
)

// candidate is one feasible cuboid/orientation pair under evaluation.
type candidate struct {
	region      Cuboid // oriented box extents at the cuboid origin
	padded      Cuboid // region expanded by padding toward +x/+y
	orientation model.Orientation
	supports    []support
	score       float64
}

// Optimize places the boxes into the bed interior and reports the result.
// Boxes that fit nowhere end up in UnplacedBoxIDs; that is a normal
// outcome, not an error. An error is returned only for malformed input.
func (o *Optimizer) Optimize(bed model.Bed, boxes []model.Box) (model.OptimizeResult, error) {
	if err := validateInput(bed, boxes, o.Settings); err != nil {
		return model.OptimizeResult{}, err
	}

	area := newUsableArea(bed, o.Settings)
	fs := newFreeSpace(area)

	placed := make([]placedBox, 0, len(boxes))
	unplaced := make([]string, 0)

	for _, box := range rankBoxes(boxes) {
		best, ok := o.searchPlacement(box, fs, placed)
		if !ok {
			unplaced = append(unplaced, box.ID)
			continue
		}

		placement := model.Placement{
			BoxID:       box.ID,
			X:           best.region.X,
			Y:           best.region.Y,
			Z:           best.region.Z,
			Orientation: best.orientation,
		}
		placed = append(placed, placedBox{
			box:       box,
			placement: placement,
			region:    best.region,
			maxLoad:   ResolveMaxLoad(box),
			supports:  best.supports,
		})

		totalFrac := 0.0
		for _, s := range best.supports {
			totalFrac += s.frac
		}
		for _, s := range best.supports {
			addLoad(placed, s.idx, box.Weight*s.frac/totalFrac)
		}

		fs.occupy(best.padded)
	}

	placements := make([]model.Placement, len(placed))
	for i, p := range placed {
		placements[i] = p.placement
	}

	return model.OptimizeResult{
		Placements:     placements,
		UnplacedBoxIDs: unplaced,
		Metrics:        computeMetrics(len(boxes), placed, area, fs),
	}, nil
}

// searchPlacement scans free cuboids and allowed orientations for the best
// feasible, validator-approved position for the box.
func (o *Optimizer) searchPlacement(box model.Box, fs *freeSpace, placed []placedBox) (candidate, bool) {
	pad := o.Settings.Padding
	orientations := AllowedOrientations(box)

	var best candidate
	found := false

	for _, cub := range fs.candidates() {
		for _, orient := range orientations {
			dx, dy, dz := orient.Apply(box)
			if dx+pad > cub.Len+geomEps || dy+pad > cub.Wid+geomEps || dz > cub.Hei+geomEps {
				continue
			}

			region := Cuboid{X: cub.X, Y: cub.Y, Z: cub.Z, Len: dx, Wid: dy, Hei: dz}
			if fs.area.violatesCorners(region.X, region.Y, dx, dy) {
				continue
			}

			// Padding is lateral clearance only: boxes stack in direct
			// vertical contact, otherwise nothing could ever rest on a
			// supporter's top face.
			padded := Cuboid{X: region.X, Y: region.Y, Z: region.Z, Len: dx + pad, Wid: dy + pad, Hei: dz}
			if overlapsAny(padded, placed) {
				continue
			}

			var supports []support
			if region.Z > geomEps {
				var ok bool
				supports, ok = validateStacking(box, region, placed)
				if !ok {
					continue
				}
			}

			c := candidate{
				region:      region,
				padded:      padded,
				orientation: orient,
				supports:    supports,
				score:       o.scoreCandidate(box, region, padded, cub, fs),
			}
			if !found || better(c, best) {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// better reports whether a beats b: lower score, ties broken by lowest z,
// then x, then y. Remaining exact ties keep the earlier candidate, which
// the deterministic scan order makes reproducible.
func better(a, b candidate) bool {
	if math.Abs(a.score-b.score) > geomEps {
		return a.score < b.score
	}
	if a.region.Z != b.region.Z {
		return a.region.Z < b.region.Z
	}
	if a.region.X != b.region.X {
		return a.region.X < b.region.X
	}
	return a.region.Y < b.region.Y
}

// scoreCandidate blends the strategy score with the accessibility score.
// Lower is better for both.
func (o *Optimizer) scoreCandidate(box model.Box, region, padded, chosen Cuboid, fs *freeSpace) float64 {
	var strategyScore float64
	switch o.Settings.Strategy {
	case model.StrategyMinimizeHoles:
		// Trial-occupy and count the small fragments the placement would
		// leave behind.
		trial := fs.clone()
		trial.occupy(padded)
		threshold := smallFragmentRatio * fs.area.volume()
		count := 0
		for _, c := range trial.cuboids {
			if c.Volume() < threshold {
				count++
			}
		}
		strategyScore = float64(count)
	default: // maximize_volume: best fit, least leftover in the chosen cuboid
		strategyScore = (chosen.Volume() - region.Volume()) / fs.area.volume()
	}
	return strategyScore + o.accessScore(box, region, fs.area)
}

// accessScore penalizes placements far from the accessible foot edge in
// proportion to the accessibility preference, weighted by how often the
// box is needed and whether it must fit.
func (o *Optimizer) accessScore(box model.Box, region Cuboid, area usableArea) float64 {
	pref := o.Settings.AccessibilityPreference
	if pref <= 0 {
		return 0
	}
	freq := [3]float64{0.2, 0.5, 1.0}[box.AccessFrequency.Factor()]
	prio := 1.0
	if box.Priority == model.PriorityMustFit {
		prio = 1.2
	}
	cx := region.X + region.Len/2
	cy := region.Y + region.Wid/2
	rank := zoneRank(area, cx, cy)
	return pref * freq * prio * float64(rank) / float64(zoneHead)
}

// zoneRank maps a footprint center to its accessibility zone: the first
// quarter of the usable length is the foot, the last quarter the head, the
// outer quarters of the width in between are the edges.
func zoneRank(area usableArea, cx, cy float64) int {
	relX := (cx - area.x0) / area.usableLength()
	relY := (cy - area.y0) / area.usableWidth()
	switch {
	case relX < 0.25:
		return zoneFoot
	case relX > 0.75:
		return zoneHead
	case relY < 0.25 || relY > 0.75:
		return zoneEdge
	default:
		return zoneCenter
	}
}

// overlapsAny reports whether the padded region intersects any placed box.
// Free cuboids already exclude occupied space; this guards the epsilon
// slack in the fit test.
func overlapsAny(padded Cuboid, placed []placedBox) bool {
	for _, p := range placed {
		if padded.overlaps(p.region) {
			return true
		}
	}
	return false
}

// validateInput rejects malformed input before any search begins. The API
// layer performs the same checks up front; this is the engine's own
// contract guard.
func validateInput(bed model.Bed, boxes []model.Box, settings model.Settings) error {
	if bed.Length <= 0 || bed.Width <= 0 || bed.Height <= 0 {
		return fmt.Errorf("bed dimensions must be positive, got %gx%gx%g", bed.Length, bed.Width, bed.Height)
	}
	if bed.Margin < 0 || settings.Margin < 0 || settings.Padding < 0 {
		return fmt.Errorf("margins and padding must not be negative")
	}
	m := bed.Margin + settings.Margin
	if bed.Length-2*m <= 0 || bed.Width-2*m <= 0 {
		return fmt.Errorf("margin %g leaves no usable footprint in a %gx%g bed", m, bed.Length, bed.Width)
	}
	for _, b := range boxes {
		if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("box %q has non-positive dimensions %gx%gx%g", b.ID, b.Length, b.Width, b.Height)
		}
		if b.Weight < 0 {
			return fmt.Errorf("box %q has negative weight %g", b.ID, b.Weight)
		}
	}
	return nil
}
