package engine

import "github.com/mazenwkamel/StackTics/internal/model"

// minSupportRatio is the fraction of a stacked box's footprint that must
// rest on supporters. A box may not balance on a sliver.
const minSupportRatio = 0.5

// placedBox is the engine's working record for one placement: the oriented
// region it occupies, its load limit, the weight it already carries and the
// supporters it rests on.
type placedBox struct {
	box       model.Box
	placement model.Placement
	region    Cuboid // oriented box extents, without padding
	maxLoad   float64
	carried   float64
	supports  []support
}

type support struct {
	idx  int     // index into the placed slice
	frac float64 // share of the candidate's footprint resting on this supporter
}

// findSupporters returns the placed boxes whose top face is at the
// candidate's z and whose footprint overlaps it, with the overlap share of
// the candidate's footprint.
func findSupporters(region Cuboid, placed []placedBox) []support {
	area := region.Len * region.Wid
	if area <= 0 {
		return nil
	}
	var out []support
	for i, p := range placed {
		top := p.region.maxZ()
		if top < region.Z-geomEps || top > region.Z+geomEps {
			continue
		}
		if ov := footprintOverlap(region, p.region); ov > 0 {
			out = append(out, support{idx: i, frac: ov / area})
		}
	}
	return out
}

// checkLoad verifies that routing an additional amount of weight through
// the placed box stays within its load limit, and recursively within the
// limits of everything beneath it. Weight splits across supporters in
// proportion to footprint overlap.
func checkLoad(placed []placedBox, idx int, amount float64) bool {
	p := placed[idx]
	if p.carried+amount > p.maxLoad+geomEps {
		return false
	}
	total := 0.0
	for _, s := range p.supports {
		total += s.frac
	}
	for _, s := range p.supports {
		share := amount
		if total > 0 {
			share = amount * s.frac / total
		}
		if !checkLoad(placed, s.idx, share) {
			return false
		}
	}
	return true
}

// addLoad records an additional carried amount on the placed box and
// propagates the shares down its support chain.
func addLoad(placed []placedBox, idx int, amount float64) {
	placed[idx].carried += amount
	total := 0.0
	for _, s := range placed[idx].supports {
		total += s.frac
	}
	for _, s := range placed[idx].supports {
		share := amount
		if total > 0 {
			share = amount * s.frac / total
		}
		addLoad(placed, s.idx, share)
	}
}

// validateStacking checks a candidate resting above floor level against the
// placed boxes beneath it: enough of its footprint must be supported, no
// supporter may be strictly more fragile than the candidate, and the
// candidate's weight must fit within every load limit below. A violation
// makes the candidate infeasible, never an engine error.
func validateStacking(box model.Box, region Cuboid, placed []placedBox) ([]support, bool) {
	supporters := findSupporters(region, placed)

	supported := 0.0
	for _, s := range supporters {
		supported += s.frac
	}
	if supported < minSupportRatio-geomEps {
		return nil, false
	}

	for _, s := range supporters {
		if placed[s.idx].box.Fragility.Level() > box.Fragility.Level() {
			return nil, false
		}
		if !checkLoad(placed, s.idx, box.Weight) {
			return nil, false
		}
	}
	return supporters, true
}
