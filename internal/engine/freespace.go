package engine

import (
	"math"
	"sort"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// geomEps absorbs floating point noise in geometric comparisons.
const geomEps = 0.001

// minUsefulDim is the smallest cuboid edge worth keeping, in cm. Slivers
// thinner than this cannot hold any box and only inflate the search.
const minUsefulDim = 1.0

// Cuboid is an axis-aligned region of the bed interior.
type Cuboid struct {
	X, Y, Z       float64
	Len, Wid, Hei float64
}

// Volume returns the cuboid volume in cubic cm.
func (c Cuboid) Volume() float64 {
	return c.Len * c.Wid * c.Hei
}

func (c Cuboid) maxX() float64 { return c.X + c.Len }
func (c Cuboid) maxY() float64 { return c.Y + c.Wid }
func (c Cuboid) maxZ() float64 { return c.Z + c.Hei }

// overlaps reports whether two cuboids share interior volume (not just a face).
func (c Cuboid) overlaps(o Cuboid) bool {
	return c.X < o.maxX()-geomEps && c.maxX() > o.X+geomEps &&
		c.Y < o.maxY()-geomEps && c.maxY() > o.Y+geomEps &&
		c.Z < o.maxZ()-geomEps && c.maxZ() > o.Z+geomEps
}

// contains reports whether c fully contains o.
func (c Cuboid) contains(o Cuboid) bool {
	return c.X <= o.X+geomEps && c.Y <= o.Y+geomEps && c.Z <= o.Z+geomEps &&
		c.maxX() >= o.maxX()-geomEps &&
		c.maxY() >= o.maxY()-geomEps &&
		c.maxZ() >= o.maxZ()-geomEps
}

// footprintOverlap returns the overlap area of the two cuboids' xy footprints.
func footprintOverlap(a, b Cuboid) float64 {
	w := math.Min(a.maxX(), b.maxX()) - math.Max(a.X, b.X)
	d := math.Min(a.maxY(), b.maxY()) - math.Max(a.Y, b.Y)
	if w <= 0 || d <= 0 {
		return 0
	}
	return w * d
}

// usableArea describes the bed interior left after margins, plus the
// corner exclusion geometry in bed coordinates.
type usableArea struct {
	x0, y0       float64 // usable footprint origin
	x1, y1       float64 // usable footprint far corner
	height       float64
	bedLen       float64
	bedWid       float64
	cornerRadius float64
}

func newUsableArea(bed model.Bed, settings model.Settings) usableArea {
	m := bed.Margin + settings.Margin
	return usableArea{
		x0:           m,
		y0:           m,
		x1:           bed.Length - m,
		y1:           bed.Width - m,
		height:       bed.Height,
		bedLen:       bed.Length,
		bedWid:       bed.Width,
		cornerRadius: bed.CornerRadius,
	}
}

func (u usableArea) usableLength() float64 { return u.x1 - u.x0 }
func (u usableArea) usableWidth() float64  { return u.y1 - u.y0 }
func (u usableArea) volume() float64 {
	return u.usableLength() * u.usableWidth() * u.height
}

// cornerZone is one bed corner's circular exclusion: the r-by-r square at
// the corner minus the quarter circle around the center. Points in the
// square farther than r from the center are unusable.
type cornerZone struct {
	cornerX, cornerY float64 // bed corner
	centerX, centerY float64 // quarter-circle center, r inward on both axes
}

// cornerZones returns the four corner exclusion zones, or nil when no
// corner radius is set.
func (u usableArea) cornerZones() []cornerZone {
	r := u.cornerRadius
	if r <= 0 {
		return nil
	}
	return []cornerZone{
		{0, 0, r, r},
		{u.bedLen, 0, u.bedLen - r, r},
		{0, u.bedWid, r, u.bedWid - r},
		{u.bedLen, u.bedWid, u.bedLen - r, u.bedWid - r},
	}
}

// inSquare reports whether the point lies in the zone's corner square.
func (z cornerZone) inSquare(px, py float64) bool {
	loX, hiX := math.Min(z.cornerX, z.centerX), math.Max(z.cornerX, z.centerX)
	loY, hiY := math.Min(z.cornerY, z.centerY), math.Max(z.cornerY, z.centerY)
	return px >= loX-geomEps && px <= hiX+geomEps &&
		py >= loY-geomEps && py <= hiY+geomEps
}

// violatesCorners reports whether the footprint rectangle clips one of the
// corner exclusion zones. The excluded region hugs each bed corner, so the
// footprint point nearest the bed corner decides: if it lies inside the
// corner square but outside the quarter circle, the rectangle reaches into
// the exclusion.
func (u usableArea) violatesCorners(x, y, lenX, widY float64) bool {
	r := u.cornerRadius
	if r <= 0 {
		return false
	}
	for _, z := range u.cornerZones() {
		px := clamp(z.cornerX, x, x+lenX)
		py := clamp(z.cornerY, y, y+widY)
		if z.inSquare(px, py) && distance(px, py, z.centerX, z.centerY) > r+geomEps {
			return true
		}
	}
	return false
}


func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// freeSpace tracks the unoccupied volume of the bed interior as a covering
// set of cuboids. The set is a covering, not a partition: cuboids may
// overlap, which yields larger maximal regions than disjoint guillotine
// splits and lets rotated boxes use strips that span earlier cuts.
type freeSpace struct {
	area    usableArea
	cuboids []Cuboid
}

func newFreeSpace(area usableArea) *freeSpace {
	fs := &freeSpace{
		area: area,
		cuboids: []Cuboid{{
			X: area.x0, Y: area.y0, Z: 0,
			Len: area.usableLength(), Wid: area.usableWidth(), Hei: area.height,
		}},
	}
	// Carve the corner squares out of the initial free volume so candidate
	// origins land clear of the exclusion zones. The square is a
	// conservative bound on the quarter-circle cutout; the exact circular
	// boundary is enforced by violatesCorners during the search.
	for _, z := range area.cornerZones() {
		loX := math.Min(z.cornerX, z.centerX)
		loY := math.Min(z.cornerY, z.centerY)
		fs.occupy(Cuboid{
			X: loX, Y: loY, Z: 0,
			Len: area.cornerRadius, Wid: area.cornerRadius, Hei: area.height,
		})
	}
	return fs
}

// candidates returns the free cuboids in scan order: ascending z, then x,
// then y. Cuboids too thin to hold anything are skipped.
func (fs *freeSpace) candidates() []Cuboid {
	out := make([]Cuboid, 0, len(fs.cuboids))
	for _, c := range fs.cuboids {
		if c.Len < minUsefulDim || c.Wid < minUsefulDim || c.Hei < minUsefulDim {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return out
}

// occupy removes the region from the free volume. Every intersecting
// cuboid is split into up to six maximal residual slabs, one per face of
// the region, each keeping the full extent of the original cuboid on the
// other two axes. Degenerate and contained residuals are pruned so the
// set stays bounded.
func (fs *freeSpace) occupy(region Cuboid) {
	var next []Cuboid
	for _, c := range fs.cuboids {
		if !c.overlaps(region) {
			next = append(next, c)
			continue
		}
		// Left and right of the region along x.
		if region.X > c.X+geomEps {
			next = append(next, Cuboid{X: c.X, Y: c.Y, Z: c.Z, Len: region.X - c.X, Wid: c.Wid, Hei: c.Hei})
		}
		if region.maxX() < c.maxX()-geomEps {
			next = append(next, Cuboid{X: region.maxX(), Y: c.Y, Z: c.Z, Len: c.maxX() - region.maxX(), Wid: c.Wid, Hei: c.Hei})
		}
		// In front of and behind the region along y.
		if region.Y > c.Y+geomEps {
			next = append(next, Cuboid{X: c.X, Y: c.Y, Z: c.Z, Len: c.Len, Wid: region.Y - c.Y, Hei: c.Hei})
		}
		if region.maxY() < c.maxY()-geomEps {
			next = append(next, Cuboid{X: c.X, Y: region.maxY(), Z: c.Z, Len: c.Len, Wid: c.maxY() - region.maxY(), Hei: c.Hei})
		}
		// Below and above the region along z.
		if region.Z > c.Z+geomEps {
			next = append(next, Cuboid{X: c.X, Y: c.Y, Z: c.Z, Len: c.Len, Wid: c.Wid, Hei: region.Z - c.Z})
		}
		if region.maxZ() < c.maxZ()-geomEps {
			next = append(next, Cuboid{X: c.X, Y: c.Y, Z: region.maxZ(), Len: c.Len, Wid: c.Wid, Hei: c.maxZ() - region.maxZ()})
		}
	}
	fs.cuboids = pruneContained(next)
}

// clone returns an independent copy for trial occupation.
func (fs *freeSpace) clone() *freeSpace {
	cp := make([]Cuboid, len(fs.cuboids))
	copy(cp, fs.cuboids)
	return &freeSpace{area: fs.area, cuboids: cp}
}

// pruneContained drops cuboids fully contained within another.
func pruneContained(cuboids []Cuboid) []Cuboid {
	if len(cuboids) <= 1 {
		return cuboids
	}
	kept := make([]Cuboid, 0, len(cuboids))
	for i, a := range cuboids {
		contained := false
		for j, b := range cuboids {
			if i == j {
				continue
			}
			// On exact duplicates keep only the first.
			if j < i && b.contains(a) && a.contains(b) {
				contained = true
				break
			}
			if b.contains(a) && !a.contains(b) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}
