package engine

import (
	"sort"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// Ranking weights. Volume dominates for real-world box sizes so large,
// load-bearing boxes are placed first and lighter or fragile ones can be
// stacked on top of them; the bonuses only reorder near-equal boxes.
const (
	accessBonusWeight      = 1000.0
	fragilityPenaltyWeight = 500.0
)

// rankScore is the composite ordering score within a priority tier.
func rankScore(b model.Box) float64 {
	return b.Volume() +
		accessBonusWeight*float64(b.AccessFrequency.Factor()) -
		fragilityPenaltyWeight*float64(b.Fragility.Level())
}

// rankBoxes returns the boxes in placement order: must_fit strictly before
// optional, then by descending composite score, with ties broken by box ID
// so identical inputs always scan in the same order.
func rankBoxes(boxes []model.Box) []model.Box {
	ranked := make([]model.Box, len(boxes))
	copy(ranked, boxes)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Priority != b.Priority {
			return a.Priority == model.PriorityMustFit
		}
		sa, sb := rankScore(a), rankScore(b)
		if sa != sb {
			return sa > sb
		}
		return a.ID < b.ID
	})
	return ranked
}
