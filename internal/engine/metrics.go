package engine

import (
	"math"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// computeMetrics derives the summary statistics from the final placement
// set and the remaining free-space model.
func computeMetrics(totalBoxes int, placed []placedBox, area usableArea, fs *freeSpace) model.Metrics {
	usableVolume := area.volume()
	if usableVolume <= 0 {
		usableVolume = 1
	}

	var usedVolume float64
	for _, p := range placed {
		usedVolume += p.region.Volume()
	}

	usedRatio := round4(math.Min(usedVolume/usableVolume, 1.0))

	return model.Metrics{
		TotalBoxes:         totalBoxes,
		PlacedBoxes:        len(placed),
		UsedVolumeRatio:    usedRatio,
		FreeVolumeRatio:    round4(1.0 - usedRatio),
		FragmentationScore: round4(fragmentationScore(fs.cuboids)),
	}
}

// fragmentationScore measures how splintered the remaining free space is:
// 0 for a single region, approaching 1 as the volume scatters into many
// small fragments. It is the complement of the Herfindahl concentration of
// the free cuboid volumes: more fragments of equal total volume strictly
// raise the score, while one dominant region with crumbs stays low.
func fragmentationScore(cuboids []Cuboid) float64 {
	var sum, sumSq float64
	for _, c := range cuboids {
		v := c.Volume()
		sum += v
		sumSq += v * v
	}
	if sum <= 0 {
		return 0
	}
	return 1.0 - sumSq/(sum*sum)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
