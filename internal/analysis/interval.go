package analysis

import (
	"math"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// interval is the pairwise relation between two consecutive non-spinner
// hit objects. bpm is left as a float until the quantization step in
// processInterval.
type interval struct {
	startTime float64
	bpm       float64
	spacing   float64
}

func newInterval(prev, next models.HitObject) interval {
	dx := float64(next.X - prev.X)
	dy := float64(next.Y - prev.Y)
	return interval{
		startTime: prev.StartTimeMS,
		bpm:       60000 / (next.StartTimeMS - prev.StartTimeMS),
		spacing:   math.Round(math.Sqrt(dx*dx+dy*dy)*100) / 100,
	}
}
