// Package analysis implements the stream classifier: it turns a parsed
// beatmap's hit objects and timing points into a BeatmapAnalysis describing
// how stream-heavy the map is and how demanding it is under the standard
// and double-time mod sets.
package analysis

import (
	"math"
	"sort"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// maxIterations bounds the fixed-point classification loop defensively.
// skippedBPMs only grows between iterations, so real input converges in a
// handful of passes; nothing observed in practice gets close to this.
const maxIterations = 16

// Analyzer classifies stream content in a parsed beatmap and, when a
// DifficultyCalculator is configured, attaches star rating and pp metrics.
type Analyzer struct {
	Difficulty DifficultyCalculator
}

// NewAnalyzer builds an Analyzer. calc may be nil, in which case the
// returned BeatmapAnalysis carries zeroed difficulty fields.
func NewAnalyzer(calc DifficultyCalculator) *Analyzer {
	return &Analyzer{Difficulty: calc}
}

// Analyze runs the full interval/frequency/stream pipeline over a parsed
// beatmap.
func (a *Analyzer) Analyze(parsed models.ParsedBeatmap) (models.BeatmapAnalysis, error) {
	if err := validate(parsed); err != nil {
		return models.BeatmapAnalysis{}, err
	}

	timingPoints := activeTimingPoints(parsed.TimingPoints)
	acc := newAccumulator(float64(parsed.CircleSize))

	processIntervals(acc, parsed, timingPoints)
	for i := 0; ; i++ {
		if i >= maxIterations {
			return models.BeatmapAnalysis{}, ErrNonconvergent
		}
		rerun := filterBPM(acc, len(parsed.HitObjects))
		if !rerun {
			rerun = calculatePredominant(acc)
		}
		if !rerun {
			break
		}
		acc.reset()
		processIntervals(acc, parsed, timingPoints)
	}

	calculateStreamsStatistics(acc)

	if acc.longestStream > 1 {
		acc.longestStream++
		acc.streamsLength++
	} else {
		acc.predominant = predominantBPM{bpm: int16(math.Round(parsed.AverageBPM()))}
		acc.streamsSpacing = 0
	}

	out := models.BeatmapAnalysis{
		BPMPredominant: acc.predominant.bpm,
		CircleSize:     parsed.CircleSize,
		LongestStream:  acc.longestStream,
		StreamsLength:  acc.streamsLength,
		StreamsDensity: float32(models.RoundDecimal(2, acc.streamsDensity)),
		StreamsSpacing: float32(models.RoundDecimal(2, acc.streamsSpacing)),
		TotalLengthS:   int16(math.Round(parsed.HitObjects[len(parsed.HitObjects)-1].StartTimeMS / 1000)),
	}

	if a.Difficulty != nil {
		if err := applyDifficulty(&out, a.Difficulty, parsed); err != nil {
			return models.BeatmapAnalysis{}, err
		}
	}

	return out, nil
}

func validate(parsed models.ParsedBeatmap) error {
	if parsed.Mode != models.ModeStandard {
		return ErrInvalidBeatmap
	}
	if len(parsed.HitObjects) < 2 {
		return ErrInvalidBeatmap
	}
	for _, tp := range parsed.TimingPoints {
		if tp.BeatLenMS > 0 {
			return nil
		}
	}
	return ErrInvalidBeatmap
}

func activeTimingPoints(points []models.TimingPoint) []models.TimingPoint {
	out := make([]models.TimingPoint, 0, len(points))
	for _, tp := range points {
		if tp.BeatLenMS > 0 {
			out = append(out, tp)
		}
	}
	return out
}

func nonSpinnerObjects(objects []models.HitObject) []models.HitObject {
	out := make([]models.HitObject, 0, len(objects))
	for _, o := range objects {
		if o.Kind == models.HitObjectSpinner {
			continue
		}
		out = append(out, o)
	}
	return out
}

// processIntervals is the classification pass: it walks consecutive
// non-spinner hit object pairs, advancing a pointer into timingPoints as
// interval start times cross timing point boundaries.
func processIntervals(acc *accumulator, parsed models.ParsedBeatmap, timingPoints []models.TimingPoint) {
	if len(timingPoints) == 0 {
		return
	}
	objects := nonSpinnerObjects(parsed.HitObjects)
	if len(objects) < 2 {
		return
	}

	s := newStream()
	tpIndex := 0
	prev := objects[0]
	for _, obj := range objects[1:] {
		iv := newInterval(prev, obj)
		prev = obj
		for tpIndex+1 < len(timingPoints) && iv.startTime >= timingPoints[tpIndex+1].StartTimeMS {
			tpIndex++
		}
		processInterval(acc, iv, s, timingPoints[tpIndex])
	}
	s.terminate(acc)
}

// processInterval classifies one interval against the currently open
// stream. division ≥ 3 means the interval subdivides the beat densely
// enough to be stream candidate material; anything looser terminates
// whatever stream is open.
func processInterval(acc *accumulator, iv interval, s *stream, tp models.TimingPoint) {
	tpBPM := tp.BPM()
	division := math.Round(iv.bpm / tpBPM)
	if division >= 3 {
		bpm := int16(math.Round(tpBPM * division / 4))
		spacing := iv.spacing / (54.4 - 4.48*acc.circleSize)

		switch {
		case acc.isSkipped(bpm) || spacing > 4.0:
			acc.frequencies.update(bpm, 1, false)
		case s.length == 0 || absInt16(bpm-s.lastBPM) <= s.lastBPM/5:
			acc.frequencies.update(bpm, 1, true)
			s.add(bpm, spacing)
			return
		default:
			s.terminate(acc)
			processInterval(acc, iv, s, tp)
			return
		}
	}
	s.terminate(acc)
}

func absInt16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

// filterBPM retains only bpm entries where stream intervals dominate
// (streams/5 ≥ non_streams), accumulating the retained interval count and
// tracking the highest-count survivor as the new predominant bpm
// candidate. It reports whether any dropped entry had stream intervals;
// those bpms are skipped and force another classification pass.
func filterBPM(acc *accumulator, hitObjectCount int) bool {
	needsRerun := false
	acc.frequencies.retain(
		func(_ int16, f *bpmFrequency) bool {
			return f.streams/5 >= f.nonStreams
		},
		func(bpm int16, f *bpmFrequency) {
			if f.streams > 0 {
				acc.skip(bpm)
				needsRerun = true
			}
		},
	)

	var intervals int16
	for bpm, f := range acc.frequencies {
		intervals += f.streams
		if f.streams > acc.predominant.frequency {
			acc.predominant = predominantBPM{bpm: bpm, frequency: f.streams}
		}
	}
	acc.streamsSpacing = float64(intervals)
	if hitObjectCount > 1 {
		acc.streamsDensity = float64(intervals) / float64(hitObjectCount-1)
	}
	return needsRerun
}

// calculatePredominant re-estimates the predominant bpm using an
// asymmetric weight that rewards higher bpms which also appear
// frequently, then skips anything more than 20% below the new winner.
func calculatePredominant(acc *accumulator) bool {
	currentWeight := 0.0
	for bpm, f := range acc.frequencies {
		if bpm < acc.predominant.bpm {
			continue
		}
		weight := (float64(bpm) / float64(acc.predominant.bpm)) -
			math.Sqrt(float64(acc.predominant.frequency)/float64(f.streams))
		if weight < currentWeight {
			continue
		}
		currentWeight = weight
		acc.predominant = predominantBPM{bpm: bpm, frequency: f.streams}
	}

	needsRerun := false
	for bpm := range acc.frequencies {
		if bpm-acc.predominant.bpm < -acc.predominant.bpm/5 {
			acc.skip(bpm)
			needsRerun = true
		}
	}
	return needsRerun
}

// calculateStreamsStatistics aggregates the surviving streams once the
// fixed-point loop has converged: longest run, a cubic-weighted length
// score favoring the longest streams, and mean normalized spacing.
func calculateStreamsStatistics(acc *accumulator) {
	sort.Slice(acc.streams, func(i, j int) bool {
		return acc.streams[i].length > acc.streams[j].length
	})

	intervals := acc.streamsSpacing
	acc.streamsSpacing = 0

	length := float64(len(acc.streams))
	if length < 1 {
		length = 1
	}

	var streamsLength float64
	for index, s := range acc.streams {
		if s.length > acc.longestStream {
			acc.longestStream = s.length
		}
		streamsLength += math.Pow(float64(s.length), 3) * (1 - float64(index)/length) * 2 / float64(len(acc.streams))
		acc.streamsSpacing += s.spacing
	}
	if intervals != 0 {
		acc.streamsSpacing /= intervals
	}
	acc.streamsLength = int16(math.Round(math.Cbrt(streamsLength)))
}

// applyDifficulty asks calc for no-mod and double-time metrics and records
// both on out, rounded to their final display precision.
func applyDifficulty(out *models.BeatmapAnalysis, calc DifficultyCalculator, parsed models.ParsedBeatmap) error {
	noMod, err := calc.Calculate(parsed, ModsNone)
	if err != nil {
		return err
	}
	dt, err := calc.Calculate(parsed, ModsDoubleTime)
	if err != nil {
		return err
	}

	out.ApproachRate = models.ModDecimal{
		NoModification: float32(models.RoundDecimal(1, noMod.ApproachRate)),
		DoubleTime:     float32(models.RoundDecimal(1, dt.ApproachRate)),
	}
	out.Accuracy = models.ModDecimal{
		NoModification: float32(models.RoundDecimal(1, noMod.OverallDiff)),
		DoubleTime:     float32(models.RoundDecimal(1, dt.OverallDiff)),
	}
	out.DifficultyStars = models.ModDecimal{
		NoModification: float32(models.RoundDecimal(2, noMod.Stars)),
		DoubleTime:     float32(models.RoundDecimal(2, dt.Stars)),
	}
	out.PP100 = models.ModInteger{
		NoModification: int16(math.Round(noMod.PP(1.0))),
		DoubleTime:     int16(math.Round(dt.PP(1.0))),
	}
	out.PP95 = models.ModInteger{
		NoModification: int16(math.Round(noMod.PP(0.95))),
		DoubleTime:     int16(math.Round(dt.PP(0.95))),
	}
	return nil
}
