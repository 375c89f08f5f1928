package analysis

// predominantBPM tracks the bpm value that best characterizes a beatmap's
// streams so far, and the stream count that earned it the title.
type predominantBPM struct {
	bpm       int16
	frequency int16
}

// accumulator holds the mutable intermediate state one Analyze call
// threads through the classification, filter, and refinement passes. It is
// owned exclusively by that call and never shared across beatmaps or
// goroutines.
type accumulator struct {
	frequencies    frequencyTable
	circleSize     float64
	longestStream  int16
	predominant    predominantBPM
	skippedBPMs    map[int16]struct{}
	streams        []stream
	streamsDensity float64
	streamsLength  int16
	streamsSpacing float64
}

func newAccumulator(circleSize float64) *accumulator {
	return &accumulator{
		frequencies: make(frequencyTable),
		circleSize:  circleSize,
		skippedBPMs: make(map[int16]struct{}),
	}
}

// reset clears everything the fixed-point loop recomputes each iteration.
// skippedBPMs is deliberately preserved: the skip set only grows across
// iterations, which is what guarantees the loop terminates.
func (a *accumulator) reset() {
	a.frequencies = make(frequencyTable)
	a.longestStream = 0
	a.predominant = predominantBPM{}
	a.streams = nil
	a.streamsDensity = 0
	a.streamsLength = 0
	a.streamsSpacing = 0
}

func (a *accumulator) isSkipped(bpm int16) bool {
	_, ok := a.skippedBPMs[bpm]
	return ok
}

func (a *accumulator) skip(bpm int16) {
	a.skippedBPMs[bpm] = struct{}{}
}
