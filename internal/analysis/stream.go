package analysis

// stream is a contiguous accumulator of stream-classified intervals at a
// consistent subdivision bpm.
type stream struct {
	bpmHist map[int16]int16
	lastBPM int16
	length  int16
	spacing float64
}

func newStream() *stream {
	return &stream{bpmHist: make(map[int16]int16)}
}

// add records one more interval joining the currently open stream.
func (s *stream) add(bpm int16, spacingNorm float64) {
	s.bpmHist[bpm]++
	s.lastBPM = bpm
	s.length++
	s.spacing += spacingNorm
}

func (s *stream) reset() {
	s.bpmHist = make(map[int16]int16)
	s.lastBPM = 0
	s.length = 0
	s.spacing = 0
}

func (s *stream) clone() stream {
	hist := make(map[int16]int16, len(s.bpmHist))
	for k, v := range s.bpmHist {
		hist[k] = v
	}
	return stream{bpmHist: hist, lastBPM: s.lastBPM, length: s.length, spacing: s.spacing}
}

// terminate closes the accumulator and folds it into the owning beatmap's
// state: a one-interval stream is noise and its single contribution is
// undone in the frequency table; anything longer is kept. Either way s is
// reset for reuse.
func (s *stream) terminate(acc *accumulator) {
	switch s.length {
	case 0:
		return
	case 1:
		acc.frequencies.update(s.lastBPM, -1, true)
	default:
		acc.streams = append(acc.streams, s.clone())
	}
	s.reset()
}
