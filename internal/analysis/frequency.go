package analysis

// bpmFrequency counts intervals quantized to one bpm value, split by
// whether they were ultimately classified as part of a stream.
type bpmFrequency struct {
	streams    int16
	nonStreams int16
}

// frequencyTable maps a quantized bpm to its running stream/non-stream
// counts. Entries are created lazily on first touch.
type frequencyTable map[int16]*bpmFrequency

// update atomically adds delta to streams or nonStreams for bpm. Negative
// deltas are used to retroactively undo a single-interval stream.
func (t frequencyTable) update(bpm, delta int16, isStream bool) {
	f, ok := t[bpm]
	if !ok {
		f = &bpmFrequency{}
		t[bpm] = f
	}
	if isStream {
		f.streams += delta
	} else {
		f.nonStreams += delta
	}
}

// retain drops entries for which keep returns false, invoking dropped for
// each removed entry before deleting it.
func (t frequencyTable) retain(keep func(bpm int16, f *bpmFrequency) bool, dropped func(bpm int16, f *bpmFrequency)) {
	for bpm, f := range t {
		if keep(bpm, f) {
			continue
		}
		if dropped != nil {
			dropped(bpm, f)
		}
		delete(t, bpm)
	}
}
