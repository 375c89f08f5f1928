package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

func beatLenForBPM(bpm float64) float64 {
	return 60000 / bpm
}

// streamBeatmap builds a beatmap with one timing point at tpBPM and a
// single contiguous run of n+1 hit objects spaced so that every interval
// quantizes to subdivision bpm (tpBPM * division / 4), alternating x
// position so spacing is nonzero but within the stream threshold.
func streamBeatmap(tpBPM float64, division float64, n int, circleSize float32) models.ParsedBeatmap {
	intervalBPM := tpBPM * division
	step := beatLenForBPM(intervalBPM)

	objects := make([]models.HitObject, 0, n+1)
	t := 0.0
	for i := 0; i <= n; i++ {
		x := float32(0)
		if i%2 == 1 {
			x = 50
		}
		objects = append(objects, models.HitObject{StartTimeMS: t, X: x, Y: 0, Kind: models.HitObjectCircle})
		t += step
	}

	return models.ParsedBeatmap{
		Mode:       models.ModeStandard,
		CircleSize: circleSize,
		HitObjects: objects,
		TimingPoints: []models.TimingPoint{
			{StartTimeMS: 0, BeatLenMS: beatLenForBPM(tpBPM)},
		},
	}
}

func slowBeatmap(tpBPM float64, n int) models.ParsedBeatmap {
	step := beatLenForBPM(tpBPM) // division 1, well under the stream threshold of 3
	objects := make([]models.HitObject, 0, n)
	t := 0.0
	for i := 0; i < n; i++ {
		objects = append(objects, models.HitObject{StartTimeMS: t, X: 0, Y: 0, Kind: models.HitObjectCircle})
		t += step
	}
	return models.ParsedBeatmap{
		Mode:       models.ModeStandard,
		CircleSize: 4,
		HitObjects: objects,
		TimingPoints: []models.TimingPoint{
			{StartTimeMS: 0, BeatLenMS: beatLenForBPM(tpBPM)},
		},
	}
}

func TestAnalyze_InvalidMode(t *testing.T) {
	bm := slowBeatmap(180, 10)
	bm.Mode = models.ModeMania

	_, err := NewAnalyzer(nil).Analyze(bm)
	assert.ErrorIs(t, err, ErrInvalidBeatmap)
}

func TestAnalyze_TooFewHitObjects(t *testing.T) {
	bm := slowBeatmap(180, 1)

	_, err := NewAnalyzer(nil).Analyze(bm)
	assert.ErrorIs(t, err, ErrInvalidBeatmap)
}

func TestAnalyze_NoPositiveTimingPoints(t *testing.T) {
	bm := slowBeatmap(180, 10)
	bm.TimingPoints = []models.TimingPoint{{StartTimeMS: 0, BeatLenMS: -1}}

	_, err := NewAnalyzer(nil).Analyze(bm)
	assert.ErrorIs(t, err, ErrInvalidBeatmap)
}

func TestAnalyze_NoStreams(t *testing.T) {
	bm := slowBeatmap(180, 20)

	result, err := NewAnalyzer(nil).Analyze(bm)
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.LongestStream)
	assert.EqualValues(t, 0, result.StreamsLength)
	assert.EqualValues(t, 0, result.StreamsSpacing)
	assert.EqualValues(t, 0, result.StreamsDensity)
	assert.EqualValues(t, 180, result.BPMPredominant)
}

func TestAnalyze_SimpleStream(t *testing.T) {
	// 9 intervals at division 4 off a 200bpm timing point: a single
	// 1/4 stream of 10 hit objects.
	bm := streamBeatmap(200, 4, 9, 4)

	result, err := NewAnalyzer(nil).Analyze(bm)
	require.NoError(t, err)

	assert.EqualValues(t, 200, result.BPMPredominant)
	assert.EqualValues(t, 10, result.LongestStream) // 9 intervals + 1
	assert.Greater(t, result.StreamsLength, int16(0))
	assert.InDelta(t, 1.0, result.StreamsDensity, 0.0001)
	assert.Greater(t, result.StreamsSpacing, float32(0))
}

func TestAnalyze_SingleIntervalStreamIsDiscarded(t *testing.T) {
	// Exactly one qualifying interval: terminate() must decrement the
	// frequency table rather than keep a length-1 "stream".
	bm := streamBeatmap(200, 4, 1, 4)

	result, err := NewAnalyzer(nil).Analyze(bm)
	require.NoError(t, err)

	assert.EqualValues(t, 0, result.LongestStream)
	assert.EqualValues(t, 0, result.StreamsLength)
	assert.EqualValues(t, 0, result.StreamsSpacing)
}

func TestAnalyze_Deterministic(t *testing.T) {
	bm := streamBeatmap(200, 4, 30, 4)

	a := NewAnalyzer(nil)
	first, err := a.Analyze(bm)
	require.NoError(t, err)
	second, err := a.Analyze(bm)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_Invariants(t *testing.T) {
	cases := []models.ParsedBeatmap{
		slowBeatmap(180, 20),
		streamBeatmap(200, 4, 9, 4),
		streamBeatmap(296, 4, 80, 5),
	}

	for _, bm := range cases {
		result, err := NewAnalyzer(nil).Analyze(bm)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.StreamsDensity, float32(0))
		assert.LessOrEqual(t, result.StreamsDensity, float32(1))
		assert.Greater(t, result.BPMPredominant, int16(0))

		if result.LongestStream == 0 {
			assert.EqualValues(t, 0, result.StreamsLength)
			assert.EqualValues(t, 0, result.StreamsSpacing)
		} else {
			assert.NotZero(t, result.StreamsLength)
		}
	}
}

func TestAnalyze_LongStreamMatchesExpectedShape(t *testing.T) {
	// An 80-note 1/4 run at 296bpm: not a byte-exact reference fixture
	// (the beatmap is built in code, not parsed from a reference .osu
	// file) but a sanity check that a long, dense stream comes out dense
	// and long.
	bm := streamBeatmap(296, 4, 80, 5)

	result, err := NewAnalyzer(nil).Analyze(bm)
	require.NoError(t, err)

	assert.EqualValues(t, 296, result.BPMPredominant)
	assert.EqualValues(t, 81, result.LongestStream)
	assert.Greater(t, result.StreamsDensity, float32(0.9))
}
