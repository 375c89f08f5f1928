package analysis

import "github.com/streamcurator/beatmap-curator/internal/models"

// ModsNone and ModsDoubleTime are the two mod bitmasks the analyzer asks a
// DifficultyCalculator to evaluate. 64 is osu!'s own bitmask value for the
// double-time mod, preserved so callers can pass scoreboard mod bitmasks
// through unchanged.
const (
	ModsNone       = 0
	ModsDoubleTime = 64
)

// DifficultyAttributes is what an external difficulty calculator returns
// for one (beatmap, mods) pair.
type DifficultyAttributes struct {
	ApproachRate float64
	OverallDiff  float64
	Stars        float64
	PP           func(accuracy float64) float64
}

// DifficultyCalculator is the external collaborator the analyzer composes
// with to obtain approach rate, overall difficulty, star rating, and
// performance points for a parsed beatmap. Its implementation (rosu-pp
// style difficulty math) is out of scope for this package; analysis only
// defines the shape it consumes.
type DifficultyCalculator interface {
	Calculate(parsed models.ParsedBeatmap, modsBitmask int) (DifficultyAttributes, error)
}
