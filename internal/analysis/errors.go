package analysis

import "errors"

var (
	// ErrInvalidBeatmap is returned when a parsed beatmap fails the
	// analyzer's structural preconditions (game mode, hit object count,
	// timing points).
	ErrInvalidBeatmap = errors.New("analysis: invalid beatmap")

	// ErrNonconvergent is returned when the fixed-point classification
	// loop exceeds maxIterations. No real beatmap is expected to hit this;
	// it exists as a defensive bound.
	ErrNonconvergent = errors.New("analysis: fixed-point loop did not converge")

	// ErrParseFailure wraps an upstream beatmap-file parser error.
	ErrParseFailure = errors.New("analysis: beatmap parse failed")
)
