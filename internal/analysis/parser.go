package analysis

import (
	"fmt"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// BeatmapParser turns a beatmap file's raw bytes into a ParsedBeatmap.
// Implementations live outside this package (osu!'s .osu text format is
// not re-specified here); analysis only depends on the shape it produces.
type BeatmapParser interface {
	Parse(fileBytes []byte) (models.ParsedBeatmap, error)
}

// AnalyzeBytes parses fileBytes with parser and runs Analyze over the
// result. Parser errors are wrapped in ErrParseFailure.
func (a *Analyzer) AnalyzeBytes(parser BeatmapParser, fileBytes []byte) (models.BeatmapAnalysis, error) {
	parsed, err := parser.Parse(fileBytes)
	if err != nil {
		return models.BeatmapAnalysis{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return a.Analyze(parsed)
}
