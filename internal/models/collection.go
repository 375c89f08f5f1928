package models

// CollectionBeatmap is one beatmap entry inside a generated collection file.
// Checksum is always populated; the remaining fields are osdb-only and are
// left zero-valued when a beatmap is encoded in the plain .db format.
type CollectionBeatmap struct {
	Checksum          string
	ID                int32
	BeatmapsetID      int32
	DifficultyRating  float64
}

// GroupingMode selects how beatmaps are bucketed into named groups before a
// collection file is generated.
type GroupingMode int

const (
	// GroupSingle places every beatmap into one group named GroupName.
	GroupSingle GroupingMode = iota
	// GroupByBPMDecade buckets beatmaps by the ten-wide bpm band their
	// predominant_bpm falls into, e.g. "180-189".
	GroupByBPMDecade
)

// GroupName is the default single-group collection name.
const GroupName = "OST"

// Group is a named bucket of beatmaps ready for encoding.
type Group struct {
	Name      string
	Beatmaps  []CollectionBeatmap
}

// CollectionFormat selects the binary encoding a collection is produced in.
type CollectionFormat int

const (
	FormatDB CollectionFormat = iota
	FormatOSDB
)
