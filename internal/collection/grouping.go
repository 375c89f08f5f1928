// Package collection turns labeled beatmap selections into the legacy
// binary collection formats third-party osu! clients import unchanged.
package collection

import (
	"fmt"
	"sort"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// Beatmap bundles a CollectionBeatmap with the predominant bpm its owning
// analysis produced, which bpm-decade grouping buckets on.
type Beatmap struct {
	models.CollectionBeatmap
	BPM int16
}

// Group partitions beatmaps into named groups per mode, then sorts the
// result by name ascending so encoder output is deterministic regardless
// of bucket iteration order or input permutation.
func Group(beatmaps []Beatmap, mode models.GroupingMode) []models.Group {
	switch mode {
	case models.GroupByBPMDecade:
		return groupByBPMDecade(beatmaps)
	default:
		return groupSingle(beatmaps)
	}
}

func groupSingle(beatmaps []Beatmap) []models.Group {
	members := make([]models.CollectionBeatmap, 0, len(beatmaps))
	for _, b := range beatmaps {
		members = append(members, b.CollectionBeatmap)
	}
	return []models.Group{{Name: models.GroupName, Beatmaps: members}}
}

func groupByBPMDecade(beatmaps []Beatmap) []models.Group {
	buckets := make(map[string][]models.CollectionBeatmap)
	for _, b := range beatmaps {
		decade := b.BPM / 10
		name := fmt.Sprintf("%d-%d", decade*10, decade*10+9)
		buckets[name] = append(buckets[name], b.CollectionBeatmap)
	}

	groups := make([]models.Group, 0, len(buckets))
	for name, members := range buckets {
		groups = append(groups, models.Group{Name: name, Beatmaps: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}
