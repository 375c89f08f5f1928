// Package osufile parses the osu! beatmap text format (.osu) into the
// shape the stream analyzer consumes. It only reads the sections the
// analyzer needs: [General] for the game mode, [Difficulty] for circle
// size, [TimingPoints] for tempo, and [HitObjects] for the note stream.
package osufile

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// ErrMalformed is returned when the file does not look like a beatmap at all.
var ErrMalformed = fmt.Errorf("osufile: malformed beatmap file")

// hitObjectTypeSpinner and hitObjectTypeSlider are the bit flags the
// format uses in a hit object's type byte.
const (
	hitObjectTypeSlider  = 1 << 1
	hitObjectTypeSpinner = 1 << 3
)

// Parser implements analysis.BeatmapParser for the .osu text format.
type Parser struct{}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads fileBytes as a .osu file and extracts the fields the
// analyzer needs.
func (p *Parser) Parse(fileBytes []byte) (models.ParsedBeatmap, error) {
	if len(fileBytes) == 0 || !strings.HasPrefix(string(fileBytes), "osu file format") {
		return models.ParsedBeatmap{}, ErrMalformed
	}

	var parsed models.ParsedBeatmap
	section := ""

	scanner := bufio.NewScanner(strings.NewReader(string(fileBytes)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line
			continue
		}

		switch section {
		case "[General]":
			parseGeneralLine(line, &parsed)
		case "[Difficulty]":
			parseDifficultyLine(line, &parsed)
		case "[TimingPoints]":
			if tp, ok := parseTimingPointLine(line); ok {
				parsed.TimingPoints = append(parsed.TimingPoints, tp)
			}
		case "[HitObjects]":
			if ho, ok := parseHitObjectLine(line); ok {
				parsed.HitObjects = append(parsed.HitObjects, ho)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return models.ParsedBeatmap{}, fmt.Errorf("osufile: failed to scan file: %w", err)
	}

	return parsed, nil
}

func parseGeneralLine(line string, parsed *models.ParsedBeatmap) {
	key, value, ok := splitKeyValue(line)
	if !ok || key != "Mode" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	parsed.Mode = models.GameMode(n)
}

func parseDifficultyLine(line string, parsed *models.ParsedBeatmap) {
	key, value, ok := splitKeyValue(line)
	if !ok || key != "CircleSize" {
		return
	}
	n, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return
	}
	parsed.CircleSize = float32(n)
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// parseTimingPointLine parses "time,beatLength,meter,sampleSet,sampleIndex,volume,uninherited,effects".
// Only time and beatLength matter to the analyzer.
func parseTimingPointLine(line string) (models.TimingPoint, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return models.TimingPoint{}, false
	}
	startTime, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return models.TimingPoint{}, false
	}
	beatLen, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return models.TimingPoint{}, false
	}
	return models.TimingPoint{StartTimeMS: startTime, BeatLenMS: beatLen}, true
}

// parseHitObjectLine parses "x,y,time,type,hitSound,...". Only x, y, time,
// and the spinner/slider bits of type matter to the analyzer.
func parseHitObjectLine(line string) (models.HitObject, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return models.HitObject{}, false
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 32)
	if err != nil {
		return models.HitObject{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 32)
	if err != nil {
		return models.HitObject{}, false
	}
	startTime, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return models.HitObject{}, false
	}
	typeBits, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return models.HitObject{}, false
	}

	kind := models.HitObjectCircle
	switch {
	case typeBits&hitObjectTypeSpinner != 0:
		kind = models.HitObjectSpinner
	case typeBits&hitObjectTypeSlider != 0:
		kind = models.HitObjectSlider
	}

	return models.HitObject{
		StartTimeMS: startTime,
		X:           float32(x),
		Y:           float32(y),
		Kind:        kind,
	}, true
}
