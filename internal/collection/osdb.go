package collection

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

const (
	osdbVersion = "o!dm8min"
	osdbCreator = "Sombrax79"
	osdbFooter  = "By Piotrekol"
	osdbSchema  = 1.0
	osdbSentinel int32 = -1
)

// ErrCompressorFailure wraps a gzip failure while encoding an .osdb file.
var ErrCompressorFailure = errors.New("collection: gzip compression failed")

// EncodeOSDB produces an .osdb collection file: an uncompressed version
// string frame followed by a gzip-compressed payload. The decompressed
// payload layout is bit-exact; the compressed bytes are not guaranteed
// reproducible across gzip implementations.
func EncodeOSDB(groups []models.Group) ([]byte, error) {
	payload, err := encodeOSDBPayload(groups)
	if err != nil {
		return nil, err
	}

	out := new(bytes.Buffer)
	if err := writeRawString(out, osdbVersion); err != nil {
		return nil, err
	}

	gz := gzip.NewWriter(out)
	if _, err := gz.Write(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressorFailure, err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompressorFailure, err)
	}

	return out.Bytes(), nil
}

func encodeOSDBPayload(groups []models.Group) ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := writeRawString(buf, osdbVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, float64(osdbSchema)); err != nil {
		return nil, err
	}
	if err := writeRawString(buf, osdbCreator); err != nil {
		return nil, err
	}

	if err := binary.Write(buf, binary.LittleEndian, int32(len(groups))); err != nil {
		return nil, err
	}
	for _, g := range groups {
		if err := writeRawString(buf, g.Name); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, osdbSentinel); err != nil {
			return nil, err
		}
		if err := writeOSDBBeatmaps(buf, g.Beatmaps); err != nil {
			return nil, err
		}
	}

	if err := writeRawString(buf, osdbFooter); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeOSDBBeatmaps(buf *bytes.Buffer, beatmaps []models.CollectionBeatmap) error {
	if err := binary.Write(buf, binary.LittleEndian, int32(len(beatmaps))); err != nil {
		return err
	}
	for _, b := range beatmaps {
		if err := binary.Write(buf, binary.LittleEndian, b.ID); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.LittleEndian, b.BeatmapsetID); err != nil {
			return err
		}
		if err := writeRawString(buf, b.Checksum); err != nil {
			return err
		}
		buf.WriteByte(0x00)
		buf.WriteByte(0x01)
		if err := binary.Write(buf, binary.LittleEndian, b.DifficultyRating); err != nil {
			return err
		}
	}
	return binary.Write(buf, binary.LittleEndian, int32(0))
}

// writeRawString writes the .osdb string frame: a length byte followed by
// the raw bytes, with no 0x0B tag. Mixing this up with the .db frame
// (which does carry the tag) is the classic source of silent corruption.
func writeRawString(buf *bytes.Buffer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("collection: string %q exceeds 255 bytes", s)
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}
