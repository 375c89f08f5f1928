package collection

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// dbVersion is the osu! database version number embedded in every .db
// collection file this encoder emits.
const dbVersion int32 = 20220406

const stringFrameTag byte = 0x0B

// EncodeDB produces a .db collection file: little-endian version,
// group count, then per group a tagged string frame for the name, the
// member count, and one tagged string frame per checksum.
func EncodeDB(groups []models.Group) ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.LittleEndian, dbVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, int32(len(groups))); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if err := writeDBString(buf, g.Name); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, int32(len(g.Beatmaps))); err != nil {
			return nil, err
		}
		for _, b := range g.Beatmaps {
			if err := writeDBString(buf, b.Checksum); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func writeDBString(buf *bytes.Buffer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("collection: string %q exceeds 255 bytes", s)
	}
	buf.WriteByte(stringFrameTag)
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}
