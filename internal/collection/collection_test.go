package collection

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

func sampleBeatmaps() []Beatmap {
	return []Beatmap{
		{
			CollectionBeatmap: models.CollectionBeatmap{
				Checksum:         "e4ad76f1a6b4e3bcfb1652d49159eff9",
				ID:               847314,
				BeatmapsetID:     128931,
				DifficultyRating: 5.14,
			},
			BPM: 175,
		},
		{
			CollectionBeatmap: models.CollectionBeatmap{
				Checksum:         "d6c8ba1406ad3de9381f51abf74be544",
				ID:               476149,
				BeatmapsetID:     153776,
				DifficultyRating: 4.88,
			},
			BPM: 190,
		},
		{
			CollectionBeatmap: models.CollectionBeatmap{
				Checksum:         "1ff6975c142ac59e4731cb09f5d46bcc",
				ID:               1949106,
				BeatmapsetID:     933630,
				DifficultyRating: 7.49,
			},
			BPM: 210,
		},
	}
}

func TestGroupSingle_DB(t *testing.T) {
	groups := Group(sampleBeatmaps(), models.GroupSingle)
	require.Len(t, groups, 1)
	assert.Equal(t, "OST", groups[0].Name)

	data, err := EncodeDB(groups)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	writeI32(buf, 20220406)
	writeI32(buf, 1)
	buf.WriteByte(0x0B)
	buf.WriteByte(3)
	buf.WriteString("OST")
	writeI32(buf, 3)
	for _, cs := range []string{
		"e4ad76f1a6b4e3bcfb1652d49159eff9",
		"d6c8ba1406ad3de9381f51abf74be544",
		"1ff6975c142ac59e4731cb09f5d46bcc",
	} {
		buf.WriteByte(0x0B)
		buf.WriteByte(32)
		buf.WriteString(cs)
	}

	assert.Equal(t, buf.Bytes(), data)
}

func TestGroupByBPMDecade_DB(t *testing.T) {
	groups := Group(sampleBeatmaps(), models.GroupByBPMDecade)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"170-179", "190-199", "210-219"}, groupNames(groups))

	data, err := EncodeDB(groups)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	writeI32(buf, 20220406)
	writeI32(buf, 3)
	writeDecadeGroup(buf, "170-179", "e4ad76f1a6b4e3bcfb1652d49159eff9")
	writeDecadeGroup(buf, "190-199", "d6c8ba1406ad3de9381f51abf74be544")
	writeDecadeGroup(buf, "210-219", "1ff6975c142ac59e4731cb09f5d46bcc")

	assert.Equal(t, buf.Bytes(), data)
}

func TestGroupByBPMDecade_SortsRegardlessOfInputOrder(t *testing.T) {
	beatmaps := sampleBeatmaps()
	reversed := []Beatmap{beatmaps[2], beatmaps[0], beatmaps[1]}

	groups := Group(reversed, models.GroupByBPMDecade)
	assert.Equal(t, []string{"170-179", "190-199", "210-219"}, groupNames(groups))
}

func TestEncodeOSDB_SingleGroupPayload(t *testing.T) {
	groups := Group(sampleBeatmaps(), models.GroupSingle)

	data, err := EncodeOSDB(groups)
	require.NoError(t, err)

	// outer string frame: length byte + "o!dm8min", no 0x0B tag
	require.True(t, len(data) > 1+len(osdbVersion))
	assert.Equal(t, byte(len(osdbVersion)), data[0])
	assert.Equal(t, osdbVersion, string(data[1:1+len(osdbVersion)]))

	gz, err := gzip.NewReader(bytes.NewReader(data[1+len(osdbVersion):]))
	require.NoError(t, err)
	payload, err := io.ReadAll(gz)
	require.NoError(t, err)

	r := bytes.NewReader(payload)
	assert.Equal(t, osdbVersion, readRawString(t, r))

	var schema float64
	require.NoError(t, binary.Read(r, binary.LittleEndian, &schema))
	assert.Equal(t, 1.0, schema)

	assert.Equal(t, "Sombrax79", readRawString(t, r))

	var groupCount int32
	require.NoError(t, binary.Read(r, binary.LittleEndian, &groupCount))
	assert.EqualValues(t, 1, groupCount)

	assert.Equal(t, "OST", readRawString(t, r))

	var sentinel int32
	require.NoError(t, binary.Read(r, binary.LittleEndian, &sentinel))
	assert.EqualValues(t, -1, sentinel)

	var memberCount int32
	require.NoError(t, binary.Read(r, binary.LittleEndian, &memberCount))
	assert.EqualValues(t, 3, memberCount)

	expected := sampleBeatmaps()
	for _, exp := range expected {
		var id, beatmapsetID int32
		require.NoError(t, binary.Read(r, binary.LittleEndian, &id))
		require.NoError(t, binary.Read(r, binary.LittleEndian, &beatmapsetID))
		checksum := readRawString(t, r)

		flag1, err := r.ReadByte()
		require.NoError(t, err)
		flag2, err := r.ReadByte()
		require.NoError(t, err)

		var difficulty float64
		require.NoError(t, binary.Read(r, binary.LittleEndian, &difficulty))

		assert.Equal(t, exp.ID, id)
		assert.Equal(t, exp.BeatmapsetID, beatmapsetID)
		assert.Equal(t, exp.Checksum, checksum)
		assert.Equal(t, byte(0x00), flag1)
		assert.Equal(t, byte(0x01), flag2)
		assert.Equal(t, exp.DifficultyRating, difficulty)
	}

	var trailingZero int32
	require.NoError(t, binary.Read(r, binary.LittleEndian, &trailingZero))
	assert.EqualValues(t, 0, trailingZero)

	assert.Equal(t, "By Piotrekol", readRawString(t, r))
}

func TestEncodeDB_NameTooLong(t *testing.T) {
	longName := make([]byte, 256)
	for i := range longName {
		longName[i] = 'a'
	}
	groups := []models.Group{{Name: string(longName)}}

	_, err := EncodeDB(groups)
	assert.Error(t, err)
}

func groupNames(groups []models.Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func writeI32(buf *bytes.Buffer, v int32) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func writeDecadeGroup(buf *bytes.Buffer, name, checksum string) {
	buf.WriteByte(0x0B)
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	writeI32(buf, 1)
	buf.WriteByte(0x0B)
	buf.WriteByte(32)
	buf.WriteString(checksum)
}

func readRawString(t *testing.T, r *bytes.Reader) string {
	t.Helper()
	length, err := r.ReadByte()
	require.NoError(t, err)
	out := make([]byte, length)
	_, err = io.ReadFull(r, out)
	require.NoError(t, err)
	return string(out)
}
