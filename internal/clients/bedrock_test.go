package clients

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

type fakeBedrockInvoke struct {
	response []byte
	err      error
	lastReq  *bedrockruntime.InvokeModelInput
}

func (f *fakeBedrockInvoke) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastReq = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.response}, nil
}

func claudeEnvelope(t *testing.T, diff difficultyResponse) []byte {
	t.Helper()
	text, err := json.Marshal(diff)
	require.NoError(t, err)

	envelope, err := json.Marshal(struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}{
		Content: []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{
			{Type: "text", Text: string(text)},
		},
	})
	require.NoError(t, err)
	return envelope
}

func TestBedrockClient_Calculate(t *testing.T) {
	fake := &fakeBedrockInvoke{
		response: claudeEnvelope(t, difficultyResponse{
			ApproachRate: 9.2,
			OverallDiff:  8.6,
			Stars:        5.43,
			PP100:        320,
			PP95:         240,
		}),
	}
	client := NewBedrockClient(fake)

	parsed := models.ParsedBeatmap{
		Mode:       models.ModeStandard,
		CircleSize: 4,
		HitObjects: []models.HitObject{
			{StartTimeMS: 0}, {StartTimeMS: 100}, {StartTimeMS: 200},
		},
		TimingPoints: []models.TimingPoint{{BeatLenMS: 300}},
	}

	attrs, err := client.Calculate(parsed, 0)
	require.NoError(t, err)
	assert.InDelta(t, 9.2, attrs.ApproachRate, 0.0001)
	assert.InDelta(t, 8.6, attrs.OverallDiff, 0.0001)
	assert.InDelta(t, 5.43, attrs.Stars, 0.0001)
	require.NotNil(t, attrs.PP)
	assert.InDelta(t, 320, attrs.PP(1.0), 0.0001)
	assert.InDelta(t, 240, attrs.PP(0.95), 0.0001)

	require.NotNil(t, fake.lastReq)
	assert.Equal(t, difficultyModelID, *fake.lastReq.ModelId)
}

func TestBedrockClient_Calculate_InvokeError(t *testing.T) {
	fake := &fakeBedrockInvoke{err: errors.New("throttled")}
	client := NewBedrockClient(fake)

	_, err := client.Calculate(models.ParsedBeatmap{}, 0)
	assert.Error(t, err)
}

func TestBedrockClient_Calculate_MalformedResponse(t *testing.T) {
	fake := &fakeBedrockInvoke{response: []byte("not json")}
	client := NewBedrockClient(fake)

	_, err := client.Calculate(models.ParsedBeatmap{}, 0)
	assert.Error(t, err)
}
