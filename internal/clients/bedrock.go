package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/streamcurator/beatmap-curator/internal/analysis"
	"github.com/streamcurator/beatmap-curator/internal/models"
)

// difficultyModelID is the Bedrock foundation model used to approximate
// star rating and performance points from a beatmap's hit object layout.
// Pinned rather than configurable: swapping models changes every stored
// analysis's meaning.
const difficultyModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// BedrockInvokeModelAPI is the subset of the AWS SDK Bedrock runtime client
// this adapter depends on, narrowed for testability.
type BedrockInvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient adapts Amazon Bedrock to the analysis.DifficultyCalculator
// contract, standing in for the native difficulty-calculation engine a
// beatmap editor ships with.
type BedrockClient struct {
	client BedrockInvokeModelAPI
}

// NewBedrockClient creates a new BedrockClient.
func NewBedrockClient(client BedrockInvokeModelAPI) *BedrockClient {
	return &BedrockClient{client: client}
}

// difficultyRequest is the payload sent to the model: a condensed
// description of the beatmap's layout and the mods under consideration.
type difficultyRequest struct {
	Mode           models.GameMode `json:"mode"`
	CircleSize     float32         `json:"circleSize"`
	HitObjectCount int             `json:"hitObjectCount"`
	AverageBPM     float64         `json:"averageBpm"`
	TotalLengthMS  float64         `json:"totalLengthMs"`
	ModsBitmask    int             `json:"modsBitmask"`
}

// difficultyResponse is the model's JSON reply: adjusted approach rate
// and overall difficulty plus a star rating, and PP at two accuracy
// anchors the calculator interpolates between.
type difficultyResponse struct {
	ApproachRate float64 `json:"approachRate"`
	OverallDiff  float64 `json:"overallDifficulty"`
	Stars        float64 `json:"stars"`
	PP100        float64 `json:"ppAt100"`
	PP95         float64 `json:"ppAt95"`
}

var _ analysis.DifficultyCalculator = (*BedrockClient)(nil)

// Calculate asks the model to rate parsed under the given mods bitmask.
func (c *BedrockClient) Calculate(parsed models.ParsedBeatmap, modsBitmask int) (analysis.DifficultyAttributes, error) {
	var totalLengthMS float64
	if n := len(parsed.HitObjects); n > 0 {
		totalLengthMS = parsed.HitObjects[n-1].StartTimeMS
	}

	req := difficultyRequest{
		Mode:           parsed.Mode,
		CircleSize:     parsed.CircleSize,
		HitObjectCount: len(parsed.HitObjects),
		AverageBPM:     parsed.AverageBPM(),
		TotalLengthMS:  totalLengthMS,
		ModsBitmask:    modsBitmask,
	}

	body, err := json.Marshal(struct {
		AnthropicVersion string `json:"anthropic_version"`
		MaxTokens        int    `json:"max_tokens"`
		Messages         []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        512,
		Messages: []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}{
			{Role: "user", Content: difficultyPrompt(req)},
		},
	})
	if err != nil {
		return analysis.DifficultyAttributes{}, fmt.Errorf("failed to marshal difficulty request: %w", err)
	}

	output, err := c.client.InvokeModel(context.Background(), &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(difficultyModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return analysis.DifficultyAttributes{}, fmt.Errorf("failed to invoke difficulty model: %w", err)
	}

	var modelResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(output.Body, &modelResp); err != nil {
		return analysis.DifficultyAttributes{}, fmt.Errorf("failed to unmarshal model envelope: %w", err)
	}

	var text string
	for _, block := range modelResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	var diff difficultyResponse
	if err := json.Unmarshal([]byte(text), &diff); err != nil {
		return analysis.DifficultyAttributes{}, fmt.Errorf("failed to unmarshal difficulty response: %w", err)
	}

	return analysis.DifficultyAttributes{
		ApproachRate: diff.ApproachRate,
		OverallDiff:  diff.OverallDiff,
		Stars:        diff.Stars,
		PP:           ppCurve(diff.PP100, diff.PP95),
	}, nil
}

// ppCurve builds a performance-points function from two known anchors,
// linearly interpolating between them and extrapolating beyond.
func ppCurve(pp100, pp95 float64) func(accuracy float64) float64 {
	slope := (pp100 - pp95) / (1.0 - 0.95)
	return func(accuracy float64) float64 {
		return pp95 + slope*(accuracy-0.95)
	}
}

func difficultyPrompt(req difficultyRequest) string {
	payload, _ := json.Marshal(req)
	return fmt.Sprintf(
		"Given this osu! beatmap summary, respond with ONLY a JSON object "+
			"with fields approachRate, overallDifficulty, stars, ppAt100, ppAt95: %s",
		payload,
	)
}
