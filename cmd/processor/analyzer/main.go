package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/streamcurator/beatmap-curator/internal/analysis"
	"github.com/streamcurator/beatmap-curator/internal/clients"
	"github.com/streamcurator/beatmap-curator/internal/osufile"
	"github.com/streamcurator/beatmap-curator/internal/repository"
	"github.com/streamcurator/beatmap-curator/internal/service"
	"github.com/streamcurator/beatmap-curator/internal/validation"
)

// Event is the input a Step Functions rebuild/ingest pipeline hands this
// processor for one freshly uploaded beatmap.
type Event struct {
	BeatmapID    int32  `json:"beatmapId"`
	BeatmapsetID int32  `json:"beatmapsetId"`
	Checksum     string `json:"checksum"`
	S3Key        string `json:"s3Key"`
	BucketName   string `json:"bucketName"`
}

// Response is the output handed back to Step Functions.
type Response struct {
	Analyzed bool   `json:"analyzed"`
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

var (
	s3Client    *s3.Client
	analysisSvc service.AnalysisService
)

func init() {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	s3Client = s3.NewFromConfig(cfg)
	dynamoClient := dynamodb.NewFromConfig(cfg)
	bedrockClient := bedrockruntime.NewFromConfig(cfg)

	tableName := os.Getenv("TABLE_NAME")
	repo := repository.NewDynamoDBRepository(dynamoClient, tableName)

	difficultyCalc := clients.NewBedrockClient(bedrockClient)
	analyzer := analysis.NewAnalyzer(difficultyCalc)

	analysisSvc = service.NewAnalysisService(repo, analyzer)
}

func handleRequest(ctx context.Context, event Event) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	if err := validation.ValidateFileSize(ctx, s3Client, event.BucketName, event.S3Key); err != nil {
		return &Response{Analyzed: false, Error: fmt.Sprintf("file validation failed: %v", err)}, nil
	}

	result, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &event.BucketName,
		Key:    &event.S3Key,
	})
	if err != nil {
		return &Response{Analyzed: false, Error: fmt.Sprintf("failed to download from S3: %v", err)}, nil
	}
	defer result.Body.Close()

	fileBytes, err := io.ReadAll(result.Body)
	if err != nil {
		return &Response{Analyzed: false, Error: fmt.Sprintf("failed to read beatmap body: %v", err)}, nil
	}

	record, err := analysisSvc.AnalyzeBeatmap(ctx, osufile.NewParser(), event.BeatmapID, event.BeatmapsetID, event.Checksum, fileBytes)
	if err != nil {
		return &Response{Analyzed: false, Error: fmt.Sprintf("analysis failed: %v", err)}, nil
	}

	return &Response{Analyzed: true, Status: string(record.Status)}, nil
}

func main() {
	lambda.Start(handleRequest)
}
