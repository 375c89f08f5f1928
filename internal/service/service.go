package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamcurator/beatmap-curator/internal/analysis"
	"github.com/streamcurator/beatmap-curator/internal/collection"
	"github.com/streamcurator/beatmap-curator/internal/models"
	"github.com/streamcurator/beatmap-curator/internal/repository"
)

// StepFunctionsStartInput describes one Step Functions execution request.
type StepFunctionsStartInput struct {
	StateMachineArn string
	Name            string
	Input           string
}

// StepFunctionsStartOutput is what StartExecution returns on success.
type StepFunctionsStartOutput struct {
	ExecutionArn string
	StartDate    time.Time
}

// StepFunctionsClient starts a state machine execution. Narrowed so the
// rebuild pipeline can be triggered without depending on the full SFN SDK
// surface.
type StepFunctionsClient interface {
	StartExecution(ctx context.Context, input *StepFunctionsStartInput) (*StepFunctionsStartOutput, error)
}

// AnalysisService runs the stream analyzer over a beatmap and persists the
// result, keyed by the beatmap's checksum so repeated uploads of the same
// file are idempotent.
type AnalysisService interface {
	AnalyzeBeatmap(ctx context.Context, parser analysis.BeatmapParser, beatmapID, beatmapsetID int32, checksum string, fileBytes []byte) (*repository.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, checksum string) (*repository.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter repository.AnalysisFilter) (*repository.PaginatedResult[repository.AnalysisRecord], error)
}

type analysisService struct {
	repo     repository.Repository
	analyzer *analysis.Analyzer
}

// NewAnalysisService builds an AnalysisService backed by repo and analyzer.
func NewAnalysisService(repo repository.Repository, analyzer *analysis.Analyzer) AnalysisService {
	return &analysisService{repo: repo, analyzer: analyzer}
}

func (s *analysisService) AnalyzeBeatmap(ctx context.Context, parser analysis.BeatmapParser, beatmapID, beatmapsetID int32, checksum string, fileBytes []byte) (*repository.AnalysisRecord, error) {
	existing, err := s.repo.GetAnalysis(ctx, checksum)
	if err == nil {
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to look up existing analysis: %w", err)
	}

	record := repository.AnalysisRecord{
		Checksum:     checksum,
		BeatmapID:    beatmapID,
		BeatmapsetID: beatmapsetID,
		Status:       models.AnalysisStatusProcessing,
	}
	if err := s.repo.CreateAnalysis(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}

	result, analyzeErr := s.analyzer.AnalyzeBytes(parser, fileBytes)
	if analyzeErr != nil {
		record.Status = models.AnalysisStatusFailed
		record.Error = analyzeErr.Error()
		if err := s.repo.UpdateAnalysis(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to persist failed analysis: %w", err)
		}
		return &record, nil
	}

	record.Status = models.AnalysisStatusCompleted
	record.Analysis = &result
	if err := s.repo.UpdateAnalysis(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist completed analysis: %w", err)
	}
	return &record, nil
}

func (s *analysisService) GetAnalysis(ctx context.Context, checksum string) (*repository.AnalysisRecord, error) {
	return s.repo.GetAnalysis(ctx, checksum)
}

func (s *analysisService) ListAnalyses(ctx context.Context, filter repository.AnalysisFilter) (*repository.PaginatedResult[repository.AnalysisRecord], error) {
	return s.repo.ListAnalyses(ctx, filter)
}

// CollectionService manages curator-assembled groups of analyzed beatmaps
// and renders them into downloadable .db/.osdb collection files.
type CollectionService interface {
	CreateGroup(ctx context.Context, ownerID, name string, mode models.GroupingMode) (*repository.GroupRecord, error)
	GetGroup(ctx context.Context, ownerID, name string) (*repository.GroupRecord, error)
	AddMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error)
	RemoveMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error)
	DeleteGroup(ctx context.Context, ownerID, name string) error
	ListGroups(ctx context.Context, ownerID string) ([]repository.GroupRecord, error)
	ExportCollection(ctx context.Context, ownerID, name string, format models.CollectionFormat) (string, error)
	TriggerRebuild(ctx context.Context, ownerID string) (string, error)
}

type collectionService struct {
	repo             repository.Repository
	objects          repository.S3Repository
	stepFunctions    StepFunctionsClient
	exportBucketPath string
	rebuildStateMachineArn string
}

// NewCollectionService builds a CollectionService.
func NewCollectionService(repo repository.Repository, objects repository.S3Repository, stepFunctions StepFunctionsClient, exportBucketPath, rebuildStateMachineArn string) CollectionService {
	return &collectionService{
		repo:                   repo,
		objects:                objects,
		stepFunctions:          stepFunctions,
		exportBucketPath:       exportBucketPath,
		rebuildStateMachineArn: rebuildStateMachineArn,
	}
}

func (s *collectionService) CreateGroup(ctx context.Context, ownerID, name string, mode models.GroupingMode) (*repository.GroupRecord, error) {
	record := repository.GroupRecord{Name: name, Mode: mode, OwnerID: ownerID}
	if err := s.repo.CreateGroup(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return &record, nil
}

func (s *collectionService) GetGroup(ctx context.Context, ownerID, name string) (*repository.GroupRecord, error) {
	return s.repo.GetGroup(ctx, ownerID, name)
}

func (s *collectionService) AddMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error) {
	group, err := s.repo.GetGroup(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(group.Members))
	for _, c := range group.Members {
		existing[c] = true
	}
	for _, c := range checksums {
		if !existing[c] {
			group.Members = append(group.Members, c)
			existing[c] = true
		}
	}

	if err := s.repo.UpdateGroup(ctx, *group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

func (s *collectionService) RemoveMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error) {
	group, err := s.repo.GetGroup(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	remove := make(map[string]bool, len(checksums))
	for _, c := range checksums {
		remove[c] = true
	}
	kept := group.Members[:0]
	for _, c := range group.Members {
		if !remove[c] {
			kept = append(kept, c)
		}
	}
	group.Members = kept

	if err := s.repo.UpdateGroup(ctx, *group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

func (s *collectionService) DeleteGroup(ctx context.Context, ownerID, name string) error {
	return s.repo.DeleteGroup(ctx, ownerID, name)
}

func (s *collectionService) ListGroups(ctx context.Context, ownerID string) ([]repository.GroupRecord, error) {
	return s.repo.ListGroups(ctx, ownerID)
}

// ExportCollection resolves a group's member checksums to their analyzed
// beatmap metadata, encodes them as format, uploads the result, and
// returns a presigned download URL.
func (s *collectionService) ExportCollection(ctx context.Context, ownerID, name string, format models.CollectionFormat) (string, error) {
	group, err := s.repo.GetGroup(ctx, ownerID, name)
	if err != nil {
		return "", err
	}

	analyses, err := s.repo.BatchGetAnalyses(ctx, group.Members)
	if err != nil {
		return "", fmt.Errorf("failed to load group members: %w", err)
	}

	beatmaps := make([]collection.Beatmap, 0, len(group.Members))
	for _, checksum := range group.Members {
		record, ok := analyses[checksum]
		if !ok || record.Analysis == nil {
			continue
		}
		beatmaps = append(beatmaps, collection.Beatmap{
			CollectionBeatmap: models.CollectionBeatmap{
				Checksum:         checksum,
				ID:               record.BeatmapID,
				BeatmapsetID:     record.BeatmapsetID,
				DifficultyRating: float64(record.Analysis.DifficultyStars.NoModification),
			},
			BPM: record.Analysis.BPMPredominant,
		})
	}

	groups := collection.Group(beatmaps, group.Mode)

	var body []byte
	var contentType, extension string
	switch format {
	case models.FormatDB:
		body, err = collection.EncodeDB(groups)
		contentType, extension = "application/octet-stream", "db"
	case models.FormatOSDB:
		body, err = collection.EncodeOSDB(groups)
		contentType, extension = "application/octet-stream", "osdb"
	default:
		return "", fmt.Errorf("unsupported collection format: %d", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s-%s.%s", s.exportBucketPath, ownerID, name, uuid.New().String()[:8], extension)
	if err := s.objects.PutObject(ctx, key, body, contentType); err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.objects.GeneratePresignedDownloadURL(ctx, key, 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to generate download url: %w", err)
	}
	return url, nil
}

// TriggerRebuild kicks off the asynchronous full-collection rebuild state
// machine for ownerID, re-exporting every group from current analyses.
func (s *collectionService) TriggerRebuild(ctx context.Context, ownerID string) (string, error) {
	execution, err := s.stepFunctions.StartExecution(ctx, &StepFunctionsStartInput{
		StateMachineArn: s.rebuildStateMachineArn,
		Name:            fmt.Sprintf("rebuild-%s-%s", ownerID, uuid.New().String()[:8]),
		Input:           fmt.Sprintf(`{"ownerId":%q}`, ownerID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to start rebuild execution: %w", err)
	}
	return execution.ExecutionArn, nil
}

// Services bundles every domain service the HTTP layer depends on.
type Services struct {
	Analysis   AnalysisService
	Collection CollectionService
	Curator    CuratorService
}
