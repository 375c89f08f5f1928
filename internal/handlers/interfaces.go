package handlers

import (
	"context"

	"github.com/streamcurator/beatmap-curator/internal/analysis"
	"github.com/streamcurator/beatmap-curator/internal/models"
	"github.com/streamcurator/beatmap-curator/internal/repository"
)

// AnalysisServiceInterface is the handler-facing view of service.AnalysisService,
// kept separate so handler tests can mock it without depending on the
// concrete service package.
type AnalysisServiceInterface interface {
	AnalyzeBeatmap(ctx context.Context, parser analysis.BeatmapParser, beatmapID, beatmapsetID int32, checksum string, fileBytes []byte) (*repository.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, checksum string) (*repository.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter repository.AnalysisFilter) (*repository.PaginatedResult[repository.AnalysisRecord], error)
}

// CollectionServiceInterface is the handler-facing view of
// service.CollectionService.
type CollectionServiceInterface interface {
	CreateGroup(ctx context.Context, ownerID, name string, mode models.GroupingMode) (*repository.GroupRecord, error)
	GetGroup(ctx context.Context, ownerID, name string) (*repository.GroupRecord, error)
	AddMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error)
	RemoveMembers(ctx context.Context, ownerID, name string, checksums []string) (*repository.GroupRecord, error)
	DeleteGroup(ctx context.Context, ownerID, name string) error
	ListGroups(ctx context.Context, ownerID string) ([]repository.GroupRecord, error)
	ExportCollection(ctx context.Context, ownerID, name string, format models.CollectionFormat) (string, error)
	TriggerRebuild(ctx context.Context, ownerID string) (string, error)
}

// CuratorServiceInterface is the handler-facing view of
// service.CuratorService.
type CuratorServiceInterface interface {
	PromoteToCurator(ctx context.Context, userID string) error
	DemoteFromCurator(ctx context.Context, userID string) error
	ListRoles(ctx context.Context, userID string) ([]string, error)
	SuspendUser(ctx context.Context, userID string) error
	ReinstateUser(ctx context.Context, userID string) error
}
