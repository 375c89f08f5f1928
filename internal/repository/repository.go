package repository

import (
	"context"
	"errors"
	"time"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// Common repository errors
var (
	ErrNotFound      = errors.New("item not found")
	ErrAlreadyExists = errors.New("item already exists")
	ErrInvalidCursor = errors.New("invalid pagination cursor")
	ErrInvalidInput  = errors.New("invalid input")
)

// PaginatedResult represents a paginated query result
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// AnalysisRecord is the persisted form of a BeatmapAnalysis, keyed by the
// beatmap's checksum.
type AnalysisRecord struct {
	Checksum     string
	BeatmapID    int32
	BeatmapsetID int32
	Status       models.AnalysisStatus
	Analysis     *models.BeatmapAnalysis
	Error        string
	models.Timestamps
}

// AnalysisFilter narrows a checksum-less listing of analysis records.
type AnalysisFilter struct {
	Status models.AnalysisStatus
	Limit  int
	Cursor string
}

// GroupRecord is a named, persisted bucket of beatmaps a curator has
// assembled ahead of a collection export.
type GroupRecord struct {
	Name     string
	Mode     models.GroupingMode
	Members  []string // checksums, in curator-assigned order
	OwnerID  string
	models.Timestamps
}

// Repository defines the data access interface for DynamoDB operations.
type Repository interface {
	// Analysis operations
	CreateAnalysis(ctx context.Context, record AnalysisRecord) error
	GetAnalysis(ctx context.Context, checksum string) (*AnalysisRecord, error)
	UpdateAnalysis(ctx context.Context, record AnalysisRecord) error
	DeleteAnalysis(ctx context.Context, checksum string) error
	ListAnalyses(ctx context.Context, filter AnalysisFilter) (*PaginatedResult[AnalysisRecord], error)
	BatchGetAnalyses(ctx context.Context, checksums []string) (map[string]*AnalysisRecord, error)

	// Group operations
	CreateGroup(ctx context.Context, group GroupRecord) error
	GetGroup(ctx context.Context, ownerID, name string) (*GroupRecord, error)
	UpdateGroup(ctx context.Context, group GroupRecord) error
	DeleteGroup(ctx context.Context, ownerID, name string) error
	ListGroups(ctx context.Context, ownerID string) ([]GroupRecord, error)
}

// S3Repository defines object storage operations for raw beatmap blobs
// and generated collection exports.
type S3Repository interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
