package models

import "time"

// EntityType represents the type of entity in the single-table design
type EntityType string

const (
	EntityBeatmapAnalysis EntityType = "ANALYSIS"
	EntityGroup           EntityType = "GROUP"
	EntityExport          EntityType = "EXPORT"
)

// AnalysisStatus tracks a beatmap analysis job through the pipeline.
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "PENDING"
	AnalysisStatusProcessing AnalysisStatus = "PROCESSING"
	AnalysisStatusCompleted  AnalysisStatus = "COMPLETED"
	AnalysisStatusFailed     AnalysisStatus = "FAILED"
)

// Timestamps provides common timestamp fields
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// DynamoDBItem represents a base item for single-table design
type DynamoDBItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty"`
	Type   string `dynamodbav:"Type"`
}

// Pagination represents pagination parameters
type Pagination struct {
	Limit         int    `json:"limit"`
	LastKey       string `json:"lastKey,omitempty"`
	NextKey       string `json:"nextKey,omitempty"`
	TotalEstimate int    `json:"totalEstimate,omitempty"`
}

// PaginatedResponse wraps paginated results
type PaginatedResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
