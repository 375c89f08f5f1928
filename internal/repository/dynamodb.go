package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// DynamoDBClient is the subset of the AWS SDK DynamoDB client this
// repository depends on, narrowed for testability.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// DynamoDBRepository implements Repository on top of a single DynamoDB
// table: analyses are keyed by checksum, groups by owner and name.
type DynamoDBRepository struct {
	client    DynamoDBClient
	tableName string
}

// NewDynamoDBRepository builds a DynamoDBRepository against tableName.
func NewDynamoDBRepository(client DynamoDBClient, tableName string) *DynamoDBRepository {
	return &DynamoDBRepository{client: client, tableName: tableName}
}

// ============================================================================
// Analysis operations
// ============================================================================

type analysisItem struct {
	models.DynamoDBItem
	Checksum     string                  `dynamodbav:"checksum"`
	BeatmapID    int32                   `dynamodbav:"beatmapId"`
	BeatmapsetID int32                   `dynamodbav:"beatmapsetId"`
	Status       models.AnalysisStatus   `dynamodbav:"status"`
	Analysis     *models.BeatmapAnalysis `dynamodbav:"analysis,omitempty"`
	Error        string                  `dynamodbav:"error,omitempty"`
	models.Timestamps
}

func analysisPK(checksum string) string {
	return fmt.Sprintf("ANALYSIS#%s", checksum)
}

func newAnalysisItem(r AnalysisRecord) analysisItem {
	return analysisItem{
		DynamoDBItem: models.DynamoDBItem{
			PK:     analysisPK(r.Checksum),
			SK:     "METADATA",
			GSI1PK: fmt.Sprintf("ANALYSIS#STATUS#%s", r.Status),
			GSI1SK: r.CreatedAt.Format(time.RFC3339),
			Type:   string(models.EntityBeatmapAnalysis),
		},
		Checksum:     r.Checksum,
		BeatmapID:    r.BeatmapID,
		BeatmapsetID: r.BeatmapsetID,
		Status:       r.Status,
		Analysis:     r.Analysis,
		Error:        r.Error,
		Timestamps:   r.Timestamps,
	}
}

func (i analysisItem) record() AnalysisRecord {
	return AnalysisRecord{
		Checksum:     i.Checksum,
		BeatmapID:    i.BeatmapID,
		BeatmapsetID: i.BeatmapsetID,
		Status:       i.Status,
		Analysis:     i.Analysis,
		Error:        i.Error,
		Timestamps:   i.Timestamps,
	}
}

func (r *DynamoDBRepository) CreateAnalysis(ctx context.Context, record AnalysisRecord) error {
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	av, err := attributevalue.MarshalMap(newAnalysisItem(record))
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) GetAnalysis(ctx context.Context, checksum string) (*AnalysisRecord, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: analysisPK(checksum)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var item analysisItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	record := item.record()
	return &record, nil
}

func (r *DynamoDBRepository) UpdateAnalysis(ctx context.Context, record AnalysisRecord) error {
	record.UpdatedAt = time.Now()

	av, err := attributevalue.MarshalMap(newAnalysisItem(record))
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to update analysis: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) DeleteAnalysis(ctx context.Context, checksum string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: analysisPK(checksum)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) ListAnalyses(ctx context.Context, filter AnalysisFilter) (*PaginatedResult[AnalysisRecord], error) {
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	status := filter.Status
	if status == "" {
		status = models.AnalysisStatusCompleted
	}

	keyCondition := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("ANALYSIS#STATUS#%s", status)))
	builder := expression.NewBuilder().WithKeyCondition(keyCondition)
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(limit + 1)),
	}
	if filter.Cursor != "" {
		cursor, err := models.DecodeCursor(filter.Cursor)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		input.ExclusiveStartKey = cursorToAttributeValue(cursor)
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}

	var items []analysisItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analyses: %w", err)
	}

	records := make([]AnalysisRecord, 0, len(items))
	for _, item := range items {
		records = append(records, item.record())
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	var nextCursor string
	if hasMore && len(records) > 0 {
		last := records[len(records)-1]
		cursor := models.NewPaginationCursor(analysisPK(last.Checksum), "METADATA")
		cursor.GSI1PK = fmt.Sprintf("ANALYSIS#STATUS#%s", status)
		cursor.GSI1SK = last.CreatedAt.Format(time.RFC3339)
		nextCursor = models.EncodeCursor(cursor)
	}

	return &PaginatedResult[AnalysisRecord]{Items: records, NextCursor: nextCursor, HasMore: hasMore}, nil
}

func (r *DynamoDBRepository) BatchGetAnalyses(ctx context.Context, checksums []string) (map[string]*AnalysisRecord, error) {
	out := make(map[string]*AnalysisRecord, len(checksums))
	if len(checksums) == 0 {
		return out, nil
	}

	const batchSize = 100
	for start := 0; start < len(checksums); start += batchSize {
		end := start + batchSize
		if end > len(checksums) {
			end = len(checksums)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, checksum := range checksums[start:end] {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: analysisPK(checksum)},
				"SK": &types.AttributeValueMemberS{Value: "METADATA"},
			})
		}

		result, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get analyses: %w", err)
		}

		var items []analysisItem
		if err := attributevalue.UnmarshalListOfMaps(result.Responses[r.tableName], &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analyses: %w", err)
		}
		for _, item := range items {
			record := item.record()
			out[record.Checksum] = &record
		}
	}

	return out, nil
}

// ============================================================================
// Group operations
// ============================================================================

type groupItem struct {
	models.DynamoDBItem
	Name    string              `dynamodbav:"name"`
	Mode    models.GroupingMode `dynamodbav:"mode"`
	Members []string            `dynamodbav:"members"`
	OwnerID string              `dynamodbav:"ownerId"`
	models.Timestamps
}

func newGroupItem(g GroupRecord) groupItem {
	return groupItem{
		DynamoDBItem: models.DynamoDBItem{
			PK:   fmt.Sprintf("USER#%s", g.OwnerID),
			SK:   fmt.Sprintf("GROUP#%s", g.Name),
			Type: string(models.EntityGroup),
		},
		Name:       g.Name,
		Mode:       g.Mode,
		Members:    g.Members,
		OwnerID:    g.OwnerID,
		Timestamps: g.Timestamps,
	}
}

func (i groupItem) record() GroupRecord {
	return GroupRecord{
		Name:       i.Name,
		Mode:       i.Mode,
		Members:    i.Members,
		OwnerID:    i.OwnerID,
		Timestamps: i.Timestamps,
	}
}

func (r *DynamoDBRepository) CreateGroup(ctx context.Context, group GroupRecord) error {
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt

	av, err := attributevalue.MarshalMap(newGroupItem(group))
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) GetGroup(ctx context.Context, ownerID, name string) (*GroupRecord, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", ownerID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("GROUP#%s", name)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var item groupItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	record := item.record()
	return &record, nil
}

func (r *DynamoDBRepository) UpdateGroup(ctx context.Context, group GroupRecord) error {
	group.UpdatedAt = time.Now()

	av, err := attributevalue.MarshalMap(newGroupItem(group))
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) DeleteGroup(ctx context.Context, ownerID, name string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", ownerID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("GROUP#%s", name)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) ListGroups(ctx context.Context, ownerID string) ([]GroupRecord, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("USER#%s", ownerID))).
		And(expression.Key("SK").BeginsWith("GROUP#"))

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}

	var items []groupItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal groups: %w", err)
	}

	groups := make([]GroupRecord, 0, len(items))
	for _, item := range items {
		groups = append(groups, item.record())
	}
	return groups, nil
}

// ============================================================================
// Helpers
// ============================================================================

func cursorToAttributeValue(cursor models.PaginationCursor) map[string]types.AttributeValue {
	av := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: cursor.PK},
		"SK": &types.AttributeValueMemberS{Value: cursor.SK},
	}
	if cursor.GSI1PK != "" {
		av["GSI1PK"] = &types.AttributeValueMemberS{Value: cursor.GSI1PK}
	}
	if cursor.GSI1SK != "" {
		av["GSI1SK"] = &types.AttributeValueMemberS{Value: cursor.GSI1SK}
	}
	return av
}
