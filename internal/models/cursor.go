package models

import (
	"encoding/base64"
	"encoding/json"
)

// PaginationCursor captures the DynamoDB key a paginated query should
// resume from.
type PaginationCursor struct {
	PK     string `json:"pk"`
	SK     string `json:"sk"`
	GSI1PK string `json:"gsi1pk,omitempty"`
	GSI1SK string `json:"gsi1sk,omitempty"`
}

// NewPaginationCursor builds a cursor from a primary key pair.
func NewPaginationCursor(pk, sk string) PaginationCursor {
	return PaginationCursor{PK: pk, SK: sk}
}

// EncodeCursor opaques a cursor into a URL-safe token for API responses.
func EncodeCursor(cursor PaginationCursor) string {
	data, err := json.Marshal(cursor)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(token string) (PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return PaginationCursor{}, err
	}
	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return PaginationCursor{}, err
	}
	return cursor, nil
}
