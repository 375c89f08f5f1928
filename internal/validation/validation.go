// Package validation provides input validation utilities for Lambda processors.
package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxFileSizeBytes is the maximum allowed file size for a beatmap upload (10MB).
// A .osu file almost never exceeds a few hundred KB; 10MB gives headroom for
// dense marathon maps without admitting unrelated uploads.
const MaxFileSizeBytes int64 = 10 * 1024 * 1024

// ProcessorTimeoutSeconds is the timeout for processor Lambda operations.
// Set to 5 seconds less than Lambda timeout to allow graceful shutdown.
const ProcessorTimeoutSeconds = 55

// MaxGroupNameBytes is the longest group name the .db/.osdb binary formats
// can encode (a single length-prefixed byte).
const MaxGroupNameBytes = 255

// uuidRegex matches UUID v4 format (with or without hyphens).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?4[0-9a-fA-F]{3}-?[89abAB][0-9a-fA-F]{3}-?[0-9a-fA-F]{12}$`)

// checksumRegex matches the 32-character lowercase hex MD5 checksum osu!
// uses to identify a beatmap file.
var checksumRegex = regexp.MustCompile(`^[0-9a-f]{32}$`)

// IsValidUUID returns true if the string is a valid UUID v4 format.
func IsValidUUID(s string) bool {
	if s == "" {
		return false
	}
	return uuidRegex.MatchString(s)
}

// ValidateUUID returns an error if the string is not a valid UUID.
func ValidateUUID(s, fieldName string) error {
	if !IsValidUUID(s) {
		return fmt.Errorf("invalid %s: must be a valid UUID", fieldName)
	}
	return nil
}

// IsValidChecksum returns true if s is a 32-character lowercase hex MD5 checksum.
func IsValidChecksum(s string) bool {
	return checksumRegex.MatchString(s)
}

// ValidateChecksum returns an error if s is not a valid beatmap checksum.
func ValidateChecksum(s string) error {
	if !IsValidChecksum(s) {
		return fmt.Errorf("invalid checksum: must be a 32-character hex string")
	}
	return nil
}

// ValidateGroupName returns an error if name is empty or too long to encode
// in a .db/.osdb collection file.
func ValidateGroupName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid group name: must not be empty")
	}
	if len(name) > MaxGroupNameBytes {
		return fmt.Errorf("invalid group name: must be at most %d bytes", MaxGroupNameBytes)
	}
	return nil
}

// S3HeadObjectAPI defines the interface for S3 HeadObject operation.
type S3HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// ValidateFileSize checks if the S3 object is within the allowed size limit.
// Returns an error if the file exceeds MaxFileSizeBytes.
func ValidateFileSize(ctx context.Context, client S3HeadObjectAPI, bucket, key string) error {
	result, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	if result.ContentLength != nil && *result.ContentLength > MaxFileSizeBytes {
		return &FileSizeError{Size: *result.ContentLength, MaxSize: MaxFileSizeBytes}
	}

	return nil
}

// FileSizeError is returned when a file exceeds the maximum allowed size.
type FileSizeError struct {
	Size    int64
	MaxSize int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("file size %d bytes exceeds maximum allowed size of %d bytes",
		e.Size, e.MaxSize)
}
