package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidChecksum(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase hex", "e4ad76f1a6b4e3bcfb1652d49159eff9", true},
		{"uppercase rejected", "E4AD76F1A6B4E3BCFB1652D49159EFF9", false},
		{"too short", "e4ad76f1a6b4e3bcfb1652d49159eff", false},
		{"too long", "e4ad76f1a6b4e3bcfb1652d49159eff99", false},
		{"non-hex characters", "g4ad76f1a6b4e3bcfb1652d49159eff9", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidChecksum(tt.input))
		})
	}
}

func TestValidateChecksum(t *testing.T) {
	assert.NoError(t, ValidateChecksum("e4ad76f1a6b4e3bcfb1652d49159eff9"))
	assert.Error(t, ValidateChecksum("not-a-checksum"))
}

func TestValidateGroupName(t *testing.T) {
	assert.NoError(t, ValidateGroupName("OST"))
	assert.Error(t, ValidateGroupName(""))
	assert.Error(t, ValidateGroupName(strings.Repeat("a", MaxGroupNameBytes+1)))

	// exactly at the limit is fine
	assert.NoError(t, ValidateGroupName(strings.Repeat("a", MaxGroupNameBytes)))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
