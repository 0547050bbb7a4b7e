package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWeekStartFor(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "sunday maps to itself",
			input:    time.Date(2024, 1, 7, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "wednesday maps back to sunday",
			input:    time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "saturday is the last day of the week",
			input:    time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "next sunday starts a new week",
			input:    time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekStartFor(tt.input))
		})
	}
}

func TestEmptyReviewFor(t *testing.T) {
	userID := uuid.New()
	review := EmptyReviewFor(userID, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, userID, review.UserID)
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), review.WeekStart)
	assert.False(t, review.ShippedOutsideBuilding)
	assert.Empty(t, review.Progress)
}

func TestParseHealthStatus(t *testing.T) {
	assert.Equal(t, HealthStatusCritical, ParseHealthStatus("critical"))
	assert.Equal(t, HealthStatusHealthy, ParseHealthStatus(""))
	assert.Equal(t, HealthStatusUnknown, ParseHealthStatus("on fire"))
}

func TestPositionNormalizeEnums(t *testing.T) {
	p := &PortfolioPosition{Status: "dormant", HealthStatus: "thriving"}
	p.NormalizeEnums()
	assert.Equal(t, PositionStatusUnknown, p.Status)
	assert.Equal(t, HealthStatusUnknown, p.HealthStatus)

	p = &PortfolioPosition{Status: "Active", HealthStatus: ""}
	p.NormalizeEnums()
	assert.Equal(t, PositionStatusActive, p.Status)
	assert.Equal(t, HealthStatusHealthy, p.HealthStatus)
}
