package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func days(d int) *int { return &d }

func TestPriorityBuckets(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "low"},
		{2, "low"},
		{3, "medium"},
		{4, "medium"},
		{5, "high"},
		{7, "high"},
		{8, "very high"},
		{20, "very high"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Priority(tt.score), "score %d", tt.score)
	}
}

func TestUrgencyBoundaries(t *testing.T) {
	tests := []struct {
		days *int
		want string
	}{
		{nil, ""},
		{days(-1), "closed"},
		{days(0), "urgent"},
		{days(5), "urgent"},
		{days(6), "attention"},
		{days(10), "attention"},
		{days(11), "on schedule"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Urgency(tt.days))
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, DaysRemaining(nil, now))

	in3 := now.Add(72 * time.Hour)
	assert.Equal(t, 3, *DaysRemaining(&in3, now))

	in3half := now.Add(84 * time.Hour)
	assert.Equal(t, 3, *DaysRemaining(&in3half, now), "partial days truncate down")

	pastHalf := now.Add(-12 * time.Hour)
	assert.Equal(t, -1, *DaysRemaining(&pastHalf, now), "past deadlines floor, not truncate")

	pastExact := now.Add(-48 * time.Hour)
	assert.Equal(t, -2, *DaysRemaining(&pastExact, now))
}
