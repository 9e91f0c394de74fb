package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"single day", day(2025, 6, 1), day(2025, 6, 1), 1},
		{"eleven days", day(2025, 6, 1), day(2025, 6, 11), 11},
		{"twelve days", day(2025, 6, 1), day(2025, 6, 12), 12},
		{"across month boundary", day(2025, 1, 30), day(2025, 2, 2), 4},
		{"across year boundary", day(2024, 12, 30), day(2025, 1, 2), 4},
		{"leap february", day(2024, 2, 28), day(2024, 3, 1), 3},
		{"end before start", day(2025, 6, 2), day(2025, 6, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InclusiveDays(tt.start, tt.end))
		})
	}
}

func TestInclusiveDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 2.0, InclusiveDays(start, end))
}

func TestValidPeriodDays(t *testing.T) {
	for _, n := range []int{15, 30, 45} {
		assert.True(t, ValidPeriodDays(n), "%d should be valid", n)
	}
	for _, n := range []int{0, 1, 14, 16, 29, 31, 44, 46, 60, -15} {
		assert.False(t, ValidPeriodDays(n), "%d should be invalid", n)
	}
}
