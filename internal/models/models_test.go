package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}

func TestWindow_ContainsEndpointDaysFully(t *testing.T) {
	w := Window{Start: day("2026-10-01"), End: day("2026-10-07")}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start midnight", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), true},
		{"end day late evening", time.Date(2026, 10, 7, 23, 59, 59, 0, time.UTC), true},
		{"end day last nanosecond", time.Date(2026, 10, 7, 23, 59, 59, 999999999, time.UTC), true},
		{"day before start", time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC), false},
		{"day after end", time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.at))
		})
	}
}

func TestWindow_BoundsIgnoreTimeOfDay(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 10, 1, 15, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC),
	}
	from, to := w.Bounds()
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 10, 2, 23, 59, 59, 999999999, time.UTC), to)
	assert.Equal(t, "2026-10-01", w.StartKey())
	assert.Equal(t, "2026-10-02", w.EndKey())
}

func TestNewEnrichedResult(t *testing.T) {
	repo := Repository{FullName: "a/b", StarCount: 500}

	ok := NewEnrichedResult(repo, StarGrowth{Count: 12, Status: StatusComplete})
	assert.Equal(t, 12, ok.IncreasedStars)
	assert.False(t, ok.Degraded)

	limited := NewEnrichedResult(repo, StarGrowth{Count: 7, Status: StatusRateLimited})
	assert.Equal(t, 0, limited.IncreasedStars)
	assert.True(t, limited.Degraded)

	errored := NewEnrichedResult(repo, StarGrowth{Status: StatusErrored})
	assert.True(t, errored.Degraded)
	assert.Equal(t, "a/b", errored.FullName)
}
