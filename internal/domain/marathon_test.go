package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_Valid(t *testing.T) {
	for _, d := range []Distance{Distance3K, Distance10K, Distance25K, Distance42K} {
		assert.True(t, d.Valid(), string(d))
	}
	for _, d := range []Distance{"", "5k", "42K", "marathon"} {
		assert.False(t, d.Valid(), string(d))
	}
}

func TestMarathon_ValidateSchedule(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name                string
		regStart, regEnd, s time.Time
		wantErr             string
	}{
		{"ordered", day(1), day(10), day(20), ""},
		{"window reversed", day(10), day(1), day(20), "regStartDate must be before regEndDate"},
		{"empty window", day(10), day(10), day(20), "regStartDate must be before regEndDate"},
		{"race during window", day(1), day(20), day(10), "regEndDate must be before startDate"},
		{"race when window closes", day(1), day(10), day(10), "regEndDate must be before startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Marathon{RegStartDate: tt.regStart, RegEndDate: tt.regEnd, StartDate: tt.s}
			err := m.ValidateSchedule()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarathonUpdate_Apply(t *testing.T) {
	title := "Night Run"
	dist := Distance42K
	start := time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)
	m := &Marathon{ID: "m1", Title: "Day Run", Location: "Porto", Distance: Distance10K, CreatedBy: "u1", TotalRegistration: 3}

	MarathonUpdate{Title: &title, Distance: &dist, StartDate: &start}.Apply(m)

	assert.Equal(t, "Night Run", m.Title)
	assert.Equal(t, Distance42K, m.Distance)
	assert.Equal(t, start, m.StartDate)
	assert.Equal(t, "Porto", m.Location)
	assert.Equal(t, "u1", m.CreatedBy)
	assert.Equal(t, 3, m.TotalRegistration)
}

func TestMarathonUpdate_IsEmpty(t *testing.T) {
	assert.True(t, MarathonUpdate{}.IsEmpty())
	url := "https://example.com/x.jpg"
	assert.False(t, MarathonUpdate{ImageURL: &url}.IsEmpty())
}

func TestParseSortOrder(t *testing.T) {
	got, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, got)

	got, err = ParseSortOrder("oldest")
	require.NoError(t, err)
	assert.Equal(t, SortOldest, got)

	_, err = ParseSortOrder("Newest")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
