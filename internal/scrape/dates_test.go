package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dateNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

func TestNormalizeDateStructuredAttr(t *testing.T) {
	t.Run("iso instant wins over display text", func(t *testing.T) {
		got, ok := normalizeDate("2026-08-29T10:30:00.000Z", "yesterday", dateNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("unix epoch seconds", func(t *testing.T) {
		epoch := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
		got, ok := normalizeDate("1787907600", "", dateNow)
		require.True(t, ok)
		assert.Equal(t, epoch, got)
	})

	t.Run("garbage attr falls through to display", func(t *testing.T) {
		got, ok := normalizeDate("not-a-date", "2h", dateNow)
		require.True(t, ok)
		assert.Equal(t, dateNow.Add(-2*time.Hour), got)
	})
}

func TestNormalizeDateRelative(t *testing.T) {
	cases := []struct {
		display string
		want    time.Time
	}{
		{"5m", dateNow.Add(-5 * time.Minute)},
		{"2h", dateNow.Add(-2 * time.Hour)},
		{"3d", dateNow.Add(-3 * 24 * time.Hour)},
		{"1w", dateNow.Add(-7 * 24 * time.Hour)},
		{"45 seconds ago", dateNow.Add(-45 * time.Second)},
		{"10 minutes ago", dateNow.Add(-10 * time.Minute)},
		{"1 hour ago", dateNow.Add(-time.Hour)},
		{"2 days ago", dateNow.Add(-48 * time.Hour)},
		{"3 hrs ago", dateNow.Add(-3 * time.Hour)},
		{"yesterday", dateNow.Add(-24 * time.Hour)},
		{"just now", dateNow},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.display, func(t *testing.T) {
			got, ok := normalizeDate("", tc.display, dateNow)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDateAbsoluteDisplay(t *testing.T) {
	got, ok := normalizeDate("", "Aug 12, 2026", dateNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeDateMonthDay(t *testing.T) {
	t.Run("past month-day stays in current year", func(t *testing.T) {
		got, ok := normalizeDate("", "Aug 20", dateNow)
		require.True(t, ok)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.August, got.Month())
		assert.Equal(t, 20, got.Day())
	})

	t.Run("future month-day rolls back a year", func(t *testing.T) {
		got, ok := normalizeDate("", "Dec 25", dateNow)
		require.True(t, ok)
		assert.Equal(t, 2025, got.Year())
	})
}

func TestNormalizeDateFailure(t *testing.T) {
	for _, display := range []string{"", "   ", "soonish", "ago"} {
		_, ok := normalizeDate("", display, dateNow)
		assert.False(t, ok, "%q should not normalize", display)
	}
}
