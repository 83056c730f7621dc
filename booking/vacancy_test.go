package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(day int) time.Time {
	return time.Date(2026, time.October, day, 0, 0, 0, 0, time.UTC)
}

func TestMergeRanges(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, mergeRanges(nil))
	})

	t.Run("disjoint stay separate", func(t *testing.T) {
		got := mergeRanges([]DateRange{
			{Start: d(10), End: d(12)},
			{Start: d(1), End: d(3)},
		})
		require.Len(t, got, 2)
		assert.Equal(t, d(1), got[0].Start)
		assert.Equal(t, d(3), got[0].End)
		assert.Equal(t, d(10), got[1].Start)
	})

	t.Run("overlapping collapse", func(t *testing.T) {
		got := mergeRanges([]DateRange{
			{Start: d(1), End: d(5)},
			{Start: d(4), End: d(8)},
			{Start: d(8), End: d(9)},
		})
		require.Len(t, got, 1)
		assert.Equal(t, d(1), got[0].Start)
		assert.Equal(t, d(9), got[0].End)
	})

	t.Run("contained range absorbed", func(t *testing.T) {
		got := mergeRanges([]DateRange{
			{Start: d(1), End: d(10)},
			{Start: d(3), End: d(5)},
		})
		require.Len(t, got, 1)
		assert.Equal(t, d(1), got[0].Start)
		assert.Equal(t, d(10), got[0].End)
	})
}

func TestSubtractRanges(t *testing.T) {
	window := DateRange{Start: d(1), End: d(20)}

	t.Run("no busy means whole window free", func(t *testing.T) {
		got := subtractRanges(window, nil)
		require.Len(t, got, 1)
		assert.Equal(t, window, got[0])
	})

	t.Run("gaps between bookings", func(t *testing.T) {
		got := subtractRanges(window, []DateRange{
			{Start: d(3), End: d(5)},
			{Start: d(10), End: d(12)},
		})
		require.Len(t, got, 3)
		assert.Equal(t, DateRange{Start: d(1), End: d(3)}, got[0])
		assert.Equal(t, DateRange{Start: d(5), End: d(10)}, got[1])
		assert.Equal(t, DateRange{Start: d(12), End: d(20)}, got[2])
	})

	t.Run("busy outside window ignored", func(t *testing.T) {
		got := subtractRanges(window, []DateRange{
			{Start: d(25), End: d(28)},
		})
		require.Len(t, got, 1)
		assert.Equal(t, window, got[0])
	})

	t.Run("busy overlapping window edge is clamped", func(t *testing.T) {
		got := subtractRanges(window, []DateRange{
			{Start: time.Date(2026, time.September, 28, 0, 0, 0, 0, time.UTC), End: d(4)},
		})
		require.Len(t, got, 1)
		assert.Equal(t, DateRange{Start: d(4), End: d(20)}, got[0])
	})

	t.Run("fully covered window has no vacancies", func(t *testing.T) {
		got := subtractRanges(window, []DateRange{{Start: d(1), End: d(20)}})
		assert.Empty(t, got)
	})

	t.Run("inverted window", func(t *testing.T) {
		got := subtractRanges(DateRange{Start: d(5), End: d(2)}, nil)
		assert.Empty(t, got)
	})
}
