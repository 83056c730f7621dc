package booking

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// mergeRanges collapses overlapping or touching ranges. Input order is
// not assumed.
func mergeRanges(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]DateRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// subtractRanges returns the parts of window not covered by busy.
// Busy ranges are clamped to the window first.
func subtractRanges(window DateRange, busy []DateRange) []DateRange {
	if !window.Start.Before(window.End) {
		return nil
	}

	var clamped []DateRange
	for _, r := range busy {
		if !r.End.After(window.Start) || !r.Start.Before(window.End) {
			continue
		}
		if r.Start.Before(window.Start) {
			r.Start = window.Start
		}
		if r.End.After(window.End) {
			r.End = window.End
		}
		clamped = append(clamped, r)
	}

	merged := mergeRanges(clamped)

	var free []DateRange
	cursor := window.Start
	for _, r := range merged {
		if r.Start.After(cursor) {
			free = append(free, DateRange{Start: cursor, End: r.Start})
		}
		cursor = r.End
	}
	if cursor.Before(window.End) {
		free = append(free, DateRange{Start: cursor, End: window.End})
	}
	return free
}

// vacanciesForCar computes the free ranges for a car inside window,
// ignoring cancelled bookings and the excluded booking id.
func vacanciesForCar(db *gorm.DB, carID, excludeID uint, window DateRange) ([]DateRange, error) {
	var others []Booking
	result := db.
		Where("car_id = ? AND id <> ? AND status <> ?", carID, excludeID, StatusCancelled).
		Where("start_date < ? AND end_date > ?", window.End, window.Start).
		Find(&others)
	if result.Error != nil {
		return nil, result.Error
	}

	busy := make([]DateRange, 0, len(others))
	for _, b := range others {
		busy = append(busy, DateRange{Start: b.StartDate, End: b.EndDate})
	}

	return subtractRanges(window, busy), nil
}
