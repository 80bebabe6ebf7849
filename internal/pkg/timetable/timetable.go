package timetable

import (
	"time"

	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

// Weekday indices run 0=Monday through 6=Sunday.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayNames maps a weekday index to its display name.
var WeekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayIndex converts a time.Weekday (Sunday=0) to the Monday=0 convention.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ValidateWeekday checks that idx is a recognized weekday index.
func ValidateWeekday(idx int) error {
	if idx < Monday || idx > Sunday {
		return apperrors.ErrInvalidWeekday
	}
	return nil
}

// ExpandWeekdays walks day by day from start to end inclusive and returns, in
// chronological order, every date whose weekday index is in days. The walk is
// deterministic: identical inputs always yield the identical date list.
func ExpandWeekdays(start, end time.Time, days []int) []time.Time {
	want := make(map[int]bool, len(days))
	for _, d := range days {
		want[d] = true
	}

	var dates []time.Time
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	for !day.After(last) {
		if want[WeekdayIndex(day.Weekday())] {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SameTiming reports whether two intervals have identical start and end.
func SameTiming(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Equal(bStart) && aEnd.Equal(bEnd)
}
