package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(h, min int) time.Time {
	return time.Date(2026, time.March, 2, h, min, 0, 0, time.UTC)
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, Monday, WeekdayIndex(time.Monday))
	assert.Equal(t, Wednesday, WeekdayIndex(time.Wednesday))
	assert.Equal(t, Saturday, WeekdayIndex(time.Saturday))
	assert.Equal(t, Sunday, WeekdayIndex(time.Sunday))
}

func TestValidateWeekday(t *testing.T) {
	for idx := Monday; idx <= Sunday; idx++ {
		assert.NoError(t, ValidateWeekday(idx))
	}
	assert.ErrorIs(t, ValidateWeekday(-1), apperrors.ErrInvalidWeekday)
	assert.ErrorIs(t, ValidateWeekday(7), apperrors.ErrInvalidWeekday)
}

func TestExpandWeekdays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		days  []int
		want  []time.Time
	}{
		{
			name:  "mondays and wednesdays over two weeks",
			start: date(2026, time.March, 2), // a Monday
			end:   date(2026, time.March, 13),
			days:  []int{Monday, Wednesday},
			want: []time.Time{
				date(2026, time.March, 2),
				date(2026, time.March, 4),
				date(2026, time.March, 9),
				date(2026, time.March, 11),
			},
		},
		{
			name:  "single day range matching",
			start: date(2026, time.March, 4),
			end:   date(2026, time.March, 4),
			days:  []int{Wednesday},
			want:  []time.Time{date(2026, time.March, 4)},
		},
		{
			name:  "single day range not matching",
			start: date(2026, time.March, 4),
			end:   date(2026, time.March, 4),
			days:  []int{Friday},
			want:  nil,
		},
		{
			name:  "end before start",
			start: date(2026, time.March, 10),
			end:   date(2026, time.March, 2),
			days:  []int{Monday},
			want:  nil,
		},
		{
			name:  "sunday boundary",
			start: date(2026, time.March, 2),
			end:   date(2026, time.March, 8),
			days:  []int{Sunday},
			want:  []time.Time{date(2026, time.March, 8)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandWeekdays(tt.start, tt.end, tt.days)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, got[i].Equal(tt.want[i]), "date %d: got %v want %v", i, got[i], tt.want[i])
			}
		})
	}
}

func TestExpandWeekdaysDeterministic(t *testing.T) {
	start, end := date(2026, time.January, 1), date(2026, time.June, 30)
	days := []int{Tuesday, Thursday, Saturday}
	first := ExpandWeekdays(start, end, days)
	second := ExpandWeekdays(start, end, days)
	assert.Equal(t, first, second)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(9, 0), at(11, 0), at(9, 0), at(11, 0), true},
		{"partial overlap", at(9, 0), at(11, 0), at(10, 0), at(12, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"touching endpoints", at(9, 0), at(11, 0), at(11, 0), at(13, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestSameTiming(t *testing.T) {
	assert.True(t, SameTiming(at(9, 0), at(11, 0), at(9, 0), at(11, 0)))
	assert.False(t, SameTiming(at(9, 0), at(11, 0), at(9, 0), at(12, 0)))
	assert.False(t, SameTiming(at(9, 30), at(11, 0), at(9, 0), at(11, 0)))
}
