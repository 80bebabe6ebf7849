package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/timetable"
)

type fakeScheduleStore struct {
	sessions []*models.Session
}

func (f *fakeScheduleStore) SessionsByAccount(_ context.Context, _ int64) ([]*models.Session, error) {
	return f.sessions, nil
}

func weeklySession(id int64, days []int32, start, end time.Time) *models.Session {
	sess := makeSession(id, id, 10, start, end)
	sess.DaysOfWeek = days
	sess.StartDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sess.EndDate = time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)
	return sess
}

func TestBuildCalendar(t *testing.T) {
	store := &fakeScheduleStore{sessions: []*models.Session{
		weeklySession(1, []int32{timetable.Monday}, clock(9, 0), clock(11, 0)),
		weeklySession(2, []int32{timetable.Monday, timetable.Friday}, clock(12, 0), clock(14, 0)),
	}}
	svc := NewScheduleService(store)

	resp, err := svc.BuildCalendar(context.Background(), 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), resp.AccountID)

	// two Mondays and two Fridays inside the range
	require.Len(t, resp.Days, 4)
	assert.Equal(t, "2026-03-02", resp.Days[0].Date)
	assert.Equal(t, "Monday", resp.Days[0].Weekday)
	assert.Equal(t, "2026-03-06", resp.Days[1].Date)
	assert.Equal(t, "Friday", resp.Days[1].Weekday)
	assert.Equal(t, "2026-03-09", resp.Days[2].Date)
	assert.Equal(t, "2026-03-13", resp.Days[3].Date)

	// both sessions land on Mondays, ordered by start time
	monday := resp.Days[0]
	require.Len(t, monday.Slots, 2)
	assert.Equal(t, int64(1), monday.Slots[0].SessionID)
	assert.Equal(t, "09:00", monday.Slots[0].StartTime)
	assert.Equal(t, int64(2), monday.Slots[1].SessionID)

	// Fridays only carry session 2
	require.Len(t, resp.Days[1].Slots, 1)
	assert.Equal(t, int64(2), resp.Days[1].Slots[0].SessionID)
}

func TestBuildCalendarEmpty(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleStore{})

	resp, err := svc.BuildCalendar(context.Background(), 10000)
	require.NoError(t, err)
	assert.Empty(t, resp.Days)
}

func TestExportICS(t *testing.T) {
	store := &fakeScheduleStore{sessions: []*models.Session{
		weeklySession(1, []int32{timetable.Monday}, clock(9, 0), clock(11, 0)),
	}}
	svc := NewScheduleService(store)

	out, err := svc.ExportICS(context.Background(), 10000)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	// one event per Monday occurrence
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:session-1-20260302@campuscore")
	assert.Contains(t, out, "SUMMARY:Intro to Programming")
	assert.Contains(t, out, "LOCATION:Main Campus")
}
