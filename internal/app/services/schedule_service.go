package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/timetable"
)

// ScheduleStore is the storage surface of the calendar builder.
type ScheduleStore interface {
	SessionsByAccount(ctx context.Context, accountID int64) ([]*models.Session, error)
}

// ScheduleService materializes the recurring sessions an account is bound to
// into concrete calendar dates.
type ScheduleService struct {
	store ScheduleStore
}

func NewScheduleService(store ScheduleStore) *ScheduleService {
	return &ScheduleService{store: store}
}

func sessionSlot(sess *models.Session) dto.TimeSlot {
	slot := dto.TimeSlot{
		SessionID: sess.ID,
		StartTime: sess.StartTime.Format("15:04"),
		EndTime:   sess.EndTime.Format("15:04"),
	}
	if sess.Course != nil {
		slot.CourseName = sess.Course.Name
	}
	if sess.Location != nil {
		slot.Location = sess.Location.Name
	}
	return slot
}

// BuildCalendar expands every session the account is bound to across its
// weekday recurrence and groups the occurrences by date, ascending. Slots
// inside a day are ordered by start time.
func (s *ScheduleService) BuildCalendar(ctx context.Context, accountID int64) (*dto.CalendarResponse, error) {
	sessions, err := s.store.SessionsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]dto.TimeSlot)
	weekdays := make(map[string]string)
	for _, sess := range sessions {
		days := make([]int, len(sess.DaysOfWeek))
		for i, d := range sess.DaysOfWeek {
			days[i] = int(d)
		}
		for _, date := range timetable.ExpandWeekdays(sess.StartDate, sess.EndDate, days) {
			key := date.Format("2006-01-02")
			byDate[key] = append(byDate[key], sessionSlot(sess))
			weekdays[key] = timetable.WeekdayNames[timetable.WeekdayIndex(date.Weekday())]
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	resp := &dto.CalendarResponse{AccountID: accountID, Days: make([]dto.CalendarDay, 0, len(dates))}
	for _, date := range dates {
		slots := byDate[date]
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].StartTime != slots[j].StartTime {
				return slots[i].StartTime < slots[j].StartTime
			}
			return slots[i].SessionID < slots[j].SessionID
		})
		resp.Days = append(resp.Days, dto.CalendarDay{
			Date:    date,
			Weekday: weekdays[date],
			Slots:   slots,
		})
	}
	return resp, nil
}

// ExportICS renders the account's calendar as an iCalendar document, one
// VEVENT per session occurrence.
func (s *ScheduleService) ExportICS(ctx context.Context, accountID int64) (string, error) {
	sessions, err := s.store.SessionsByAccount(ctx, accountID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//CampusCore//Schedule//EN")

	for _, sess := range sessions {
		days := make([]int, len(sess.DaysOfWeek))
		for i, d := range sess.DaysOfWeek {
			days[i] = int(d)
		}
		for _, date := range timetable.ExpandWeekdays(sess.StartDate, sess.EndDate, days) {
			start := occurrenceTime(date, sess.StartTime)
			end := occurrenceTime(date, sess.EndTime)

			event := cal.AddEvent(fmt.Sprintf("session-%d-%s@campuscore", sess.ID, date.Format("20060102")))
			event.SetCreatedTime(sess.CreatedAt)
			event.SetStartAt(start)
			event.SetEndAt(end)
			if sess.Course != nil {
				event.SetSummary(sess.Course.Name)
			}
			if sess.Location != nil {
				event.SetLocation(sess.Location.Name)
			}
		}
	}

	return cal.Serialize(), nil
}

// occurrenceTime combines a calendar date with the time-of-day component of
// a session boundary timestamp.
func occurrenceTime(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location())
}
