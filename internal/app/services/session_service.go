package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/timetable"
)

// SessionTxStore is the transaction-bound surface of a session soft delete.
type SessionTxStore interface {
	UpdateSessionStatus(ctx context.Context, sessionID int64, status int) error
	CascadeSessionStatus(ctx context.Context, sessionID int64, status int) error
}

// SessionStore covers session and course rows.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	SessionByID(ctx context.Context, id int64) (*models.Session, error)
	ListSessions(ctx context.Context, locationID int64) ([]*models.Session, error)
	CourseByID(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	CountActiveSessions(ctx context.Context) (int64, error)
	CountAccountsByGroup(ctx context.Context) (map[string]int64, error)
	InTx(ctx context.Context, fn func(store SessionTxStore) error) error
}

// SessionService manages the session catalog. Deleting a session is a soft
// delete: the terminal status propagates to every dependent binding row in
// the same transaction.
type SessionService struct {
	store SessionStore
}

func NewSessionService(store SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Create validates and stores a new session in active state.
func (s *SessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*models.Session, error) {
	for _, day := range req.DaysOfWeek {
		if err := timetable.ValidateWeekday(int(day)); err != nil {
			return nil, err
		}
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidationError("startTime must be RFC3339")
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, apperrors.NewValidationError("endTime must be RFC3339")
	}
	if !endTime.After(startTime) {
		return nil, apperrors.NewValidationError("endTime must be after startTime")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("startDate must be YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("endDate must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewValidationError("endDate must not precede startDate")
	}

	if _, err := s.store.CourseByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	session := &models.Session{
		CourseID:     req.CourseID,
		LocationID:   req.LocationID,
		BatchID:      req.BatchID,
		NoOfStudents: req.NoOfStudents,
		StartTime:    startTime,
		EndTime:      endTime,
		StartDate:    startDate,
		EndDate:      endDate,
		DaysOfWeek:   req.DaysOfWeek,
		Status:       models.SessionActive,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Info().Int64("session_id", session.ID).Msg("session created")
	return s.store.SessionByID(ctx, session.ID)
}

// Get returns one session by ID. Deleted sessions are still readable.
func (s *SessionService) Get(ctx context.Context, id int64) (*models.Session, error) {
	return s.store.SessionByID(ctx, id)
}

// List returns non-deleted sessions, optionally filtered by location.
func (s *SessionService) List(ctx context.Context, locationID int64) ([]*models.Session, error) {
	return s.store.ListSessions(ctx, locationID)
}

// Delete soft-deletes a session and cascades the terminal status to its
// student and instructor bindings atomically.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	session, err := s.store.SessionByID(ctx, id)
	if err != nil {
		return err
	}
	if session.Status == models.SessionDeleted {
		return nil
	}

	err = s.store.InTx(ctx, func(tx SessionTxStore) error {
		if err := tx.UpdateSessionStatus(ctx, id, models.SessionDeleted); err != nil {
			return err
		}
		return tx.CascadeSessionStatus(ctx, id, models.SessionDeleted)
	})
	if err != nil {
		return err
	}

	logger.Info().Int64("session_id", id).Msg("session deleted")
	return nil
}

// CreateCourse adds a course to the catalog.
func (s *SessionService) CreateCourse(ctx context.Context, code, name string) (*models.Course, error) {
	course := &models.Course{Code: code, Name: name}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Stats returns simple aggregate counts: accounts per group plus the number
// of active sessions.
func (s *SessionService) Stats(ctx context.Context) (map[string]int64, error) {
	stats, err := s.store.CountAccountsByGroup(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.store.CountActiveSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(stats)+1)
	for group, count := range stats {
		out[fmt.Sprintf("%s_accounts", group)] = count
	}
	out["active_sessions"] = active
	return out, nil
}
