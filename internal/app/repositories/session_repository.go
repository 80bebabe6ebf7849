package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/dberrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// SessionRepository handles session and course database operations
type SessionRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(q db.Querier) *SessionRepository {
	return &SessionRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx, sb: r.sb}
}

const sessionColumns = `s.id, s.course_id, s.location_id, s.batch_id, s.no_of_students,
	s.start_time, s.end_time, s.start_date, s.end_date, s.days_of_week, s.status, s.created_at,
	co.code, co.name, l.name, l.city_id`

func scanSessionRow(row pgx.Row) (*models.Session, error) {
	var session models.Session
	var course models.Course
	var location models.Location
	err := row.Scan(&session.ID, &session.CourseID, &session.LocationID, &session.BatchID,
		&session.NoOfStudents, &session.StartTime, &session.EndTime,
		&session.StartDate, &session.EndDate, &session.DaysOfWeek,
		&session.Status, &session.CreatedAt,
		&course.Code, &course.Name, &location.Name, &location.CityID)
	if err != nil {
		return nil, err
	}
	course.ID = session.CourseID
	location.ID = session.LocationID
	session.Course = &course
	session.Location = &location
	return &session, nil
}

// Create inserts a session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("course_id", "location_id", "batch_id", "no_of_students",
			"start_time", "end_time", "start_date", "end_date", "days_of_week",
			"status", "created_at").
		Values(session.CourseID, session.LocationID, session.BatchID, session.NoOfStudents,
			session.StartTime, session.EndTime, session.StartDate, session.EndDate, session.DaysOfWeek,
			session.Status, time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&session.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("course, location or batch does not exist")
		}
		logger.Error().Err(err).Int64("courseID", session.CourseID).Msg("Error creating session")
		return fmt.Errorf("error creating session: %w", err)
	}
	logger.Info().Int64("sessionID", session.ID).Msg("Session created")
	return nil
}

// GetByID retrieves a session with its course and location
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session, err := scanSessionRow(r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		 JOIN courses co ON co.id = s.course_id
		 JOIN locations l ON l.id = s.location_id
		 WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// List returns sessions, optionally filtered by location and excluding
// deleted ones.
func (r *SessionRepository) List(ctx context.Context, locationID int64) ([]*models.Session, error) {
	builder := r.sb.Select(sessionColumns).
		From("sessions s").
		Join("courses co ON co.id = s.course_id").
		Join("locations l ON l.id = s.location_id").
		Where(squirrel.NotEq{"s.status": models.SessionDeleted}).
		OrderBy("s.start_date", "s.start_time")
	if locationID > 0 {
		builder = builder.Where(squirrel.Eq{"s.location_id": locationID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSessionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateStatus sets a session's status
func (r *SessionRepository) UpdateStatus(ctx context.Context, sessionID int64, status int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sessions SET status = $1 WHERE id = $2`, status, sessionID)
	if err != nil {
		return fmt.Errorf("error updating session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// GetCourseByID retrieves a course
func (r *SessionRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name FROM courses WHERE id = $1`, id).
		Scan(&course.ID, &course.Code, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &course, nil
}

// CreateCourse inserts a course
func (r *SessionRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name").
		Values(course.Code, course.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("course code already exists")
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// AddInstructorToCourse registers an instructor on a course's roster;
// registering twice is a no-op.
func (r *SessionRepository) AddInstructorToCourse(ctx context.Context, courseID, instructorID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO course_instructors (course_id, instructor_id) VALUES ($1, $2)
		 ON CONFLICT (course_id, instructor_id) DO NOTHING`, courseID, instructorID)
	if err != nil {
		return fmt.Errorf("error adding instructor to course roster: %w", err)
	}
	return nil
}

// CountActive returns the number of non-deleted sessions
func (r *SessionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE status <> $1`, models.SessionDeleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}
	return count, nil
}
