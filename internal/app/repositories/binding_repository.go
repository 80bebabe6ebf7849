package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// BindingRepository handles StudentSession and InstructorSession rows. Rows
// are only ever written through the assignment engine's validated commit path.
type BindingRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewBindingRepository creates a new BindingRepository
func NewBindingRepository(q db.Querier) *BindingRepository {
	return &BindingRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *BindingRepository) WithTx(tx pgx.Tx) *BindingRepository {
	return &BindingRepository{db: tx, sb: r.sb}
}

// ListStudentBindings returns a student's bindings joined with their sessions,
// deleted sessions excluded. Locks the rows when forUpdate is set so the
// overlap validation and the subsequent insert observe a stable snapshot.
func (r *BindingRepository) ListStudentBindings(ctx context.Context, studentID int64, forUpdate bool) ([]*models.StudentSession, error) {
	sql := `SELECT ss.id, ss.student_id, ss.session_id, ss.status, ss.created_at,
		s.id, s.course_id, s.location_id, s.batch_id, s.no_of_students,
		s.start_time, s.end_time, s.start_date, s.end_date, s.days_of_week, s.status, s.created_at
		FROM student_sessions ss
		JOIN sessions s ON s.id = ss.session_id
		WHERE ss.student_id = $1 AND s.status <> 2
		ORDER BY ss.id`
	if forUpdate {
		sql += ` FOR UPDATE OF ss`
	}

	rows, err := r.db.Query(ctx, sql, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*models.StudentSession
	for rows.Next() {
		var binding models.StudentSession
		var session models.Session
		if err := rows.Scan(&binding.ID, &binding.StudentID, &binding.SessionID,
			&binding.Status, &binding.CreatedAt,
			&session.ID, &session.CourseID, &session.LocationID, &session.BatchID,
			&session.NoOfStudents, &session.StartTime, &session.EndTime,
			&session.StartDate, &session.EndDate, &session.DaysOfWeek,
			&session.Status, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student binding row: %w", err)
		}
		binding.Session = &session
		bindings = append(bindings, &binding)
	}
	return bindings, rows.Err()
}

// ListInstructorBindings returns an instructor's bindings joined with their
// sessions, deleted sessions excluded.
func (r *BindingRepository) ListInstructorBindings(ctx context.Context, instructorID int64, forUpdate bool) ([]*models.InstructorSession, error) {
	sql := `SELECT ins.id, ins.instructor_id, ins.session_id, ins.status, ins.created_at,
		s.id, s.course_id, s.location_id, s.batch_id, s.no_of_students,
		s.start_time, s.end_time, s.start_date, s.end_date, s.days_of_week, s.status, s.created_at
		FROM instructor_sessions ins
		JOIN sessions s ON s.id = ins.session_id
		WHERE ins.instructor_id = $1 AND s.status <> 2
		ORDER BY ins.id`
	if forUpdate {
		sql += ` FOR UPDATE OF ins`
	}

	rows, err := r.db.Query(ctx, sql, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error listing instructor bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*models.InstructorSession
	for rows.Next() {
		var binding models.InstructorSession
		var session models.Session
		if err := rows.Scan(&binding.ID, &binding.InstructorID, &binding.SessionID,
			&binding.Status, &binding.CreatedAt,
			&session.ID, &session.CourseID, &session.LocationID, &session.BatchID,
			&session.NoOfStudents, &session.StartTime, &session.EndTime,
			&session.StartDate, &session.EndDate, &session.DaysOfWeek,
			&session.Status, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning instructor binding row: %w", err)
		}
		binding.Session = &session
		bindings = append(bindings, &binding)
	}
	return bindings, rows.Err()
}

// SessionHasInstructor reports whether any instructor is already bound to the
// session.
func (r *BindingRepository) SessionHasInstructor(ctx context.Context, sessionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM instructor_sessions WHERE session_id = $1)`,
		sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking session instructor: %w", err)
	}
	return exists, nil
}

// CountStudentsForSession returns the number of students bound to a session.
func (r *BindingRepository) CountStudentsForSession(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_sessions WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting session students: %w", err)
	}
	return count, nil
}

// GetOrCreateStudentBinding fetches the binding for (student, session) or
// creates it with the given status. Idempotent on the pair.
func (r *BindingRepository) GetOrCreateStudentBinding(ctx context.Context, studentID, sessionID int64, status int) (*models.StudentSession, error) {
	var binding models.StudentSession
	err := r.db.QueryRow(ctx,
		`INSERT INTO student_sessions (student_id, session_id, status, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, session_id) DO UPDATE SET student_id = EXCLUDED.student_id
		 RETURNING id, student_id, session_id, status, created_at`,
		studentID, sessionID, status, time.Now()).
		Scan(&binding.ID, &binding.StudentID, &binding.SessionID, &binding.Status, &binding.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("sessionID", sessionID).
			Msg("Error creating student binding")
		return nil, fmt.Errorf("error creating student binding: %w", err)
	}
	return &binding, nil
}

// GetOrCreateInstructorBinding fetches the binding for (instructor, session)
// or creates it with the given status. Idempotent on the pair.
func (r *BindingRepository) GetOrCreateInstructorBinding(ctx context.Context, instructorID, sessionID int64, status int) (*models.InstructorSession, error) {
	var binding models.InstructorSession
	err := r.db.QueryRow(ctx,
		`INSERT INTO instructor_sessions (instructor_id, session_id, status, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (instructor_id, session_id) DO UPDATE SET instructor_id = EXCLUDED.instructor_id
		 RETURNING id, instructor_id, session_id, status, created_at`,
		instructorID, sessionID, status, time.Now()).
		Scan(&binding.ID, &binding.InstructorID, &binding.SessionID, &binding.Status, &binding.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructorID).Int64("sessionID", sessionID).
			Msg("Error creating instructor binding")
		return nil, fmt.Errorf("error creating instructor binding: %w", err)
	}
	return &binding, nil
}

// CascadeSessionStatus propagates a session's status to its dependent binding
// rows. The dependent tables are an explicit registry, not discovered by
// reflection over schema metadata.
func (r *BindingRepository) CascadeSessionStatus(ctx context.Context, sessionID int64, status int) error {
	cascadeTables := []string{"student_sessions", "instructor_sessions"}
	for _, table := range cascadeTables {
		sql, args, err := r.sb.Update(table).
			Set("status", status).
			Where(squirrel.Eq{"session_id": sessionID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build cascade query for %s: %w", table, err)
		}
		if _, err := r.db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error cascading status to %s: %w", table, err)
		}
	}
	return nil
}

// ListSessionsByAccount returns all non-deleted sessions bound to the
// account's student or instructor profile.
func (r *BindingRepository) ListSessionsByAccount(ctx context.Context, accountID int64) ([]*models.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		 JOIN courses co ON co.id = s.course_id
		 JOIN locations l ON l.id = s.location_id
		 WHERE s.status <> 2 AND (
			s.id IN (SELECT ss.session_id FROM student_sessions ss
				JOIN students st ON st.id = ss.student_id WHERE st.account_id = $1)
			OR s.id IN (SELECT ins.session_id FROM instructor_sessions ins
				JOIN instructors i ON i.id = ins.instructor_id WHERE i.account_id = $1))
		 ORDER BY s.start_date, s.start_time`, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing account sessions: %w", err)
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
