package services

import (
	"context"
	"fmt"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/email"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/timetable"
)

// AssignmentTxStore is the transaction-bound storage surface of one
// assignment batch. Existing binding rows are read locked so a concurrent
// batch for the same profile cannot validate against a stale snapshot.
type AssignmentTxStore interface {
	SessionByID(ctx context.Context, id int64) (*models.Session, error)
	StudentBindings(ctx context.Context, studentID int64, forUpdate bool) ([]*models.StudentSession, error)
	InstructorBindings(ctx context.Context, instructorID int64, forUpdate bool) ([]*models.InstructorSession, error)
	SessionHasInstructor(ctx context.Context, sessionID int64) (bool, error)
	CountStudentsForSession(ctx context.Context, sessionID int64) (int64, error)
	CreateStudentBinding(ctx context.Context, studentID, sessionID int64, status int) (*models.StudentSession, error)
	CreateInstructorBinding(ctx context.Context, instructorID, sessionID int64, status int) (*models.InstructorSession, error)
	AddInstructorToCourse(ctx context.Context, courseID, instructorID int64) error
}

// AssignmentStore is the full storage surface of the assignment engine.
type AssignmentStore interface {
	AccountByID(ctx context.Context, id int64) (*models.Account, error)
	StudentByAccountID(ctx context.Context, accountID int64) (*models.Student, error)
	InstructorByAccountID(ctx context.Context, accountID int64) (*models.Instructor, error)
	InTx(ctx context.Context, fn func(store AssignmentTxStore) error) error
}

// AssignmentService binds student and instructor profiles to sessions.
// Requested sessions are validated in input order and the whole batch
// commits or fails as one unit. The summary notification goes out only
// after the commit; a failed send is logged, never surfaced.
type AssignmentService struct {
	store  AssignmentStore
	mailer email.Service
}

func NewAssignmentService(store AssignmentStore, mailer email.Service) *AssignmentService {
	return &AssignmentService{store: store, mailer: mailer}
}

// validateStudentCandidate runs the student rule chain for one candidate
// session against the sessions the student is already bound to. Rules fire
// in order and the first violation wins. A candidate already present in
// existing is exempt from the duplicate and overlap checks against itself,
// which keeps re-assignment idempotent.
func validateStudentCandidate(student *models.Student, cand *models.Session, existing []*models.Session) error {
	if !cand.Schedulable() {
		return apperrors.ErrSessionDeleted
	}
	if cand.LocationID != student.LocationID {
		return apperrors.ErrLocationMismatch
	}
	for _, ex := range existing {
		if ex.ID == cand.ID {
			continue
		}
		if ex.CourseID == cand.CourseID && timetable.SameTiming(ex.StartTime, ex.EndTime, cand.StartTime, cand.EndTime) {
			return apperrors.ErrDuplicateTiming
		}
	}
	for _, ex := range existing {
		if ex.ID == cand.ID {
			continue
		}
		if timetable.SameTiming(ex.StartTime, ex.EndTime, cand.StartTime, cand.EndTime) {
			return apperrors.ErrDuplicateTiming
		}
	}
	for _, ex := range existing {
		if ex.ID == cand.ID {
			continue
		}
		if ex.LocationID == cand.LocationID && timetable.Overlaps(ex.StartTime, ex.EndTime, cand.StartTime, cand.EndTime) {
			return apperrors.ErrSessionOverlap
		}
	}
	for _, day := range cand.DaysOfWeek {
		if err := timetable.ValidateWeekday(int(day)); err != nil {
			return err
		}
	}
	return nil
}

// validateInstructorCandidate runs the instructor rule chain. City must
// match instead of location, one instructor per session, and the overlap
// check ignores location entirely.
func validateInstructorCandidate(instructor *models.Instructor, cand *models.Session, hasInstructor bool, existing []*models.Session) error {
	if !cand.Schedulable() {
		return apperrors.ErrSessionDeleted
	}
	if cand.Location == nil || cand.Location.CityID != instructor.CityID {
		return apperrors.ErrCityMismatch
	}
	alreadyBound := false
	for _, ex := range existing {
		if ex.ID == cand.ID {
			alreadyBound = true
			break
		}
	}
	if hasInstructor && !alreadyBound {
		return apperrors.ErrInstructorTaken
	}
	for _, ex := range existing {
		if ex.ID == cand.ID {
			continue
		}
		if timetable.SameTiming(ex.StartTime, ex.EndTime, cand.StartTime, cand.EndTime) {
			return apperrors.ErrDuplicateTiming
		}
	}
	for _, ex := range existing {
		if ex.ID == cand.ID {
			continue
		}
		if timetable.Overlaps(ex.StartTime, ex.EndTime, cand.StartTime, cand.EndTime) {
			return apperrors.ErrSessionOverlap
		}
	}
	for _, day := range cand.DaysOfWeek {
		if err := timetable.ValidateWeekday(int(day)); err != nil {
			return err
		}
	}
	return nil
}

// AssignStudent binds the account's student profile to each session in
// sessionIDs, in order. The first rule violation aborts the whole batch.
func (s *AssignmentService) AssignStudent(ctx context.Context, accountID int64, sessionIDs []int64) (*dto.AssignmentSummary, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.StudentByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &dto.AssignmentSummary{}
	var bound []*models.Session
	err = s.store.InTx(ctx, func(tx AssignmentTxStore) error {
		bindings, err := tx.StudentBindings(ctx, student.ID, true)
		if err != nil {
			return err
		}
		existing := make([]*models.Session, 0, len(bindings)+len(sessionIDs))
		for _, b := range bindings {
			existing = append(existing, b.Session)
		}

		for _, sessionID := range sessionIDs {
			cand, err := tx.SessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			if err := validateStudentCandidate(student, cand, existing); err != nil {
				return err
			}

			enrolled, err := tx.CountStudentsForSession(ctx, cand.ID)
			if err != nil {
				return err
			}
			if enrolled >= int64(cand.NoOfStudents) && !containsSession(existing, cand.ID) {
				return apperrors.ErrSessionCapacityFull
			}

			binding, err := tx.CreateStudentBinding(ctx, student.ID, cand.ID, models.BindingAssigned)
			if err != nil {
				return err
			}
			summary.BindingIDs = append(summary.BindingIDs, binding.ID)
			summary.Sessions = append(summary.Sessions, sessionSlot(cand))
			bound = append(bound, cand)
			existing = append(existing, cand)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(account, bound)
	return summary, nil
}

// AssignInstructor binds the account's instructor profile to each session
// in sessionIDs, in order, and registers the instructor on each session's
// course roster.
func (s *AssignmentService) AssignInstructor(ctx context.Context, accountID int64, sessionIDs []int64) (*dto.AssignmentSummary, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	instructor, err := s.store.InstructorByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &dto.AssignmentSummary{}
	var bound []*models.Session
	err = s.store.InTx(ctx, func(tx AssignmentTxStore) error {
		bindings, err := tx.InstructorBindings(ctx, instructor.ID, true)
		if err != nil {
			return err
		}
		existing := make([]*models.Session, 0, len(bindings)+len(sessionIDs))
		for _, b := range bindings {
			existing = append(existing, b.Session)
		}

		for _, sessionID := range sessionIDs {
			cand, err := tx.SessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			hasInstructor, err := tx.SessionHasInstructor(ctx, cand.ID)
			if err != nil {
				return err
			}
			if err := validateInstructorCandidate(instructor, cand, hasInstructor, existing); err != nil {
				return err
			}

			binding, err := tx.CreateInstructorBinding(ctx, instructor.ID, cand.ID, models.BindingAssigned)
			if err != nil {
				return err
			}
			if err := tx.AddInstructorToCourse(ctx, cand.CourseID, instructor.ID); err != nil {
				return err
			}
			summary.BindingIDs = append(summary.BindingIDs, binding.ID)
			summary.Sessions = append(summary.Sessions, sessionSlot(cand))
			bound = append(bound, cand)
			existing = append(existing, cand)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(account, bound)
	return summary, nil
}

func containsSession(sessions []*models.Session, id int64) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (s *AssignmentService) notify(account *models.Account, sessions []*models.Session) {
	if len(sessions) == 0 {
		return
	}
	lines := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		courseName := fmt.Sprintf("session %d", sess.ID)
		if sess.Course != nil {
			courseName = sess.Course.Name
		}
		locationName := ""
		if sess.Location != nil {
			locationName = " at " + sess.Location.Name
		}
		lines = append(lines, fmt.Sprintf("%s%s, %s to %s",
			courseName, locationName,
			sess.StartTime.Format("15:04"), sess.EndTime.Format("15:04")))
	}
	if err := s.mailer.SendAssignmentSummary(account.Email, account.FirstName, lines); err != nil {
		logger.Error().Err(err).
			Int64("account_id", account.ID).
			Msg("failed to send assignment summary")
	}
}
