package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/timetable"
)

type fakeMailer struct {
	verifications []string
	resets        []string
	summaries     [][]string
}

func (f *fakeMailer) SendVerificationEmail(toEmail, _, _ string) error {
	f.verifications = append(f.verifications, toEmail)
	return nil
}

func (f *fakeMailer) SendPasswordResetEmail(toEmail, _, _ string) error {
	f.resets = append(f.resets, toEmail)
	return nil
}

func (f *fakeMailer) SendAssignmentSummary(_, _ string, lines []string) error {
	f.summaries = append(f.summaries, lines)
	return nil
}

// fakeAssignmentStore backs both the outer lookups and the transactional
// surface. InTx snapshots the binding tables and restores them when the
// callback fails, mirroring a rollback.
type fakeAssignmentStore struct {
	accounts    map[int64]*models.Account
	students    map[int64]*models.Student
	instructors map[int64]*models.Instructor
	sessions    map[int64]*models.Session

	studentBindings    []*models.StudentSession
	instructorBindings []*models.InstructorSession
	courseInstructors  map[int64][]int64
	nextBindingID      int64
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{
		accounts:          make(map[int64]*models.Account),
		students:          make(map[int64]*models.Student),
		instructors:       make(map[int64]*models.Instructor),
		sessions:          make(map[int64]*models.Session),
		courseInstructors: make(map[int64][]int64),
		nextBindingID:     1,
	}
}

func (f *fakeAssignmentStore) AccountByID(_ context.Context, id int64) (*models.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeAssignmentStore) StudentByAccountID(_ context.Context, accountID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.AccountID == accountID {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeAssignmentStore) InstructorByAccountID(_ context.Context, accountID int64) (*models.Instructor, error) {
	for _, i := range f.instructors {
		if i.AccountID == accountID {
			return i, nil
		}
	}
	return nil, apperrors.ErrInstructorNotFound
}

func (f *fakeAssignmentStore) InTx(_ context.Context, fn func(store AssignmentTxStore) error) error {
	savedStudents := append([]*models.StudentSession(nil), f.studentBindings...)
	savedInstructors := append([]*models.InstructorSession(nil), f.instructorBindings...)
	savedNext := f.nextBindingID
	if err := fn(f); err != nil {
		f.studentBindings = savedStudents
		f.instructorBindings = savedInstructors
		f.nextBindingID = savedNext
		return err
	}
	return nil
}

func (f *fakeAssignmentStore) SessionByID(_ context.Context, id int64) (*models.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeAssignmentStore) StudentBindings(_ context.Context, studentID int64, _ bool) ([]*models.StudentSession, error) {
	var out []*models.StudentSession
	for _, b := range f.studentBindings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) InstructorBindings(_ context.Context, instructorID int64, _ bool) ([]*models.InstructorSession, error) {
	var out []*models.InstructorSession
	for _, b := range f.instructorBindings {
		if b.InstructorID == instructorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) SessionHasInstructor(_ context.Context, sessionID int64) (bool, error) {
	for _, b := range f.instructorBindings {
		if b.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssignmentStore) CountStudentsForSession(_ context.Context, sessionID int64) (int64, error) {
	var n int64
	for _, b := range f.studentBindings {
		if b.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssignmentStore) CreateStudentBinding(_ context.Context, studentID, sessionID int64, status int) (*models.StudentSession, error) {
	b := &models.StudentSession{
		ID:        f.nextBindingID,
		StudentID: studentID,
		SessionID: sessionID,
		Status:    status,
		Session:   f.sessions[sessionID],
	}
	f.nextBindingID++
	f.studentBindings = append(f.studentBindings, b)
	return b, nil
}

func (f *fakeAssignmentStore) CreateInstructorBinding(_ context.Context, instructorID, sessionID int64, status int) (*models.InstructorSession, error) {
	b := &models.InstructorSession{
		ID:           f.nextBindingID,
		InstructorID: instructorID,
		SessionID:    sessionID,
		Status:       status,
		Session:      f.sessions[sessionID],
	}
	f.nextBindingID++
	f.instructorBindings = append(f.instructorBindings, b)
	return b, nil
}

func (f *fakeAssignmentStore) AddInstructorToCourse(_ context.Context, courseID, instructorID int64) error {
	f.courseInstructors[courseID] = append(f.courseInstructors[courseID], instructorID)
	return nil
}

func clock(h, min int) time.Time {
	return time.Date(2026, time.March, 2, h, min, 0, 0, time.UTC)
}

func makeSession(id, courseID, locationID int64, start, end time.Time) *models.Session {
	return &models.Session{
		ID:           id,
		CourseID:     courseID,
		LocationID:   locationID,
		NoOfStudents: 30,
		StartTime:    start,
		EndTime:      end,
		StartDate:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, time.June, 26, 0, 0, 0, 0, time.UTC),
		DaysOfWeek:   []int32{timetable.Monday, timetable.Wednesday},
		Status:       models.SessionActive,
		Course:       &models.Course{ID: courseID, Code: "CS-101", Name: "Intro to Programming"},
		Location:     &models.Location{ID: locationID, CityID: 1, Name: "Main Campus"},
	}
}

func TestValidateStudentCandidate(t *testing.T) {
	student := &models.Student{ID: 1, LocationID: 10}
	base := makeSession(100, 1, 10, clock(9, 0), clock(11, 0))

	otherLocation := makeSession(101, 1, 20, clock(9, 0), clock(11, 0))
	otherLocation.Location = &models.Location{ID: 20, CityID: 2, Name: "North Campus"}

	deleted := makeSession(102, 1, 10, clock(9, 0), clock(11, 0))
	deleted.Status = models.SessionDeleted

	sameCourseSameTime := makeSession(103, 1, 10, clock(9, 0), clock(11, 0))
	otherCourseSameTime := makeSession(104, 2, 10, clock(9, 0), clock(11, 0))
	overlapping := makeSession(105, 2, 10, clock(10, 0), clock(12, 0))
	backToBack := makeSession(107, 2, 10, clock(11, 0), clock(13, 0))

	badWeekday := makeSession(108, 2, 10, clock(14, 0), clock(16, 0))
	badWeekday.DaysOfWeek = []int32{7}

	tests := []struct {
		name     string
		cand     *models.Session
		existing []*models.Session
		wantErr  error
	}{
		{"no conflicts", base, nil, nil},
		{"deleted session", deleted, nil, apperrors.ErrSessionDeleted},
		{"location mismatch", otherLocation, nil, apperrors.ErrLocationMismatch},
		{"same course same timing", sameCourseSameTime, []*models.Session{base}, apperrors.ErrDuplicateTiming},
		{"different course same timing", otherCourseSameTime, []*models.Session{base}, apperrors.ErrDuplicateTiming},
		{"overlap at same location", overlapping, []*models.Session{base}, apperrors.ErrSessionOverlap},
		{"back to back is fine", backToBack, []*models.Session{base}, nil},
		{"weekday out of range", badWeekday, nil, apperrors.ErrInvalidWeekday},
		{"already bound candidate is exempt", base, []*models.Session{base}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStudentCandidate(student, tt.cand, tt.existing)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStudentCandidateRuleOrder(t *testing.T) {
	student := &models.Student{ID: 1, LocationID: 10}
	base := makeSession(100, 1, 10, clock(9, 0), clock(11, 0))

	// deleted and at the wrong location: the deletion check fires first
	cand := makeSession(101, 1, 20, clock(9, 0), clock(11, 0))
	cand.Status = models.SessionDeleted
	assert.ErrorIs(t, validateStudentCandidate(student, cand, []*models.Session{base}), apperrors.ErrSessionDeleted)

	// same timing and overlapping: duplicate timing wins over overlap
	cand = makeSession(102, 2, 10, clock(9, 0), clock(11, 0))
	assert.ErrorIs(t, validateStudentCandidate(student, cand, []*models.Session{base}), apperrors.ErrDuplicateTiming)
}

func TestValidateInstructorCandidate(t *testing.T) {
	instructor := &models.Instructor{ID: 1, CityID: 1}
	base := makeSession(100, 1, 10, clock(9, 0), clock(11, 0))

	otherCity := makeSession(101, 1, 30, clock(9, 0), clock(11, 0))
	otherCity.Location = &models.Location{ID: 30, CityID: 2, Name: "North Campus"}

	noLocation := makeSession(102, 1, 10, clock(9, 0), clock(11, 0))
	noLocation.Location = nil

	sameTiming := makeSession(103, 2, 10, clock(9, 0), clock(11, 0))

	// overlap across different locations still conflicts for instructors
	overlapOtherLocation := makeSession(104, 2, 40, clock(10, 0), clock(12, 0))
	overlapOtherLocation.Location = &models.Location{ID: 40, CityID: 1, Name: "Annex"}

	tests := []struct {
		name          string
		cand          *models.Session
		hasInstructor bool
		existing      []*models.Session
		wantErr       error
	}{
		{"no conflicts", base, false, nil, nil},
		{"city mismatch", otherCity, false, nil, apperrors.ErrCityMismatch},
		{"missing location relation", noLocation, false, nil, apperrors.ErrCityMismatch},
		{"session already staffed", base, true, nil, apperrors.ErrInstructorTaken},
		{"staffed by this instructor", base, true, []*models.Session{base}, nil},
		{"same timing", sameTiming, false, []*models.Session{base}, apperrors.ErrDuplicateTiming},
		{"overlap ignores location", overlapOtherLocation, false, []*models.Session{base}, apperrors.ErrSessionOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInstructorCandidate(instructor, tt.cand, tt.hasInstructor, tt.existing)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func seededStudentStore() *fakeAssignmentStore {
	store := newFakeAssignmentStore()
	store.accounts[10000] = &models.Account{ID: 10000, Email: "ayesha@campus.pk", FirstName: "Ayesha"}
	store.students[1] = &models.Student{ID: 1, AccountID: 10000, LocationID: 10}
	store.sessions[100] = makeSession(100, 1, 10, clock(9, 0), clock(11, 0))
	store.sessions[200] = makeSession(200, 2, 10, clock(12, 0), clock(14, 0))
	store.sessions[300] = makeSession(300, 3, 10, clock(13, 0), clock(15, 0))
	return store
}

func TestAssignStudentBatch(t *testing.T) {
	store := seededStudentStore()
	mailer := &fakeMailer{}
	svc := NewAssignmentService(store, mailer)

	summary, err := svc.AssignStudent(context.Background(), 10000, []int64{100, 200})
	require.NoError(t, err)
	require.Len(t, summary.BindingIDs, 2)
	require.Len(t, summary.Sessions, 2)
	assert.Equal(t, "09:00", summary.Sessions[0].StartTime)
	assert.Len(t, store.studentBindings, 2)

	// one summary email for the whole batch
	require.Len(t, mailer.summaries, 1)
	assert.Len(t, mailer.summaries[0], 2)
	assert.Contains(t, mailer.summaries[0][0], "Intro to Programming")
}

func TestAssignStudentBatchRollsBackOnConflict(t *testing.T) {
	store := seededStudentStore()
	mailer := &fakeMailer{}
	svc := NewAssignmentService(store, mailer)

	// 300 overlaps 200 at the same location, so the whole batch fails
	_, err := svc.AssignStudent(context.Background(), 10000, []int64{100, 200, 300})
	assert.ErrorIs(t, err, apperrors.ErrSessionOverlap)
	assert.Empty(t, store.studentBindings)
	assert.Empty(t, mailer.summaries)
}

func TestAssignStudentChecksPriorBindings(t *testing.T) {
	store := seededStudentStore()
	svc := NewAssignmentService(store, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.AssignStudent(ctx, 10000, []int64{200})
	require.NoError(t, err)

	// a second batch conflicts with the committed binding
	_, err = svc.AssignStudent(ctx, 10000, []int64{300})
	assert.ErrorIs(t, err, apperrors.ErrSessionOverlap)
	assert.Len(t, store.studentBindings, 1)
}

func TestAssignStudentCapacityFull(t *testing.T) {
	store := seededStudentStore()
	store.sessions[100].NoOfStudents = 1
	store.studentBindings = append(store.studentBindings, &models.StudentSession{
		ID: 99, StudentID: 2, SessionID: 100, Status: models.BindingAssigned, Session: store.sessions[100],
	})
	store.nextBindingID = 100
	svc := NewAssignmentService(store, &fakeMailer{})

	_, err := svc.AssignStudent(context.Background(), 10000, []int64{100})
	assert.ErrorIs(t, err, apperrors.ErrSessionCapacityFull)
}

func TestAssignStudentUnknownSession(t *testing.T) {
	store := seededStudentStore()
	svc := NewAssignmentService(store, &fakeMailer{})

	_, err := svc.AssignStudent(context.Background(), 10000, []int64{4242})
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestAssignInstructorBatch(t *testing.T) {
	store := newFakeAssignmentStore()
	store.accounts[1000] = &models.Account{ID: 1000, Email: "tariq@campus.pk", FirstName: "Tariq"}
	store.instructors[1] = &models.Instructor{ID: 1, AccountID: 1000, CityID: 1}
	store.sessions[100] = makeSession(100, 1, 10, clock(9, 0), clock(11, 0))
	store.sessions[200] = makeSession(200, 2, 10, clock(12, 0), clock(14, 0))
	mailer := &fakeMailer{}
	svc := NewAssignmentService(store, mailer)

	summary, err := svc.AssignInstructor(context.Background(), 1000, []int64{100, 200})
	require.NoError(t, err)
	assert.Len(t, summary.BindingIDs, 2)
	assert.Len(t, store.instructorBindings, 2)

	// the instructor joins each session's course roster
	assert.Equal(t, []int64{1}, store.courseInstructors[1])
	assert.Equal(t, []int64{1}, store.courseInstructors[2])
	assert.Len(t, mailer.summaries, 1)
}

func TestAssignInstructorSessionTaken(t *testing.T) {
	store := newFakeAssignmentStore()
	store.accounts[1000] = &models.Account{ID: 1000, Email: "tariq@campus.pk", FirstName: "Tariq"}
	store.instructors[1] = &models.Instructor{ID: 1, AccountID: 1000, CityID: 1}
	store.sessions[100] = makeSession(100, 1, 10, clock(9, 0), clock(11, 0))
	store.instructorBindings = append(store.instructorBindings, &models.InstructorSession{
		ID: 50, InstructorID: 2, SessionID: 100, Status: models.BindingAssigned, Session: store.sessions[100],
	})
	svc := NewAssignmentService(store, &fakeMailer{})

	_, err := svc.AssignInstructor(context.Background(), 1000, []int64{100})
	assert.ErrorIs(t, err, apperrors.ErrInstructorTaken)
}

func TestAssignInstructorReassignIdempotent(t *testing.T) {
	store := newFakeAssignmentStore()
	store.accounts[1000] = &models.Account{ID: 1000, Email: "tariq@campus.pk", FirstName: "Tariq"}
	store.instructors[1] = &models.Instructor{ID: 1, AccountID: 1000, CityID: 1}
	store.sessions[100] = makeSession(100, 1, 10, clock(9, 0), clock(11, 0))
	svc := NewAssignmentService(store, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.AssignInstructor(ctx, 1000, []int64{100})
	require.NoError(t, err)

	// the same session again passes validation against itself
	_, err = svc.AssignInstructor(ctx, 1000, []int64{100})
	require.NoError(t, err)
}
