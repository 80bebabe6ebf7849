package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
)

// fakeVerificationStore is an in-memory stand-in for the whole verification
// surface, allocator tables included.
type fakeVerificationStore struct {
	*fakeAllocatorStore

	applications map[int64]*models.Application
	accounts     map[int64]*models.Account
	students     []*models.Student
	instructors  []*models.Instructor
	locations    map[int64]*models.Location
	cities       map[string]*models.City
	batches      map[string]*models.Batch
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{
		fakeAllocatorStore: newFakeAllocatorStore(),
		applications:       make(map[int64]*models.Application),
		accounts:           make(map[int64]*models.Account),
		locations:          make(map[int64]*models.Location),
		cities:             make(map[string]*models.City),
		batches:            make(map[string]*models.Batch),
	}
}

func (f *fakeVerificationStore) AccountByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (f *fakeVerificationStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVerificationStore) SetPassword(_ context.Context, accountID int64, hashedPassword string) error {
	if a, ok := f.accounts[accountID]; ok {
		a.Password = hashedPassword
		return nil
	}
	return apperrors.ErrAccountNotFound
}

func (f *fakeVerificationStore) InTx(_ context.Context, fn func(store VerificationTxStore) error) error {
	return fn(f)
}

func (f *fakeVerificationStore) ApplicationByID(_ context.Context, id int64) (*models.Application, error) {
	if app, ok := f.applications[id]; ok {
		return app, nil
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (f *fakeVerificationStore) DeleteApplication(_ context.Context, id int64) error {
	delete(f.applications, id)
	return nil
}

func (f *fakeVerificationStore) CreateAccount(_ context.Context, account *models.Account) error {
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeVerificationStore) CreateStudent(_ context.Context, student *models.Student) error {
	student.ID = int64(len(f.students) + 1)
	f.students = append(f.students, student)
	return nil
}

func (f *fakeVerificationStore) CreateInstructor(_ context.Context, instructor *models.Instructor) error {
	instructor.ID = int64(len(f.instructors) + 1)
	f.instructors = append(f.instructors, instructor)
	return nil
}

func (f *fakeVerificationStore) LocationByID(_ context.Context, id int64) (*models.Location, error) {
	if loc, ok := f.locations[id]; ok {
		return loc, nil
	}
	return nil, apperrors.ErrLocationNotFound
}

func (f *fakeVerificationStore) CityByName(_ context.Context, name string) (*models.City, error) {
	if c, ok := f.cities[name]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCityNotFound
}

func (f *fakeVerificationStore) BatchByCityAndYear(_ context.Context, cityName string, year int) (*models.Batch, error) {
	key := fmt.Sprintf("%s/%d", cityName, year)
	if b, ok := f.batches[key]; ok {
		return b, nil
	}
	return nil, apperrors.ErrBatchNotFound
}

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }

func seedLahore(store *fakeVerificationStore) {
	store.cities["Lahore"] = &models.City{ID: 1, Name: "Lahore", ShortName: "LHR"}
	store.locations[10] = &models.Location{ID: 10, CityID: 1, Name: "Johar Town Campus"}
	store.batches["Lahore/2026"] = &models.Batch{ID: 5, CityID: 1, Year: 2026, Code: "LHR-26"}
}

func newVerificationService(store *fakeVerificationStore, s *signer.Signer) *VerificationService {
	svc := NewVerificationService(store, NewAllocatorService(models.DefaultGroupCatalog()), s)
	svc.now = func() time.Time { return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestVerifyCreatesStudentAccount(t *testing.T) {
	store := newFakeVerificationStore()
	seedLahore(store)
	store.applications[1] = &models.Application{
		ID: 1, Email: "ayesha@campus.pk", FirstName: "Ayesha", LastName: "Khan",
		GroupName: models.GroupStudent, Status: models.ApplicationApproved,
		City: "Lahore", CityAbb: "LHR",
		Program: strPtr("Computer Science"), ProgramAbb: strPtr("CS"), LocationID: i64Ptr(10),
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	token := tokenSigner.IssueToken(1, "ayesha@campus.pk")
	resp, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), resp.AccountID)
	assert.Equal(t, models.GroupStudent, resp.GroupName)
	require.NotNil(t, resp.RegistrationID)
	assert.Equal(t, "LHR-26-CS-10000", *resp.RegistrationID)

	account := store.accounts[10000]
	require.NotNil(t, account)
	assert.True(t, account.IsVerified)
	assert.True(t, account.IsActive)
	assert.False(t, account.IsStaff)
	assert.Empty(t, account.Password)

	require.Len(t, store.students, 1)
	assert.Equal(t, int64(10000), store.students[0].AccountID)
	assert.Equal(t, int64(5), store.students[0].BatchID)

	// the application is consumed
	assert.Empty(t, store.applications)
}

func TestVerifyCreatesInstructorAccount(t *testing.T) {
	store := newFakeVerificationStore()
	seedLahore(store)
	store.applications[2] = &models.Application{
		ID: 2, Email: "tariq@campus.pk", FirstName: "Tariq", LastName: "Mehmood",
		GroupName: models.GroupInstructor, Status: models.ApplicationApproved,
		City: "Lahore", CityAbb: "LHR", Skill: strPtr("Databases"),
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	token := tokenSigner.IssueToken(2, "tariq@campus.pk")
	resp, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), resp.AccountID)
	assert.Nil(t, resp.RegistrationID)
	require.Len(t, store.instructors, 1)
	assert.Equal(t, int64(1), store.instructors[0].CityID)
	assert.Equal(t, "Databases", store.instructors[0].Skill)
}

func TestVerifyHODIsStaff(t *testing.T) {
	store := newFakeVerificationStore()
	store.applications[3] = &models.Application{
		ID: 3, Email: "head@campus.pk", FirstName: "Sana", LastName: "Iqbal",
		GroupName: models.GroupHOD, Status: models.ApplicationApproved, City: "Lahore",
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	resp, err := svc.Verify(context.Background(), tokenSigner.IssueToken(3, "head@campus.pk"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.AccountID)
	assert.True(t, store.accounts[100].IsStaff)
}

func TestVerifyReplayAfterSuccess(t *testing.T) {
	store := newFakeVerificationStore()
	seedLahore(store)
	store.applications[1] = &models.Application{
		ID: 1, Email: "ayesha@campus.pk", FirstName: "Ayesha", LastName: "Khan",
		GroupName: models.GroupStudent, Status: models.ApplicationApproved,
		City: "Lahore", Program: strPtr("Computer Science"), ProgramAbb: strPtr("CS"), LocationID: i64Ptr(10),
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)
	ctx := context.Background()

	token := tokenSigner.IssueToken(1, "ayesha@campus.pk")
	_, err := svc.Verify(ctx, token)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
}

func TestVerifyUnknownApplication(t *testing.T) {
	store := newFakeVerificationStore()
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	_, err := svc.Verify(context.Background(), tokenSigner.IssueToken(77, "ghost@campus.pk"))
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyEmailMismatch(t *testing.T) {
	store := newFakeVerificationStore()
	store.applications[1] = &models.Application{
		ID: 1, Email: "ayesha@campus.pk", GroupName: models.GroupStudent,
		Status: models.ApplicationApproved, City: "Lahore",
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	_, err := svc.Verify(context.Background(), tokenSigner.IssueToken(1, "other@campus.pk"))
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestVerifyApplicationNotApproved(t *testing.T) {
	store := newFakeVerificationStore()
	store.applications[1] = &models.Application{
		ID: 1, Email: "ayesha@campus.pk", GroupName: models.GroupStudent,
		Status: models.ApplicationPending, City: "Lahore",
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	_, err := svc.Verify(context.Background(), tokenSigner.IssueToken(1, "ayesha@campus.pk"))
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotOpen)
}

func TestVerifyStudentMissingLocationRollsBack(t *testing.T) {
	store := newFakeVerificationStore()
	seedLahore(store)
	store.applications[1] = &models.Application{
		ID: 1, Email: "ayesha@campus.pk", GroupName: models.GroupStudent,
		Status: models.ApplicationApproved, City: "Lahore",
		Program: strPtr("Computer Science"), ProgramAbb: strPtr("CS"),
	}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)

	_, err := svc.Verify(context.Background(), tokenSigner.IssueToken(1, "ayesha@campus.pk"))
	require.Error(t, err)
	assert.Empty(t, store.students)
}

func TestCompleteSetPassword(t *testing.T) {
	store := newFakeVerificationStore()
	store.accounts[10000] = &models.Account{ID: 10000, Email: "ayesha@campus.pk"}
	tokenSigner := signer.New([]byte("secret"))
	svc := newVerificationService(store, tokenSigner)
	ctx := context.Background()

	token := tokenSigner.IssueToken(1, "ayesha@campus.pk")
	require.NoError(t, svc.CompleteSetPassword(ctx, token, "s3cure-pass"))

	account := store.accounts[10000]
	require.NotEmpty(t, account.Password)
	assert.True(t, auth.CheckPassword(account.Password, "s3cure-pass"))

	// a password is set exactly once through this flow
	err := svc.CompleteSetPassword(ctx, token, "another-pass")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
}
