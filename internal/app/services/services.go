package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/repositories"
	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
	"github.com/hamzahassan/campuscore/internal/pkg/email"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
)

// Services bundles all service instances for dependency injection.
type Services struct {
	Allocator     *AllocatorService
	AccessControl *AccessControlService
	Application   *ApplicationService
	Assignment    *AssignmentService
	Auth          *AuthService
	Geography     *GeographyService
	Schedule      *ScheduleService
	Session       *SessionService
	Verification  *VerificationService
}

// NewServices wires the service layer over the repositories.
func NewServices(database *db.PostgresDB, repos *repositories.Repositories, jwtService *auth.JWTService, tokenSigner *signer.Signer, mailer email.Service) *Services {
	allocator := NewAllocatorService(models.DefaultGroupCatalog())
	accessControl := NewAccessControlService(repos.AccessControl, repos.Group)

	identity := &identityStore{baseStore: baseStore{repos: repos}, db: database}

	return &Services{
		Allocator:     allocator,
		AccessControl: accessControl,
		Application:   NewApplicationService(repos.Application, tokenSigner, mailer),
		Assignment:    NewAssignmentService(&assignmentStore{baseStore: baseStore{repos: repos}, db: database}, mailer),
		Auth:          NewAuthService(identity, jwtService, accessControl, allocator, tokenSigner, mailer),
		Geography:     NewGeographyService(&geographyStore{repos: repos}),
		Schedule:      NewScheduleService(identity),
		Session:       NewSessionService(&sessionStore{baseStore: baseStore{repos: repos}, db: database}),
		Verification:  NewVerificationService(identity, allocator, tokenSigner),
	}
}

// baseStore adapts the shared repository bundle to the read surfaces the
// services declare.
type baseStore struct {
	repos *repositories.Repositories
}

func (s baseStore) AccountByEmail(ctx context.Context, emailAddr string) (*models.Account, error) {
	return s.repos.Account.GetByEmail(ctx, emailAddr)
}

func (s baseStore) AccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.repos.Account.GetByID(ctx, id)
}

func (s baseStore) EmailExists(ctx context.Context, emailAddr string) (bool, error) {
	return s.repos.Account.EmailExists(ctx, emailAddr)
}

func (s baseStore) SetPassword(ctx context.Context, accountID int64, hashedPassword string) error {
	return s.repos.Account.UpdatePassword(ctx, accountID, hashedPassword)
}

func (s baseStore) UpdateLastLogin(ctx context.Context, accountID int64) error {
	return s.repos.Account.UpdateLastLogin(ctx, accountID)
}

func (s baseStore) StudentByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	return s.repos.Account.GetStudentByAccountID(ctx, accountID)
}

func (s baseStore) InstructorByAccountID(ctx context.Context, accountID int64) (*models.Instructor, error) {
	return s.repos.Account.GetInstructorByAccountID(ctx, accountID)
}

func (s baseStore) SessionsByAccount(ctx context.Context, accountID int64) ([]*models.Session, error) {
	return s.repos.Binding.ListSessionsByAccount(ctx, accountID)
}

func (s baseStore) CreateRefreshToken(ctx context.Context, token string, accountID int64, expiryDate time.Time) error {
	return s.repos.Token.Create(ctx, token, accountID, expiryDate)
}

func (s baseStore) RefreshToken(ctx context.Context, token string) (int64, time.Time, bool, error) {
	return s.repos.Token.Get(ctx, token)
}

func (s baseStore) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.repos.Token.Revoke(ctx, token)
}

func (s baseStore) RevokeAllRefreshTokens(ctx context.Context, accountID int64) error {
	return s.repos.Token.RevokeAllForAccount(ctx, accountID)
}

func (s baseStore) CreateSession(ctx context.Context, session *models.Session) error {
	return s.repos.Session.Create(ctx, session)
}

func (s baseStore) SessionByID(ctx context.Context, id int64) (*models.Session, error) {
	return s.repos.Session.GetByID(ctx, id)
}

func (s baseStore) ListSessions(ctx context.Context, locationID int64) ([]*models.Session, error) {
	return s.repos.Session.List(ctx, locationID)
}

func (s baseStore) CourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.repos.Session.GetCourseByID(ctx, id)
}

func (s baseStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.repos.Session.CreateCourse(ctx, course)
}

func (s baseStore) CountActiveSessions(ctx context.Context) (int64, error) {
	return s.repos.Session.CountActive(ctx)
}

func (s baseStore) CountAccountsByGroup(ctx context.Context) (map[string]int64, error) {
	return s.repos.Account.CountByGroup(ctx)
}

// identityStore adds the transactional account-provisioning surface shared
// by the verification and auth services.
type identityStore struct {
	baseStore
	db *db.PostgresDB
}

func (s *identityStore) InTx(ctx context.Context, fn func(store VerificationTxStore) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&verificationTxStore{
			accounts:     s.repos.Account.WithTx(tx),
			applications: s.repos.Application.WithTx(tx),
			groups:       s.repos.Group.WithTx(tx),
			counters:     s.repos.IDCounter.WithTx(tx),
			geography:    s.repos.Geography.WithTx(tx),
		})
	})
}

type verificationTxStore struct {
	accounts     *repositories.AccountRepository
	applications *repositories.ApplicationRepository
	groups       *repositories.GroupRepository
	counters     *repositories.IDCounterRepository
	geography    *repositories.GeographyRepository
}

func (s *verificationTxStore) GroupByName(ctx context.Context, name string) (*models.Group, error) {
	return s.groups.GetByName(ctx, name)
}

func (s *verificationTxStore) NextID(ctx context.Context, groupName string) (int64, error) {
	return s.counters.NextID(ctx, groupName)
}

func (s *verificationTxStore) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	return s.applications.GetByID(ctx, id)
}

func (s *verificationTxStore) DeleteApplication(ctx context.Context, id int64) error {
	return s.applications.Delete(ctx, id)
}

func (s *verificationTxStore) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.accounts.CreateAccount(ctx, account)
}

func (s *verificationTxStore) CreateStudent(ctx context.Context, student *models.Student) error {
	return s.accounts.CreateStudent(ctx, student)
}

func (s *verificationTxStore) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	return s.accounts.CreateInstructor(ctx, instructor)
}

func (s *verificationTxStore) LocationByID(ctx context.Context, id int64) (*models.Location, error) {
	return s.geography.GetLocationByID(ctx, id)
}

func (s *verificationTxStore) CityByName(ctx context.Context, name string) (*models.City, error) {
	return s.geography.GetCityByName(ctx, name)
}

func (s *verificationTxStore) BatchByCityAndYear(ctx context.Context, cityName string, year int) (*models.Batch, error) {
	return s.geography.GetBatchByCityAndYear(ctx, cityName, year)
}

// assignmentStore adds the transactional binding surface of the assignment
// engine.
type assignmentStore struct {
	baseStore
	db *db.PostgresDB
}

func (s *assignmentStore) InTx(ctx context.Context, fn func(store AssignmentTxStore) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&assignmentTxStore{
			sessions: s.repos.Session.WithTx(tx),
			bindings: s.repos.Binding.WithTx(tx),
		})
	})
}

type assignmentTxStore struct {
	sessions *repositories.SessionRepository
	bindings *repositories.BindingRepository
}

func (s *assignmentTxStore) SessionByID(ctx context.Context, id int64) (*models.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *assignmentTxStore) StudentBindings(ctx context.Context, studentID int64, forUpdate bool) ([]*models.StudentSession, error) {
	return s.bindings.ListStudentBindings(ctx, studentID, forUpdate)
}

func (s *assignmentTxStore) InstructorBindings(ctx context.Context, instructorID int64, forUpdate bool) ([]*models.InstructorSession, error) {
	return s.bindings.ListInstructorBindings(ctx, instructorID, forUpdate)
}

func (s *assignmentTxStore) SessionHasInstructor(ctx context.Context, sessionID int64) (bool, error) {
	return s.bindings.SessionHasInstructor(ctx, sessionID)
}

func (s *assignmentTxStore) CountStudentsForSession(ctx context.Context, sessionID int64) (int64, error) {
	return s.bindings.CountStudentsForSession(ctx, sessionID)
}

func (s *assignmentTxStore) CreateStudentBinding(ctx context.Context, studentID, sessionID int64, status int) (*models.StudentSession, error) {
	return s.bindings.GetOrCreateStudentBinding(ctx, studentID, sessionID, status)
}

func (s *assignmentTxStore) CreateInstructorBinding(ctx context.Context, instructorID, sessionID int64, status int) (*models.InstructorSession, error) {
	return s.bindings.GetOrCreateInstructorBinding(ctx, instructorID, sessionID, status)
}

func (s *assignmentTxStore) AddInstructorToCourse(ctx context.Context, courseID, instructorID int64) error {
	return s.sessions.AddInstructorToCourse(ctx, courseID, instructorID)
}

// sessionStore adds the transactional soft-delete cascade surface.
type sessionStore struct {
	baseStore
	db *db.PostgresDB
}

func (s *sessionStore) InTx(ctx context.Context, fn func(store SessionTxStore) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&sessionTxStore{
			sessions: s.repos.Session.WithTx(tx),
			bindings: s.repos.Binding.WithTx(tx),
		})
	})
}

type sessionTxStore struct {
	sessions *repositories.SessionRepository
	bindings *repositories.BindingRepository
}

func (s *sessionTxStore) UpdateSessionStatus(ctx context.Context, sessionID int64, status int) error {
	return s.sessions.UpdateStatus(ctx, sessionID, status)
}

func (s *sessionTxStore) CascadeSessionStatus(ctx context.Context, sessionID int64, status int) error {
	return s.bindings.CascadeSessionStatus(ctx, sessionID, status)
}

// geographyStore adapts the geography repository naming.
type geographyStore struct {
	repos *repositories.Repositories
}

func (s *geographyStore) CreateCity(ctx context.Context, city *models.City) error {
	return s.repos.Geography.CreateCity(ctx, city)
}

func (s *geographyStore) CityByID(ctx context.Context, id int64) (*models.City, error) {
	return s.repos.Geography.GetCityByID(ctx, id)
}

func (s *geographyStore) ListCities(ctx context.Context) ([]*models.City, error) {
	return s.repos.Geography.ListCities(ctx)
}

func (s *geographyStore) CreateLocation(ctx context.Context, location *models.Location) error {
	return s.repos.Geography.CreateLocation(ctx, location)
}

func (s *geographyStore) LocationByID(ctx context.Context, id int64) (*models.Location, error) {
	return s.repos.Geography.GetLocationByID(ctx, id)
}

func (s *geographyStore) ListLocations(ctx context.Context, cityID int64) ([]*models.Location, error) {
	return s.repos.Geography.ListLocations(ctx, cityID)
}

func (s *geographyStore) CreateBatch(ctx context.Context, batch *models.Batch) error {
	return s.repos.Geography.CreateBatch(ctx, batch)
}

func (s *geographyStore) ListBatches(ctx context.Context, cityID int64) ([]*models.Batch, error) {
	return s.repos.Geography.ListBatches(ctx, cityID)
}
