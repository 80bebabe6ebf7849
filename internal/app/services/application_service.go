package services

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/email"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
)

// ApplicationStore covers the registration request rows.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetByEmail(ctx context.Context, email string) (*models.Application, error)
	List(ctx context.Context, groupName string, status models.ApplicationStatus) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
}

var titleCaser = cases.Title(language.English)

// ApplicationService manages registration requests from submission through
// approval. Approval issues a signed verification token by email; a failed
// send never rolls the status change back.
type ApplicationService struct {
	applications ApplicationStore
	tokenSigner  *signer.Signer
	mailer       email.Service
}

func NewApplicationService(applications ApplicationStore, tokenSigner *signer.Signer, mailer email.Service) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		tokenSigner:  tokenSigner,
		mailer:       mailer,
	}
}

// Submit records a new application in pending state. Free-text fields are
// normalized so later lookups (email matching, batch resolution by city)
// are case-stable.
func (s *ApplicationService) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	app := &models.Application{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:  titleCaser.String(strings.TrimSpace(req.FirstName)),
		LastName:   titleCaser.String(strings.TrimSpace(req.LastName)),
		GroupName:  strings.ToLower(strings.TrimSpace(req.GroupName)),
		City:       titleCaser.String(strings.TrimSpace(req.City)),
		CityAbb:    strings.ToUpper(strings.TrimSpace(req.CityAbb)),
		Status:     models.ApplicationPending,
		Program:    req.Program,
		ProgramAbb: req.ProgramAbb,
		Skill:      req.Skill,
	}

	if _, ok := models.DefaultGroupCatalog()[app.GroupName]; !ok {
		return nil, apperrors.ErrUnknownGroup
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("application_id", app.ID).
		Str("group", app.GroupName).
		Msg("application submitted")
	return app, nil
}

// Get returns a single application by ID.
func (s *ApplicationService) Get(ctx context.Context, id int64) (*models.Application, error) {
	return s.applications.GetByID(ctx, id)
}

// List returns applications filtered by group and status. Empty filters
// match everything.
func (s *ApplicationService) List(ctx context.Context, groupName string, status models.ApplicationStatus) ([]*models.Application, error) {
	if status != "" && !models.ValidApplicationStatus(status) {
		return nil, apperrors.NewValidationError("unknown application status: " + string(status))
	}
	return s.applications.List(ctx, strings.ToLower(groupName), status)
}

// Process moves an application through its lifecycle. Transitions only move
// forward (pending, short_listed, approved); removed is terminal and
// reachable from any live state. Staff selections carried on the request
// (location, program, skill) are recorded alongside the transition.
// Approving triggers the verification email.
func (s *ApplicationService) Process(ctx context.Context, id int64, req *dto.ProcessApplicationRequest) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to := models.ApplicationStatus(req.Status)
	if !models.ValidApplicationStatus(to) {
		return nil, apperrors.NewValidationError("unknown application status: " + req.Status)
	}
	if !models.CanTransition(app.Status, to) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	if req.LocationID != nil {
		app.LocationID = req.LocationID
	}
	if req.Program != nil {
		app.Program = req.Program
	}
	if req.ProgramAbb != nil {
		programAbb := strings.ToUpper(*req.ProgramAbb)
		app.ProgramAbb = &programAbb
	}
	if req.Skill != nil {
		app.Skill = req.Skill
	}

	if to == models.ApplicationShortListed && app.GroupName == models.GroupStudent && app.LocationID == nil {
		return nil, apperrors.NewValidationError("short-listing a student requires a location")
	}

	app.Status = to
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}

	if to == models.ApplicationApproved {
		s.sendVerification(app)
	}

	logger.Info().
		Int64("application_id", app.ID).
		Str("status", string(to)).
		Msg("application processed")
	return app, nil
}

// ResendVerification re-issues the verification email for an approved
// application whose account has not been created yet.
func (s *ApplicationService) ResendVerification(ctx context.Context, emailAddr string) error {
	app, err := s.applications.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return err
	}
	if app.Status != models.ApplicationApproved {
		return apperrors.ErrApplicationNotOpen
	}
	s.sendVerification(app)
	return nil
}

func (s *ApplicationService) sendVerification(app *models.Application) {
	token := s.tokenSigner.IssueToken(app.ID, app.Email)
	if err := s.mailer.SendVerificationEmail(app.Email, app.FirstName, token); err != nil {
		logger.Error().Err(err).
			Int64("application_id", app.ID).
			Msg("failed to send verification email")
	}
}
