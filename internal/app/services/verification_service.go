package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
)

// VerificationTxStore is the transaction-bound storage surface used while a
// token is consumed. Everything called through it commits or rolls back as
// one unit.
type VerificationTxStore interface {
	AllocatorStore
	ApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	DeleteApplication(ctx context.Context, id int64) error
	CreateAccount(ctx context.Context, account *models.Account) error
	CreateStudent(ctx context.Context, student *models.Student) error
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	LocationByID(ctx context.Context, id int64) (*models.Location, error)
	CityByName(ctx context.Context, name string) (*models.City, error)
	BatchByCityAndYear(ctx context.Context, cityName string, year int) (*models.Batch, error)
}

// VerificationStore is the full storage surface of the verification gateway.
type VerificationStore interface {
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetPassword(ctx context.Context, accountID int64, hashedPassword string) error
	InTx(ctx context.Context, fn func(store VerificationTxStore) error) error
}

// VerificationService consumes signed verification tokens: it turns an
// approved application into an account with a group-ranged ID plus its
// profile row, all inside one transaction, then deletes the application so
// the token cannot be replayed.
type VerificationService struct {
	store       VerificationStore
	allocator   *AllocatorService
	tokenSigner *signer.Signer
	now         func() time.Time
}

func NewVerificationService(store VerificationStore, allocator *AllocatorService, tokenSigner *signer.Signer) *VerificationService {
	return &VerificationService{
		store:       store,
		allocator:   allocator,
		tokenSigner: tokenSigner,
		now:         time.Now,
	}
}

// Verify validates the token, creates the account and profile, and consumes
// the application. A token whose application is already gone reports
// ErrAlreadyVerified when the account exists, ErrTokenInvalid otherwise.
func (s *VerificationService) Verify(ctx context.Context, token string) (*dto.VerifyResponse, error) {
	appID, tokenEmail, err := s.tokenSigner.Verify(token, signer.DefaultMaxAge)
	if err != nil {
		return nil, err
	}

	var resp *dto.VerifyResponse
	err = s.store.InTx(ctx, func(tx VerificationTxStore) error {
		app, err := tx.ApplicationByID(ctx, appID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrApplicationNotFound) {
				return err
			}
			exists, existsErr := s.store.EmailExists(ctx, tokenEmail)
			if existsErr != nil {
				return existsErr
			}
			if exists {
				return apperrors.ErrAlreadyVerified
			}
			return apperrors.ErrTokenInvalid
		}

		// The token binds the application ID to the email it was mailed to.
		if !strings.EqualFold(app.Email, tokenEmail) {
			return apperrors.ErrTokenInvalid
		}
		if app.Status != models.ApplicationApproved {
			return apperrors.ErrApplicationNotOpen
		}

		accountID, group, err := s.allocator.Allocate(ctx, tx, app.GroupName, false)
		if err != nil {
			return err
		}

		account := &models.Account{
			ID:         accountID,
			Email:      app.Email,
			FirstName:  app.FirstName,
			LastName:   app.LastName,
			IsVerified: true,
			IsActive:   true,
			IsStaff:    app.GroupName == models.GroupAdmin || app.GroupName == models.GroupHOD,
			GroupID:    group.ID,
		}
		if err := tx.CreateAccount(ctx, account); err != nil {
			return err
		}

		resp = &dto.VerifyResponse{
			AccountID: accountID,
			Email:     account.Email,
			GroupName: app.GroupName,
		}

		switch app.GroupName {
		case models.GroupStudent:
			regID, err := s.createStudentProfile(ctx, tx, app, accountID)
			if err != nil {
				return err
			}
			resp.RegistrationID = &regID
		case models.GroupInstructor:
			if err := s.createInstructorProfile(ctx, tx, app, accountID); err != nil {
				return err
			}
		}

		return tx.DeleteApplication(ctx, app.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("account_id", resp.AccountID).
		Str("group", resp.GroupName).
		Msg("account created from application")
	return resp, nil
}

func (s *VerificationService) createStudentProfile(ctx context.Context, tx VerificationTxStore, app *models.Application, accountID int64) (string, error) {
	if app.LocationID == nil {
		return "", apperrors.NewValidationError("approved student application has no location")
	}
	location, err := tx.LocationByID(ctx, *app.LocationID)
	if err != nil {
		return "", err
	}
	if app.Program == nil || app.ProgramAbb == nil {
		return "", apperrors.NewValidationError("approved student application has no program")
	}

	batch, err := tx.BatchByCityAndYear(ctx, app.City, s.now().Year())
	if err != nil {
		return "", err
	}

	regID := fmt.Sprintf("%s-%s-%d", batch.Code, *app.ProgramAbb, accountID)
	student := &models.Student{
		AccountID:      accountID,
		BatchID:        batch.ID,
		LocationID:     location.ID,
		Program:        *app.Program,
		ProgramAbb:     *app.ProgramAbb,
		RegistrationID: regID,
	}
	return regID, tx.CreateStudent(ctx, student)
}

func (s *VerificationService) createInstructorProfile(ctx context.Context, tx VerificationTxStore, app *models.Application, accountID int64) error {
	if app.Skill == nil {
		return apperrors.NewValidationError("approved instructor application has no skill")
	}
	city, err := tx.CityByName(ctx, app.City)
	if err != nil {
		return err
	}
	instructor := &models.Instructor{
		AccountID: accountID,
		CityID:    city.ID,
		Skill:     *app.Skill,
	}
	return tx.CreateInstructor(ctx, instructor)
}

// CompleteSetPassword sets the account's first password using the same
// signed token that verified the email. Accounts that already have a
// password must use the change or reset flows instead.
func (s *VerificationService) CompleteSetPassword(ctx context.Context, token, password string) error {
	_, tokenEmail, err := s.tokenSigner.Verify(token, signer.DefaultMaxAge)
	if err != nil {
		return err
	}

	account, err := s.store.AccountByEmail(ctx, tokenEmail)
	if err != nil {
		return err
	}
	if account.Password != "" {
		return apperrors.ErrAlreadyVerified
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.SetPassword(ctx, account.ID, hashed)
}
