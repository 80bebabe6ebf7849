package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hamzahassan/campuscore/internal/app/models"
	"github.com/hamzahassan/campuscore/internal/app/models/dto"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/auth"
	"github.com/hamzahassan/campuscore/internal/pkg/email"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/pkg/signer"
)

// AuthStore is the storage surface of the authentication flows. Staff
// provisioning reuses the verification transaction surface because it runs
// the allocator and the account insert as one unit.
type AuthStore interface {
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	AccountByID(ctx context.Context, id int64) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetPassword(ctx context.Context, accountID int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, accountID int64) error
	StudentByAccountID(ctx context.Context, accountID int64) (*models.Student, error)
	InstructorByAccountID(ctx context.Context, accountID int64) (*models.Instructor, error)
	SessionsByAccount(ctx context.Context, accountID int64) ([]*models.Session, error)
	CreateRefreshToken(ctx context.Context, token string, accountID int64, expiryDate time.Time) error
	RefreshToken(ctx context.Context, token string) (accountID int64, expiryDate time.Time, isRevoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, accountID int64) error
	InTx(ctx context.Context, fn func(store VerificationTxStore) error) error
}

// AuthService authenticates accounts and manages their credentials.
type AuthService struct {
	store         AuthStore
	jwtService    *auth.JWTService
	accessControl *AccessControlService
	allocator     *AllocatorService
	tokenSigner   *signer.Signer
	mailer        email.Service
}

func NewAuthService(store AuthStore, jwtService *auth.JWTService, accessControl *AccessControlService, allocator *AllocatorService, tokenSigner *signer.Signer, mailer email.Service) *AuthService {
	return &AuthService{
		store:         store,
		jwtService:    jwtService,
		accessControl: accessControl,
		allocator:     allocator,
		tokenSigner:   tokenSigner,
		mailer:        mailer,
	}
}

// Login authenticates by email and password. Email matching is
// case-insensitive. The response bundles the token pair with the group's
// permission bitmap, the group-dependent profile and the account's current
// session list so clients need no follow-up requests.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.store.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if account.Password == "" || !auth.CheckPassword(account.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	resp, err := s.buildLoginResponse(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateLastLogin(ctx, account.ID); err != nil {
		logger.Warn().Err(err).Int64("account_id", account.ID).Msg("failed to record login time")
	}
	return resp, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The used token
// is revoked; refresh tokens are single use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	accountID, expiry, revoked, err := s.store.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(expiry) {
		return nil, apperrors.ErrTokenExpired
	}

	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.store.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.buildLoginResponse(ctx, account)
}

func (s *AuthService) buildLoginResponse(ctx context.Context, account *models.Account) (*dto.LoginResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(account.ID, account.Email, account.GroupName)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateRefreshToken(ctx, refreshToken, account.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	permissions, err := s.accessControl.ProjectBitmap(ctx, account.GroupID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.SessionsByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{
		Tokens: dto.TokenPair{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			TokenType:        "Bearer",
			ExpiresIn:        int64(expiresIn),
			RefreshExpiresIn: int64(refreshExpiresIn),
		},
		AccountID:   account.ID,
		Email:       account.Email,
		GroupName:   account.GroupName,
		Permissions: permissions,
		Sessions:    sessions,
	}

	switch account.GroupName {
	case models.GroupStudent:
		student, err := s.store.StudentByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		if student != nil {
			resp.Profile.RegistrationID = &student.RegistrationID
			resp.Profile.Program = &student.Program
			resp.Profile.LocationID = &student.LocationID
			if student.Batch != nil {
				resp.Profile.BatchCode = &student.Batch.Code
			}
		}
	case models.GroupInstructor:
		instructor, err := s.store.InstructorByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, apperrors.ErrInstructorNotFound) {
			return nil, err
		}
		if instructor != nil {
			resp.Profile.CityID = &instructor.CityID
			resp.Profile.Skill = &instructor.Skill
		}
	}
	return resp, nil
}

// Logout revokes every refresh token the account holds.
func (s *AuthService) Logout(ctx context.Context, accountID int64) error {
	return s.store.RevokeAllRefreshTokens(ctx, accountID)
}

// CreateStaffAccount provisions an administrative account directly, without
// an application. The ID comes from the admin range, or the reserved
// superuser ID when requested.
func (s *AuthService) CreateStaffAccount(ctx context.Context, req *dto.CreateStaffAccountRequest) (*models.Account, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.store.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.store.InTx(ctx, func(tx VerificationTxStore) error {
		accountID, group, err := s.allocator.Allocate(ctx, tx, models.GroupAdmin, req.IsSuperuser)
		if err != nil {
			return err
		}
		account = &models.Account{
			ID:          accountID,
			Email:       emailAddr,
			Password:    hashed,
			FirstName:   titleCaser.String(strings.TrimSpace(req.FirstName)),
			LastName:    titleCaser.String(strings.TrimSpace(req.LastName)),
			IsVerified:  true,
			IsActive:    true,
			IsStaff:     true,
			IsSuperuser: req.IsSuperuser,
			GroupID:     group.ID,
		}
		return tx.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("account_id", account.ID).Msg("staff account created")
	return account, nil
}

// ChangePassword rotates the password of an authenticated account after
// checking the old one. All refresh tokens are revoked.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, req *dto.ChangePasswordRequest) error {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.Password, req.OldPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(ctx, accountID, hashed); err != nil {
		return err
	}
	return s.store.RevokeAllRefreshTokens(ctx, accountID)
}

// RequestPasswordReset mails a signed reset link. Unknown emails are
// reported as success so the endpoint does not leak account existence.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	account, err := s.store.AccountByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	token := s.tokenSigner.IssueToken(account.ID, account.Email)
	if err := s.mailer.SendPasswordResetEmail(account.Email, account.FirstName, token); err != nil {
		logger.Error().Err(err).Int64("account_id", account.ID).Msg("failed to send reset email")
	}
	return nil
}

// ResetPassword sets a new password from a signed reset token and revokes
// all refresh tokens.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	accountID, tokenEmail, err := s.tokenSigner.Verify(token, signer.DefaultMaxAge)
	if err != nil {
		return err
	}

	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(account.Email, tokenEmail) {
		return apperrors.ErrTokenInvalid
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(ctx, account.ID, hashed); err != nil {
		return err
	}
	return s.store.RevokeAllRefreshTokens(ctx, account.ID)
}
