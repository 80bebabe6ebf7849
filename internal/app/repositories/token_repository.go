package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hamzahassan/campuscore/internal/db"
	"github.com/hamzahassan/campuscore/internal/pkg/apperrors"
	"github.com/hamzahassan/campuscore/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(q db.Querier) *TokenRepository {
	return &TokenRepository{db: q, sb: statementBuilder()}
}

// Create stores a new refresh token
func (r *TokenRepository) Create(ctx context.Context, token string, accountID int64, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "account_id", "expiry_date", "is_revoked", "created_at").
		Values(token, accountID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error storing refresh token")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// Get retrieves a refresh token's owner, expiry and revocation state
func (r *TokenRepository) Get(ctx context.Context, token string) (accountID int64, expiryDate time.Time, isRevoked bool, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT account_id, expiry_date, is_revoked FROM refresh_tokens WHERE token = $1`,
		token).Scan(&accountID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, false, apperrors.ErrTokenNotFound
		}
		return 0, time.Time{}, false, fmt.Errorf("error retrieving token: %w", err)
	}
	return accountID, expiryDate, isRevoked, nil
}

// Revoke marks a refresh token revoked
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllForAccount revokes every refresh token of an account; used after a
// password change.
func (r *TokenRepository) RevokeAllForAccount(ctx context.Context, accountID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET is_revoked = TRUE WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("error revoking account tokens: %w", err)
	}
	return nil
}
