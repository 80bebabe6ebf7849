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

// AccountRepository handles account and profile database operations
type AccountRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(q db.Querier) *AccountRepository {
	return &AccountRepository{db: q, sb: statementBuilder()}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{db: tx, sb: r.sb}
}

// CreateAccount inserts an account whose id was already allocated
func (r *AccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("accounts").
		Columns("id", "email", "password", "first_name", "last_name",
			"is_verified", "is_active", "is_staff", "is_superuser", "group_id",
			"created_at", "updated_at").
		Values(account.ID, account.Email, account.Password, account.FirstName, account.LastName,
			account.IsVerified, account.IsActive, account.IsStaff, account.IsSuperuser, account.GroupID,
			now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create account query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "accounts_email_key") {
			logger.Warn().Str("email", account.Email).Msg("Attempted to create account with duplicate email")
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("accountID", account.ID).Msg("Error executing create account query")
		return fmt.Errorf("error creating account: %w", err)
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	logger.Info().Int64("accountID", account.ID).Str("email", account.Email).Msg("Account created")
	return nil
}

const accountColumns = `a.id, a.email, a.password, a.first_name, a.last_name,
	a.is_verified, a.is_active, a.is_staff, a.is_superuser, a.group_id,
	a.created_at, a.updated_at, a.last_login_at, COALESCE(g.name, '')`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Email, &account.Password,
		&account.FirstName, &account.LastName,
		&account.IsVerified, &account.IsActive, &account.IsStaff, &account.IsSuperuser,
		&account.GroupID, &account.CreatedAt, &account.UpdatedAt, &account.LastLoginAt,
		&account.GroupName)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	sql := fmt.Sprintf(`SELECT %s FROM accounts a
		LEFT JOIN groups g ON g.id = a.group_id
		WHERE LOWER(a.email) = LOWER($1)`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning account row")
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return account, nil
}

// GetByID retrieves an account by its allocated identifier
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	sql := fmt.Sprintf(`SELECT %s FROM accounts a
		LEFT JOIN groups g ON g.id = a.group_id
		WHERE a.id = $1`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		logger.Error().Err(err).Int64("accountID", id).Msg("Error scanning account row")
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return account, nil
}

// EmailExists checks whether an account with the email exists
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces the stored password hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, accountID int64, hashedPassword string) error {
	sql, args, err := r.sb.Update("accounts").
		Set("password", hashedPassword).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error updating password")
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// MarkVerified flips the verification flag
func (r *AccountRepository) MarkVerified(ctx context.Context, accountID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("error marking account verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last login time
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, accountID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE accounts SET last_login_at = NOW() WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// CreateStudent inserts a student profile
func (r *AccountRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("account_id", "batch_id", "location_id", "program", "program_abb", "registration_id").
		Values(student.AccountID, student.BatchID, student.LocationID,
			student.Program, student.ProgramAbb, student.RegistrationID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		logger.Error().Err(err).Int64("accountID", student.AccountID).Msg("Error creating student profile")
		return fmt.Errorf("error creating student: %w", err)
	}
	logger.Info().Int64("accountID", student.AccountID).Str("registrationID", student.RegistrationID).Msg("Student profile created")
	return nil
}

// CreateInstructor inserts an instructor profile
func (r *AccountRepository) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns("account_id", "city_id", "skill").
		Values(instructor.AccountID, instructor.CityID, instructor.Skill).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&instructor.ID); err != nil {
		logger.Error().Err(err).Int64("accountID", instructor.AccountID).Msg("Error creating instructor profile")
		return fmt.Errorf("error creating instructor: %w", err)
	}
	return nil
}

// GetStudentByAccountID retrieves the student profile for an account
func (r *AccountRepository) GetStudentByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	var student models.Student
	err := r.db.QueryRow(ctx,
		`SELECT id, account_id, batch_id, location_id, program, program_abb, registration_id
		 FROM students WHERE account_id = $1`, accountID).
		Scan(&student.ID, &student.AccountID, &student.BatchID, &student.LocationID,
			&student.Program, &student.ProgramAbb, &student.RegistrationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &student, nil
}

// GetInstructorByAccountID retrieves the instructor profile for an account
func (r *AccountRepository) GetInstructorByAccountID(ctx context.Context, accountID int64) (*models.Instructor, error) {
	var instructor models.Instructor
	err := r.db.QueryRow(ctx,
		`SELECT id, account_id, city_id, skill FROM instructors WHERE account_id = $1`, accountID).
		Scan(&instructor.ID, &instructor.AccountID, &instructor.CityID, &instructor.Skill)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return &instructor, nil
}

// CountByGroup returns the number of accounts per group name
func (r *AccountRepository) CountByGroup(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.name, COUNT(a.id) FROM groups g
		 LEFT JOIN accounts a ON a.group_id = g.id
		 GROUP BY g.name`)
	if err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("error scanning account count: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}
