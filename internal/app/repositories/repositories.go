package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for dependency injection.
type Repositories struct {
	Account       *AccountRepository
	Application   *ApplicationRepository
	Group         *GroupRepository
	AccessControl *AccessControlRepository
	IDCounter     *IDCounterRepository
	Geography     *GeographyRepository
	Session       *SessionRepository
	Binding       *BindingRepository
	Token         *TokenRepository
}

// NewRepositories creates all repositories sharing one connection pool.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Account:       NewAccountRepository(db),
		Application:   NewApplicationRepository(db),
		Group:         NewGroupRepository(db),
		AccessControl: NewAccessControlRepository(db),
		IDCounter:     NewIDCounterRepository(db),
		Geography:     NewGeographyRepository(db),
		Session:       NewSessionRepository(db),
		Binding:       NewBindingRepository(db),
		Token:         NewTokenRepository(db),
	}
}

// statementBuilder returns the shared squirrel builder with Postgres
// placeholders.
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
