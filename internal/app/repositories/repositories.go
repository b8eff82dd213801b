package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository           *UserRepository
	SessionRequestRepository *SessionRequestRepository
	SessionRepository        *SessionRepository
	BalanceRepository        *BalanceRepository
}

// NewRepositories creates all repositories over a shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		SessionRequestRepository: NewSessionRequestRepository(db),
		SessionRepository:        NewSessionRepository(db),
		BalanceRepository:        NewBalanceRepository(db),
	}
}
