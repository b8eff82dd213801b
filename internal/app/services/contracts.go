package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
)

// The booking engine depends on these narrow store contracts rather than the
// concrete pgx repositories so its state machine can be tested against
// in-memory fakes. The repositories package satisfies all of them.

type sessionRequestStore interface {
	Create(ctx context.Context, request *models.SessionRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SessionRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.SessionRequest, error)
	MarkAccepted(ctx context.Context, tx pgx.Tx, id, sessionID int64, acceptedAt time.Time) error
	MarkRejected(ctx context.Context, tx pgx.Tx, id int64, reason *string, rejectedAt time.Time) error
	MarkCancelled(ctx context.Context, tx pgx.Tx, id int64) error
	MarkCompleted(ctx context.Context, tx pgx.Tx, id int64) error
	ListByStudent(ctx context.Context, studentID int64, page, pageSize int) ([]models.SessionRequest, int64, error)
	ListPendingByTeacher(ctx context.Context, teacherID int64, page, pageSize int) ([]models.SessionRequest, int64, error)
}

type sessionStore interface {
	Create(ctx context.Context, tx pgx.Tx, session *models.Session) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Session, error)
	MarkStarted(ctx context.Context, tx pgx.Tx, id int64, startedAt time.Time) error
	Complete(ctx context.Context, tx pgx.Tx, session *models.Session) error
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Session, int64, error)
}

type balanceStore interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	Credit(ctx context.Context, tx pgx.Tx, userID, amount int64) error
	Debit(ctx context.Context, tx pgx.Tx, userID, amount int64) error
}

type userStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateDeviceToken(ctx context.Context, userID int64, deviceToken string) error
}
