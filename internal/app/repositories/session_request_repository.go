package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/dberrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/logger"
)

var sessionRequestColumns = []string{
	"id", "student_id", "teacher_id", "subject", "description", "point_amount",
	"estimated_duration_minutes", "requested_start_time", "status",
	"accepted_at", "rejected_at", "rejection_reason", "session_id",
	"created_at", "updated_at",
}

// SessionRequestRepository handles session request database operations
type SessionRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRequestRepository creates a new SessionRequestRepository
func NewSessionRequestRepository(db *pgxpool.Pool) *SessionRequestRepository {
	return &SessionRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSessionRequest(row pgx.Row) (*models.SessionRequest, error) {
	var request models.SessionRequest
	err := row.Scan(
		&request.ID, &request.StudentID, &request.TeacherID, &request.Subject,
		&request.Description, &request.PointAmount, &request.EstimatedDurationMinutes,
		&request.RequestedStartTime, &request.Status, &request.AcceptedAt,
		&request.RejectedAt, &request.RejectionReason, &request.SessionID,
		&request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new pending session request and returns its id
func (r *SessionRequestRepository) Create(ctx context.Context, request *models.SessionRequest) (int64, error) {
	sql, args, err := r.sb.Insert("session_requests").
		Columns("student_id", "teacher_id", "subject", "description", "point_amount",
			"estimated_duration_minutes", "requested_start_time", "status").
		Values(request.StudentID, request.TeacherID, request.Subject, request.Description,
			request.PointAmount, request.EstimatedDurationMinutes, request.RequestedStartTime,
			request.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create session request query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		if dberrors.IsCheckViolation(err, "session_requests_distinct_parties") {
			return 0, apperrors.NewValidationError("Session request violates a data constraint")
		}
		logger.Error().Err(err).
			Int64("studentID", request.StudentID).
			Int64("teacherID", request.TeacherID).
			Msg("Error creating session request")
		return 0, fmt.Errorf("error creating session request: %w", err)
	}

	return id, nil
}

// GetByID retrieves a session request by id
func (r *SessionRequestRepository) GetByID(ctx context.Context, id int64) (*models.SessionRequest, error) {
	sql, args, err := r.sb.Select(sessionRequestColumns...).
		From("session_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session request query: %w", err)
	}

	request, err := scanSessionRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning session request row")
		return nil, fmt.Errorf("error retrieving session request: %w", err)
	}

	return request, nil
}

// GetByIDForUpdate retrieves a session request inside an open transaction,
// taking a row lock so concurrent state transitions serialize on the row.
func (r *SessionRequestRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.SessionRequest, error) {
	sql, args, err := r.sb.Select(sessionRequestColumns...).
		From("session_requests").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock session request query: %w", err)
	}

	request, err := scanSessionRequest(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionRequestNotFound
		}
		return nil, fmt.Errorf("error locking session request: %w", err)
	}

	return request, nil
}

// MarkAccepted transitions a request to ACCEPTED and links the created session
func (r *SessionRequestRepository) MarkAccepted(ctx context.Context, tx pgx.Tx, id, sessionID int64, acceptedAt time.Time) error {
	sql, args, err := r.sb.Update("session_requests").
		Set("status", models.RequestStatusAccepted).
		Set("accepted_at", acceptedAt).
		Set("session_id", sessionID).
		Set("updated_at", acceptedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build accept session request query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error accepting session request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionRequestNotFound
	}

	return nil
}

// MarkRejected transitions a request to REJECTED with an optional reason
func (r *SessionRequestRepository) MarkRejected(ctx context.Context, tx pgx.Tx, id int64, reason *string, rejectedAt time.Time) error {
	sql, args, err := r.sb.Update("session_requests").
		Set("status", models.RequestStatusRejected).
		Set("rejected_at", rejectedAt).
		Set("rejection_reason", reason).
		Set("updated_at", rejectedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reject session request query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error rejecting session request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionRequestNotFound
	}

	return nil
}

// MarkCancelled transitions a request to CANCELLED
func (r *SessionRequestRepository) MarkCancelled(ctx context.Context, tx pgx.Tx, id int64) error {
	sql, args, err := r.sb.Update("session_requests").
		Set("status", models.RequestStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cancel session request query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error cancelling session request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionRequestNotFound
	}

	return nil
}

// MarkCompleted transitions a request to COMPLETED when its session ends
func (r *SessionRequestRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, id int64) error {
	sql, args, err := r.sb.Update("session_requests").
		Set("status", models.RequestStatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complete session request query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error completing session request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionRequestNotFound
	}

	return nil
}

// ListByStudent returns a student's session requests, newest first
func (r *SessionRequestRepository) ListByStudent(ctx context.Context, studentID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return r.list(ctx, squirrel.Eq{"student_id": studentID}, page, pageSize)
}

// ListPendingByTeacher returns a teacher's open requests, newest first
func (r *SessionRequestRepository) ListPendingByTeacher(ctx context.Context, teacherID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return r.list(ctx, squirrel.Eq{"teacher_id": teacherID, "status": models.RequestStatusPending}, page, pageSize)
}

func (r *SessionRequestRepository) list(ctx context.Context, where squirrel.Eq, page, pageSize int) ([]models.SessionRequest, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("session_requests").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count session requests query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting session requests: %w", err)
	}

	offset := (page - 1) * pageSize
	sql, args, err := r.sb.Select(sessionRequestColumns...).
		From("session_requests").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list session requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing session requests: %w", err)
	}
	defer rows.Close()

	var requests []models.SessionRequest
	for rows.Next() {
		request, err := scanSessionRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning session request row: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating session request rows: %w", err)
	}

	return requests, total, nil
}
