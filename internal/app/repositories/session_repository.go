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

var sessionColumns = []string{
	"id", "session_request_id", "student_id", "teacher_id", "subject", "description",
	"point_amount", "scheduled_start_time", "planned_duration_minutes",
	"actual_start_time", "actual_end_time", "actual_duration_minutes", "status",
	"points_transferred", "points_transferred_at", "teacher_notes", "student_notes",
	"teacher_rating", "student_rating", "created_at", "updated_at",
}

// SessionRepository handles session database operations
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID, &session.SessionRequestID, &session.StudentID, &session.TeacherID,
		&session.Subject, &session.Description, &session.PointAmount,
		&session.ScheduledStartTime, &session.PlannedDurationMinutes,
		&session.ActualStartTime, &session.ActualEndTime, &session.ActualDurationMinutes,
		&session.Status, &session.PointsTransferred, &session.PointsTransferredAt,
		&session.TeacherNotes, &session.StudentNotes, &session.TeacherRating,
		&session.StudentRating, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new scheduled session inside an open transaction and
// returns its id
func (r *SessionRepository) Create(ctx context.Context, tx pgx.Tx, session *models.Session) (int64, error) {
	sql, args, err := r.sb.Insert("sessions").
		Columns("session_request_id", "student_id", "teacher_id", "subject", "description",
			"point_amount", "scheduled_start_time", "planned_duration_minutes", "status").
		Values(session.SessionRequestID, session.StudentID, session.TeacherID,
			session.Subject, session.Description, session.PointAmount,
			session.ScheduledStartTime, session.PlannedDurationMinutes, session.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create session query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		// session_request_id is unique: a second session for the same request
		// means the request was already accepted
		if dberrors.IsDuplicateConstraintError(err, "sessions_session_request_id_key") {
			return 0, apperrors.NewConflictError(apperrors.ErrRequestAlreadyProcessed, "Session request already has a session")
		}
		logger.Error().Err(err).
			Int64("requestID", session.SessionRequestID).
			Msg("Error creating session")
		return 0, fmt.Errorf("error creating session: %w", err)
	}

	return id, nil
}

// GetByID retrieves a session by id
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return session, nil
}

// GetByIDForUpdate retrieves a session inside an open transaction, taking a
// row lock so concurrent end/start calls serialize on the row.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Session, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock session query: %w", err)
	}

	session, err := scanSession(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error locking session: %w", err)
	}

	return session, nil
}

// MarkStarted transitions a session to IN_PROGRESS and stamps the actual start time
func (r *SessionRepository) MarkStarted(ctx context.Context, tx pgx.Tx, id int64, startedAt time.Time) error {
	sql, args, err := r.sb.Update("sessions").
		Set("status", models.SessionStatusInProgress).
		Set("actual_start_time", startedAt).
		Set("updated_at", startedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build start session query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error starting session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// Complete writes the end-of-session state: final status, actual end time and
// duration, notes, ratings, and the settlement flag. Called only from the
// end-session transaction.
func (r *SessionRepository) Complete(ctx context.Context, tx pgx.Tx, session *models.Session) error {
	sql, args, err := r.sb.Update("sessions").
		Set("status", session.Status).
		Set("actual_end_time", session.ActualEndTime).
		Set("actual_duration_minutes", session.ActualDurationMinutes).
		Set("teacher_notes", session.TeacherNotes).
		Set("student_notes", session.StudentNotes).
		Set("teacher_rating", session.TeacherRating).
		Set("student_rating", session.StudentRating).
		Set("points_transferred", session.PointsTransferred).
		Set("points_transferred_at", session.PointsTransferredAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": session.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complete session query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error completing session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// ListByUser returns sessions where the user is a participant, newest first
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Session, int64, error) {
	where := squirrel.Or{
		squirrel.Eq{"student_id": userID},
		squirrel.Eq{"teacher_id": userID},
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("sessions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count sessions query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting sessions: %w", err)
	}

	offset := (page - 1) * pageSize
	sql, args, err := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(where).
		OrderBy("scheduled_start_time DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating session rows: %w", err)
	}

	return sessions, total, nil
}
