package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/db"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
)

// SessionRequestService manages the lifecycle of requests before a teacher
// acts on them
type SessionRequestService interface {
	Create(ctx context.Context, input CreateSessionRequestInput) (*models.SessionRequest, error)
	Cancel(ctx context.Context, requestID, studentID int64) error
	GetByID(ctx context.Context, requestID, callerID int64) (*models.SessionRequest, error)
	ListForStudent(ctx context.Context, studentID int64, page, pageSize int) ([]models.SessionRequest, int64, error)
	ListPendingForTeacher(ctx context.Context, teacherID int64, page, pageSize int) ([]models.SessionRequest, int64, error)
}

// CreateSessionRequestInput holds the fields a student submits for a new request
type CreateSessionRequestInput struct {
	StudentID                int64
	TeacherID                int64
	Subject                  string
	Description              string
	PointAmount              int64
	EstimatedDurationMinutes int
	RequestedStartTime       time.Time
}

// sessionRequestServiceImpl implements SessionRequestService
type sessionRequestServiceImpl struct {
	tx          db.Transactioner
	requestRepo sessionRequestStore
	userRepo    userStore
	logger      zerolog.Logger
}

// NewSessionRequestService creates a new SessionRequestService
func NewSessionRequestService(
	tx db.Transactioner,
	requestRepo sessionRequestStore,
	userRepo userStore,
	logger zerolog.Logger,
) SessionRequestService {
	return &sessionRequestServiceImpl{
		tx:          tx,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create validates the target teacher and stores a new pending request. The
// point amount offered is fixed here and carried unchanged through acceptance
// and settlement.
func (s *sessionRequestServiceImpl) Create(ctx context.Context, input CreateSessionRequestInput) (*models.SessionRequest, error) {
	s.logger.Debug().
		Int64("studentID", input.StudentID).
		Int64("teacherID", input.TeacherID).
		Msg("Creating session request")

	if input.StudentID == input.TeacherID {
		return nil, apperrors.NewValidationError("Cannot request a session with yourself")
	}
	if input.PointAmount < 1 {
		return nil, apperrors.NewValidationError("Point amount must be at least 1")
	}
	if input.EstimatedDurationMinutes < 1 {
		return nil, apperrors.NewValidationError("Estimated duration must be at least 1 minute")
	}

	teacher, err := s.userRepo.FindByID(ctx, input.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.RoleType != models.RoleTeacher {
		return nil, apperrors.NewValidationError("Target user is not a teacher")
	}
	if !teacher.IsActive {
		return nil, apperrors.NewValidationError("Target teacher account is not active")
	}

	request := &models.SessionRequest{
		StudentID:                input.StudentID,
		TeacherID:                input.TeacherID,
		Subject:                  input.Subject,
		Description:              input.Description,
		PointAmount:              input.PointAmount,
		EstimatedDurationMinutes: input.EstimatedDurationMinutes,
		RequestedStartTime:       input.RequestedStartTime,
		Status:                   models.RequestStatusPending,
	}

	id, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = id

	s.logger.Info().
		Int64("requestID", id).
		Int64("points", input.PointAmount).
		Msg("Session request created")

	return request, nil
}

// Cancel withdraws a still-pending request. Only the student who created it
// may cancel, and a request a teacher already acted on stays as it is.
func (s *sessionRequestServiceImpl) Cancel(ctx context.Context, requestID, studentID int64) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		request, err := s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if request.StudentID != studentID {
			return apperrors.NewForbiddenError("Session request belongs to another student")
		}
		if !request.IsPending() {
			return apperrors.NewConflictError(apperrors.ErrRequestAlreadyProcessed, "Session request already processed")
		}

		return s.requestRepo.MarkCancelled(ctx, tx, request.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("requestID", requestID).Msg("Session request cancelled")
	return nil
}

// GetByID retrieves a request visible to one of its participants
func (s *sessionRequestServiceImpl) GetByID(ctx context.Context, requestID, callerID int64) (*models.SessionRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.IsParticipant(callerID) {
		return nil, apperrors.NewForbiddenError("Session request belongs to other participants")
	}

	return request, nil
}

// ListForStudent returns the student's requests, newest first
func (s *sessionRequestServiceImpl) ListForStudent(ctx context.Context, studentID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return s.requestRepo.ListByStudent(ctx, studentID, page, pageSize)
}

// ListPendingForTeacher returns requests awaiting the teacher's decision
func (s *sessionRequestServiceImpl) ListPendingForTeacher(ctx context.Context, teacherID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	return s.requestRepo.ListPendingByTeacher(ctx, teacherID, page, pageSize)
}
