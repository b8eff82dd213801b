package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/db"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/notification"
)

// BookingService owns the SessionRequest -> Session state machine. Every
// transition validates authorization and current state inside one atomic
// transaction; notifications go out only after the transaction commits.
type BookingService interface {
	AcceptSessionRequest(ctx context.Context, requestID, teacherID int64, scheduledStartTime time.Time) (int64, error)
	RejectSessionRequest(ctx context.Context, requestID, teacherID int64, reason *string) error
	StartSession(ctx context.Context, sessionID, teacherID int64) error
	EndSession(ctx context.Context, sessionID int64, input EndSessionInput) error
	GetSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error)
	ListSessions(ctx context.Context, userID int64, page, pageSize int) ([]models.Session, int64, error)
}

// EndSessionInput carries the caller and the optional close-out fields of a
// session. Either participant may end a session.
type EndSessionInput struct {
	CallerID      int64
	TeacherNotes  *string
	StudentNotes  *string
	TeacherRating *int
	StudentRating *int
}

// bookingServiceImpl implements BookingService
type bookingServiceImpl struct {
	tx          db.Transactioner
	requestRepo sessionRequestStore
	sessionRepo sessionStore
	balanceRepo balanceStore
	userRepo    userStore
	notifier    notification.Notifier
	logger      zerolog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	tx db.Transactioner,
	requestRepo sessionRequestStore,
	sessionRepo sessionStore,
	balanceRepo balanceStore,
	userRepo userStore,
	notifier notification.Notifier,
	logger zerolog.Logger,
) BookingService {
	return &bookingServiceImpl{
		tx:          tx,
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// AcceptSessionRequest transitions a pending request to ACCEPTED and creates
// the scheduled session, copying subject, description, point amount and
// estimated duration from the request. Returns the new session id.
func (s *bookingServiceImpl) AcceptSessionRequest(ctx context.Context, requestID, teacherID int64, scheduledStartTime time.Time) (int64, error) {
	s.logger.Debug().
		Int64("requestID", requestID).
		Int64("teacherID", teacherID).
		Msg("Accepting session request")

	var sessionID int64
	var request *models.SessionRequest

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		request, err = s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if request.TeacherID != teacherID {
			return apperrors.NewForbiddenError("Session request belongs to another teacher")
		}
		if !request.IsPending() {
			return apperrors.NewConflictError(apperrors.ErrRequestAlreadyProcessed, "Session request already processed")
		}

		now := time.Now()
		session := &models.Session{
			SessionRequestID:       request.ID,
			StudentID:              request.StudentID,
			TeacherID:              request.TeacherID,
			Subject:                request.Subject,
			Description:            request.Description,
			PointAmount:            request.PointAmount,
			ScheduledStartTime:     scheduledStartTime,
			PlannedDurationMinutes: request.EstimatedDurationMinutes,
			Status:                 models.SessionStatusScheduled,
		}

		sessionID, err = s.sessionRepo.Create(ctx, tx, session)
		if err != nil {
			return err
		}

		return s.requestRepo.MarkAccepted(ctx, tx, request.ID, sessionID, now)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("requestID", requestID).
		Int64("sessionID", sessionID).
		Msg("Session request accepted")

	s.notifyAccepted(ctx, request, scheduledStartTime)

	return sessionID, nil
}

// RejectSessionRequest transitions a pending request to REJECTED
func (s *bookingServiceImpl) RejectSessionRequest(ctx context.Context, requestID, teacherID int64, reason *string) error {
	s.logger.Debug().
		Int64("requestID", requestID).
		Int64("teacherID", teacherID).
		Msg("Rejecting session request")

	var request *models.SessionRequest

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		request, err = s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if request.TeacherID != teacherID {
			return apperrors.NewForbiddenError("Session request belongs to another teacher")
		}
		if !request.IsPending() {
			return apperrors.NewConflictError(apperrors.ErrRequestAlreadyProcessed, "Session request already processed")
		}

		return s.requestRepo.MarkRejected(ctx, tx, request.ID, reason, time.Now())
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("requestID", requestID).Msg("Session request rejected")

	s.notifyRejected(ctx, request, reason)

	return nil
}

// StartSession transitions the teacher's scheduled session to IN_PROGRESS and
// stamps the actual start time used later to derive the actual duration.
func (s *bookingServiceImpl) StartSession(ctx context.Context, sessionID, teacherID int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.sessionRepo.GetByIDForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.TeacherID != teacherID {
			return apperrors.NewForbiddenError("Session belongs to another teacher")
		}
		if !session.CanBeStarted() {
			return apperrors.NewConflictError(apperrors.ErrSessionCannotBeStarted, "Session cannot be started in its current state")
		}

		return s.sessionRepo.MarkStarted(ctx, tx, session.ID, time.Now())
	})
}

// EndSession completes a session and settles its points. Preconditions are
// checked in a fixed order inside the transaction: the session must exist,
// its status must still permit ending, and points must not have been
// transferred yet. The settlement debits the student and credits the teacher
// by the point amount captured on the session at creation time, exactly once;
// a retried call observes the Completed status and fails with a conflict.
func (s *bookingServiceImpl) EndSession(ctx context.Context, sessionID int64, input EndSessionInput) error {
	s.logger.Debug().Int64("sessionID", sessionID).Msg("Ending session")

	var session *models.Session

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		session, err = s.sessionRepo.GetByIDForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if !session.IsParticipant(input.CallerID) {
			return apperrors.NewForbiddenError("Session belongs to other participants")
		}
		if !session.CanBeEnded() {
			return apperrors.NewConflictError(apperrors.ErrSessionCannotBeEnded, "Session cannot be ended in its current state")
		}
		if session.PointsTransferred {
			return apperrors.NewConflictError(apperrors.ErrPointsAlreadyTransferred, "Points were already transferred for this session")
		}

		now := time.Now()
		session.Status = models.SessionStatusCompleted
		session.ActualEndTime = &now

		// A session ended without ever being started has no actual duration
		if session.ActualStartTime != nil {
			minutes := int(now.Sub(*session.ActualStartTime) / time.Minute)
			session.ActualDurationMinutes = &minutes
		}

		if input.TeacherNotes != nil {
			session.TeacherNotes = input.TeacherNotes
		}
		if input.StudentNotes != nil {
			session.StudentNotes = input.StudentNotes
		}
		if input.TeacherRating != nil {
			session.TeacherRating = input.TeacherRating
		}
		if input.StudentRating != nil {
			session.StudentRating = input.StudentRating
		}

		// Settlement: the amount is the one captured at acceptance time
		if err := s.balanceRepo.Debit(ctx, tx, session.StudentID, session.PointAmount); err != nil {
			return err
		}
		if err := s.balanceRepo.Credit(ctx, tx, session.TeacherID, session.PointAmount); err != nil {
			return err
		}

		session.PointsTransferred = true
		session.PointsTransferredAt = &now

		if err := s.sessionRepo.Complete(ctx, tx, session); err != nil {
			return err
		}

		return s.requestRepo.MarkCompleted(ctx, tx, session.SessionRequestID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("sessionID", sessionID).
		Int64("points", session.PointAmount).
		Msg("Session ended, points settled")

	s.notifyEnded(ctx, session)

	return nil
}

// GetSession retrieves a session visible to one of its participants
func (s *bookingServiceImpl) GetSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsParticipant(callerID) {
		return nil, apperrors.NewForbiddenError("Session belongs to other participants")
	}

	return session, nil
}

// ListSessions returns the sessions the user participates in
func (s *bookingServiceImpl) ListSessions(ctx context.Context, userID int64, page, pageSize int) ([]models.Session, int64, error) {
	return s.sessionRepo.ListByUser(ctx, userID, page, pageSize)
}

// notifyAccepted informs the student's device after the accept transaction
// committed. Failures here are logged by the notifier and never surfaced.
func (s *bookingServiceImpl) notifyAccepted(ctx context.Context, request *models.SessionRequest, scheduledStartTime time.Time) {
	student, err := s.userRepo.FindByID(ctx, request.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("studentID", request.StudentID).Msg("Could not load student for acceptance notification")
		return
	}
	teacher, err := s.userRepo.FindByID(ctx, request.TeacherID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("teacherID", request.TeacherID).Msg("Could not load teacher for acceptance notification")
		return
	}

	token := ""
	if student.DeviceToken != nil {
		token = *student.DeviceToken
	}
	s.notifier.NotifySessionAccepted(token, teacher.FullName(), scheduledStartTime)
}

func (s *bookingServiceImpl) notifyRejected(ctx context.Context, request *models.SessionRequest, reason *string) {
	student, err := s.userRepo.FindByID(ctx, request.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("studentID", request.StudentID).Msg("Could not load student for rejection notification")
		return
	}
	teacher, err := s.userRepo.FindByID(ctx, request.TeacherID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("teacherID", request.TeacherID).Msg("Could not load teacher for rejection notification")
		return
	}

	token := ""
	if student.DeviceToken != nil {
		token = *student.DeviceToken
	}
	reasonText := ""
	if reason != nil {
		reasonText = *reason
	}
	s.notifier.NotifySessionRejected(token, teacher.FullName(), reasonText)
}

func (s *bookingServiceImpl) notifyEnded(ctx context.Context, session *models.Session) {
	student, err := s.userRepo.FindByID(ctx, session.StudentID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("studentID", session.StudentID).Msg("Could not load student for end notification")
		return
	}
	teacher, err := s.userRepo.FindByID(ctx, session.TeacherID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("teacherID", session.TeacherID).Msg("Could not load teacher for end notification")
		return
	}

	if student.DeviceToken != nil {
		s.notifier.NotifySessionEnded(*student.DeviceToken, teacher.FullName())
	}
	if teacher.DeviceToken != nil {
		s.notifier.NotifySessionEnded(*teacher.DeviceToken, student.FullName())
	}
}
