package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
)

type bookingFixture struct {
	svc      BookingService
	tx       *fakeTx
	requests *fakeRequestStore
	sessions *fakeSessionStore
	balances *fakeBalanceStore
	users    *fakeUserStore
	notifier *fakeNotifier
}

func newBookingFixture() *bookingFixture {
	studentToken := "device-student"
	teacherToken := "device-teacher"
	f := &bookingFixture{
		tx:       &fakeTx{},
		requests: newFakeRequestStore(),
		sessions: newFakeSessionStore(),
		balances: newFakeBalanceStore(),
		users: newFakeUserStore(
			&models.User{ID: 1, Email: "student@example.com", FirstName: "Ada", LastName: "Student", RoleType: models.RoleStudent, IsActive: true, DeviceToken: &studentToken},
			&models.User{ID: 2, Email: "teacher@example.com", FirstName: "Tom", LastName: "Teacher", RoleType: models.RoleTeacher, IsActive: true, DeviceToken: &teacherToken},
		),
		notifier: &fakeNotifier{},
	}
	f.balances.set(1, 100)
	f.balances.set(2, 0)
	f.svc = NewBookingService(f.tx, f.requests, f.sessions, f.balances, f.users, f.notifier, zerolog.Nop())
	return f
}

func (f *bookingFixture) pendingRequest() *models.SessionRequest {
	return f.requests.put(&models.SessionRequest{
		StudentID:                1,
		TeacherID:                2,
		Subject:                  "Linear Algebra",
		PointAmount:              50,
		EstimatedDurationMinutes: 60,
		RequestedStartTime:       time.Now().Add(24 * time.Hour),
		Status:                   models.RequestStatusPending,
	})
}

func (f *bookingFixture) scheduledSession() *models.Session {
	request := f.pendingRequest()
	session := f.sessions.put(&models.Session{
		SessionRequestID:       request.ID,
		StudentID:              1,
		TeacherID:              2,
		Subject:                request.Subject,
		PointAmount:            50,
		ScheduledStartTime:     time.Now().Add(24 * time.Hour),
		PlannedDurationMinutes: 60,
		Status:                 models.SessionStatusScheduled,
	})
	request.Status = models.RequestStatusAccepted
	request.SessionID = &session.ID
	return session
}

func TestAcceptSessionRequest(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()
	scheduled := time.Now().Add(48 * time.Hour)

	sessionID, err := f.svc.AcceptSessionRequest(context.Background(), request.ID, 2, scheduled)
	require.NoError(t, err)
	require.NotZero(t, sessionID)

	session, err := f.sessions.GetByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)
	assert.Equal(t, request.ID, session.SessionRequestID)
	assert.Equal(t, int64(50), session.PointAmount)
	assert.Equal(t, 60, session.PlannedDurationMinutes)
	assert.Equal(t, "Linear Algebra", session.Subject)
	assert.False(t, session.PointsTransferred)

	updated, err := f.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, updated.Status)
	require.NotNil(t, updated.SessionID)
	assert.Equal(t, sessionID, *updated.SessionID)
	assert.NotNil(t, updated.AcceptedAt)

	assert.Equal(t, []string{"device-student"}, f.notifier.accepted)
}

func TestAcceptSessionRequestWrongTeacher(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()

	_, err := f.svc.AcceptSessionRequest(context.Background(), request.ID, 999, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, _ := f.requests.GetByID(context.Background(), request.ID)
	assert.Equal(t, models.RequestStatusPending, updated.Status)
	assert.Empty(t, f.notifier.accepted)
}

func TestAcceptSessionRequestNotPending(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()

	require.NoError(t, f.svc.RejectSessionRequest(context.Background(), request.ID, 2, nil))

	_, err := f.svc.AcceptSessionRequest(context.Background(), request.ID, 2, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyProcessed)
}

func TestAcceptSessionRequestNotFound(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.AcceptSessionRequest(context.Background(), 404, 2, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrSessionRequestNotFound)
}

func TestAcceptSessionRequestConcurrent(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.AcceptSessionRequest(context.Background(), request.ID, 2, time.Now())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyProcessed)
		}
	}
	assert.Equal(t, 1, winners, "exactly one accept must win")
	assert.Len(t, f.notifier.accepted, 1)
}

func TestRejectSessionRequest(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()
	reason := "Fully booked that week"

	err := f.svc.RejectSessionRequest(context.Background(), request.ID, 2, &reason)
	require.NoError(t, err)

	updated, err := f.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, reason, *updated.RejectionReason)
	assert.NotNil(t, updated.RejectedAt)

	assert.Equal(t, []string{"device-student"}, f.notifier.rejected)
}

func TestRejectSessionRequestAlreadyProcessed(t *testing.T) {
	f := newBookingFixture()
	request := f.pendingRequest()

	_, err := f.svc.AcceptSessionRequest(context.Background(), request.ID, 2, time.Now())
	require.NoError(t, err)

	err = f.svc.RejectSessionRequest(context.Background(), request.ID, 2, nil)
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyProcessed)
}

func TestStartSession(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	err := f.svc.StartSession(context.Background(), session.ID, 2)
	require.NoError(t, err)

	updated, err := f.sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusInProgress, updated.Status)
	assert.NotNil(t, updated.ActualStartTime)
}

func TestStartSessionTwice(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	require.NoError(t, f.svc.StartSession(context.Background(), session.ID, 2))

	err := f.svc.StartSession(context.Background(), session.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrSessionCannotBeStarted)
}

func TestEndSessionSettlesPoints(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()
	require.NoError(t, f.svc.StartSession(context.Background(), session.ID, 2))

	notes := "Good progress on eigenvalues"
	rating := 5
	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{
		CallerID:      2,
		TeacherNotes:  &notes,
		TeacherRating: &rating,
	})
	require.NoError(t, err)

	updated, err := f.sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, updated.Status)
	assert.True(t, updated.PointsTransferred)
	assert.NotNil(t, updated.PointsTransferredAt)
	assert.NotNil(t, updated.ActualEndTime)
	require.NotNil(t, updated.ActualDurationMinutes)
	assert.GreaterOrEqual(t, *updated.ActualDurationMinutes, 0)
	require.NotNil(t, updated.TeacherNotes)
	assert.Equal(t, notes, *updated.TeacherNotes)

	studentBalance, _ := f.balances.GetBalance(context.Background(), 1)
	teacherBalance, _ := f.balances.GetBalance(context.Background(), 2)
	assert.Equal(t, int64(50), studentBalance)
	assert.Equal(t, int64(50), teacherBalance)

	request, err := f.requests.GetByID(context.Background(), updated.SessionRequestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, request.Status)

	assert.Len(t, f.notifier.ended, 2)
}

func TestEndSessionWithoutStart(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 1})
	require.NoError(t, err)

	updated, _ := f.sessions.GetByID(context.Background(), session.ID)
	assert.Equal(t, models.SessionStatusCompleted, updated.Status)
	assert.Nil(t, updated.ActualDurationMinutes)
	assert.True(t, updated.PointsTransferred)
}

func TestEndSessionTwice(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	require.NoError(t, f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2}))

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2})
	assert.ErrorIs(t, err, apperrors.ErrSessionCannotBeEnded)

	// The second attempt must not move points again
	studentBalance, _ := f.balances.GetBalance(context.Background(), 1)
	teacherBalance, _ := f.balances.GetBalance(context.Background(), 2)
	assert.Equal(t, int64(50), studentBalance)
	assert.Equal(t, int64(50), teacherBalance)
}

func TestEndSessionConcurrent(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one end must settle")

	teacherBalance, _ := f.balances.GetBalance(context.Background(), 2)
	assert.Equal(t, int64(50), teacherBalance)
}

func TestEndSessionNonParticipant(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 999})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEndSessionCancelled(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()
	session.Status = models.SessionStatusCancelled
	f.sessions.put(session)

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2})
	assert.ErrorIs(t, err, apperrors.ErrSessionCannotBeEnded)
}

func TestEndSessionNotFound(t *testing.T) {
	f := newBookingFixture()

	err := f.svc.EndSession(context.Background(), 404, EndSessionInput{CallerID: 2})
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestEndSessionInsufficientPointsRollsBack(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()
	f.balances.set(1, 10) // less than the 50 point amount

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)

	// Nothing may change: balances, session status, request status
	studentBalance, _ := f.balances.GetBalance(context.Background(), 1)
	teacherBalance, _ := f.balances.GetBalance(context.Background(), 2)
	assert.Equal(t, int64(10), studentBalance)
	assert.Equal(t, int64(0), teacherBalance)

	updated, _ := f.sessions.GetByID(context.Background(), session.ID)
	assert.Equal(t, models.SessionStatusScheduled, updated.Status)
	assert.False(t, updated.PointsTransferred)
}

func TestEndSessionDebitFailureKeepsSessionOpen(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()
	f.balances.debitErr = errors.New("connection reset")

	err := f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2})
	require.Error(t, err)

	updated, _ := f.sessions.GetByID(context.Background(), session.ID)
	assert.Equal(t, models.SessionStatusScheduled, updated.Status)
	assert.False(t, updated.PointsTransferred)
	assert.Empty(t, f.notifier.ended)

	// A later retry succeeds once the debit works again
	f.balances.debitErr = nil
	require.NoError(t, f.svc.EndSession(context.Background(), session.ID, EndSessionInput{CallerID: 2}))
}

func TestGetSessionParticipantsOnly(t *testing.T) {
	f := newBookingFixture()
	session := f.scheduledSession()

	got, err := f.svc.GetSession(context.Background(), session.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = f.svc.GetSession(context.Background(), session.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
