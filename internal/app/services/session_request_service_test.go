package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
)

type requestFixture struct {
	svc      SessionRequestService
	requests *fakeRequestStore
	users    *fakeUserStore
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requests: newFakeRequestStore(),
		users: newFakeUserStore(
			&models.User{ID: 1, Email: "student@example.com", RoleType: models.RoleStudent, IsActive: true},
			&models.User{ID: 2, Email: "teacher@example.com", RoleType: models.RoleTeacher, IsActive: true},
			&models.User{ID: 3, Email: "inactive@example.com", RoleType: models.RoleTeacher, IsActive: false},
		),
	}
	f.svc = NewSessionRequestService(&fakeTx{}, f.requests, f.users, zerolog.Nop())
	return f
}

func validCreateInput() CreateSessionRequestInput {
	return CreateSessionRequestInput{
		StudentID:                1,
		TeacherID:                2,
		Subject:                  "Calculus II",
		Description:              "Integration by parts",
		PointAmount:              30,
		EstimatedDurationMinutes: 45,
		RequestedStartTime:       time.Now().Add(24 * time.Hour),
	}
}

func TestCreateSessionRequest(t *testing.T) {
	f := newRequestFixture()

	request, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NotZero(t, request.ID)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, int64(30), request.PointAmount)

	stored, err := f.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, stored.Status)
}

func TestCreateSessionRequestValidation(t *testing.T) {
	f := newRequestFixture()

	tests := []struct {
		name   string
		mutate func(*CreateSessionRequestInput)
	}{
		{"self request", func(in *CreateSessionRequestInput) { in.TeacherID = 1 }},
		{"zero points", func(in *CreateSessionRequestInput) { in.PointAmount = 0 }},
		{"negative points", func(in *CreateSessionRequestInput) { in.PointAmount = -5 }},
		{"zero duration", func(in *CreateSessionRequestInput) { in.EstimatedDurationMinutes = 0 }},
		{"target not a teacher", func(in *CreateSessionRequestInput) { in.TeacherID = 1; in.StudentID = 2 }},
		{"inactive teacher", func(in *CreateSessionRequestInput) { in.TeacherID = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestCreateSessionRequestTeacherNotFound(t *testing.T) {
	f := newRequestFixture()
	in := validCreateInput()
	in.TeacherID = 404

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCancelSessionRequest(t *testing.T) {
	f := newRequestFixture()
	request, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), request.ID, 1))

	stored, _ := f.requests.GetByID(context.Background(), request.ID)
	assert.Equal(t, models.RequestStatusCancelled, stored.Status)
}

func TestCancelSessionRequestWrongStudent(t *testing.T) {
	f := newRequestFixture()
	request, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), request.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	stored, _ := f.requests.GetByID(context.Background(), request.ID)
	assert.Equal(t, models.RequestStatusPending, stored.Status)
}

func TestCancelSessionRequestNotPending(t *testing.T) {
	f := newRequestFixture()
	request, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), request.ID, 1))

	err = f.svc.Cancel(context.Background(), request.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyProcessed)
}

func TestGetSessionRequestParticipantsOnly(t *testing.T) {
	f := newRequestFixture()
	request, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	got, err := f.svc.GetByID(context.Background(), request.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, request.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), request.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListPendingForTeacher(t *testing.T) {
	f := newRequestFixture()
	first, err := f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(context.Background(), first.ID, 1))

	pending, total, err := f.svc.ListPendingForTeacher(context.Background(), 2, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, models.RequestStatusPending, pending[0].Status)
}
