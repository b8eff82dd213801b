package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/db"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
)

// fakeTx runs the transaction function directly and serializes callers with a
// mutex, which stands in for the row locks concurrent transactions contend on
// in Postgres. The pgx.Tx handed to the function is nil; the fake stores
// ignore it.
type fakeTx struct {
	mu      sync.Mutex
	failErr error // when set, WithTransaction fails before running fn
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, nil)
}

// fakeRequestStore keeps session requests in a map. Reads return copies so a
// caller mutating the result does not leak into the store, matching how rows
// scanned from the database behave.
type fakeRequestStore struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*models.SessionRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{nextID: 1, requests: make(map[int64]*models.SessionRequest)}
}

func (f *fakeRequestStore) put(r *models.SessionRequest) *models.SessionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.nextID
		f.nextID++
	}
	f.requests[r.ID] = r
	return r
}

func (f *fakeRequestStore) Create(ctx context.Context, request *models.SessionRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	stored := *request
	stored.ID = id
	f.requests[id] = &stored
	return id, nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (*models.SessionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrSessionRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.SessionRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequestStore) MarkAccepted(ctx context.Context, tx pgx.Tx, id, sessionID int64, acceptedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrSessionRequestNotFound
	}
	r.Status = models.RequestStatusAccepted
	r.AcceptedAt = &acceptedAt
	r.SessionID = &sessionID
	return nil
}

func (f *fakeRequestStore) MarkRejected(ctx context.Context, tx pgx.Tx, id int64, reason *string, rejectedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrSessionRequestNotFound
	}
	r.Status = models.RequestStatusRejected
	r.RejectionReason = reason
	r.RejectedAt = &rejectedAt
	return nil
}

func (f *fakeRequestStore) MarkCancelled(ctx context.Context, tx pgx.Tx, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrSessionRequestNotFound
	}
	r.Status = models.RequestStatusCancelled
	return nil
}

func (f *fakeRequestStore) MarkCompleted(ctx context.Context, tx pgx.Tx, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return apperrors.ErrSessionRequestNotFound
	}
	r.Status = models.RequestStatusCompleted
	return nil
}

func (f *fakeRequestStore) ListByStudent(ctx context.Context, studentID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SessionRequest
	for _, r := range f.requests {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestStore) ListPendingByTeacher(ctx context.Context, teacherID int64, page, pageSize int) ([]models.SessionRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SessionRequest
	for _, r := range f.requests {
		if r.TeacherID == teacherID && r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

// fakeSessionStore keeps sessions in a map, same copy semantics as
// fakeRequestStore
type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{nextID: 1, sessions: make(map[int64]*models.Session)}
}

func (f *fakeSessionStore) put(s *models.Session) *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.sessions[s.ID] = s
	return s
}

func (f *fakeSessionStore) Create(ctx context.Context, tx pgx.Tx, session *models.Session) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	stored := *session
	stored.ID = id
	f.sessions[id] = &stored
	return id, nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Session, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSessionStore) MarkStarted(ctx context.Context, tx pgx.Tx, id int64, startedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	s.Status = models.SessionStatusInProgress
	s.ActualStartTime = &startedAt
	return nil
}

func (f *fakeSessionStore) Complete(ctx context.Context, tx pgx.Tx, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[session.ID]; !ok {
		return apperrors.ErrSessionNotFound
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Session, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.StudentID == userID || s.TeacherID == userID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

// fakeBalanceStore tracks balances keyed by user id and enforces the
// conditional debit the real repository performs in SQL
type fakeBalanceStore struct {
	mu       sync.Mutex
	balances map[int64]int64
	debitErr error // when set, Debit fails with this error
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{balances: make(map[int64]int64)}
}

func (f *fakeBalanceStore) set(userID, balance int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = balance
}

func (f *fakeBalanceStore) GetBalance(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[userID]
	if !ok {
		return 0, apperrors.ErrUserNotFound
	}
	return b, nil
}

func (f *fakeBalanceStore) Credit(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.balances[userID] += amount
	return nil
}

func (f *fakeBalanceStore) Debit(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.debitErr != nil {
		return f.debitErr
	}
	b, ok := f.balances[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if b < amount {
		return apperrors.ErrInsufficientPoints
	}
	f.balances[userID] = b - amount
	return nil
}

// fakeUserStore keeps users in a map
type fakeUserStore struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UpdateDeviceToken(ctx context.Context, userID int64, deviceToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.DeviceToken = &deviceToken
	return nil
}

// fakeNotifier records delivered notifications for assertions
type fakeNotifier struct {
	mu       sync.Mutex
	accepted []string
	rejected []string
	ended    []string
}

func (f *fakeNotifier) NotifySessionAccepted(deviceToken, teacherName string, scheduledTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, deviceToken)
}

func (f *fakeNotifier) NotifySessionRejected(deviceToken, teacherName, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, deviceToken)
}

func (f *fakeNotifier) NotifySessionEnded(deviceToken, participantName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, deviceToken)
}
