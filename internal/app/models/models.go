package models

// RoleType defines the role of a user
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
)

// SessionRequestStatus defines the lifecycle state of a session request.
// Transitions are one-directional: PENDING is the only state accept, reject
// and cancel may act on; ACCEPTED moves to COMPLETED when the session ends.
type SessionRequestStatus string

const (
	RequestStatusPending   SessionRequestStatus = "PENDING"
	RequestStatusAccepted  SessionRequestStatus = "ACCEPTED"
	RequestStatusRejected  SessionRequestStatus = "REJECTED"
	RequestStatusCancelled SessionRequestStatus = "CANCELLED"
	RequestStatusCompleted SessionRequestStatus = "COMPLETED"
)

// SessionStatus defines the lifecycle state of a session. COMPLETED,
// CANCELLED and NO_SHOW are terminal.
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "SCHEDULED"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusCancelled  SessionStatus = "CANCELLED"
	SessionStatusNoShow     SessionStatus = "NO_SHOW"
)
