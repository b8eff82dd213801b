package models

import (
	"time"
)

// SessionRequest defines a student's proposal for a paid tutoring session,
// based on the 'session_requests' table. Requests are never physically
// deleted; terminal statuses keep the audit trail.
type SessionRequest struct {
	ID                       int64                `json:"id" db:"id" example:"1"`
	StudentID                int64                `json:"studentId" db:"student_id"`
	TeacherID                int64                `json:"teacherId" db:"teacher_id"`
	Subject                  string               `json:"subject" db:"subject" example:"Linear Algebra"`
	Description              string               `json:"description" db:"description"`
	PointAmount              int64                `json:"pointAmount" db:"point_amount" example:"50"`
	EstimatedDurationMinutes int                  `json:"estimatedDurationMinutes" db:"estimated_duration_minutes" example:"60"`
	RequestedStartTime       time.Time            `json:"requestedStartTime" db:"requested_start_time"`
	Status                   SessionRequestStatus `json:"status" db:"status" example:"PENDING"`
	AcceptedAt               *time.Time           `json:"acceptedAt,omitempty" db:"accepted_at"`
	RejectedAt               *time.Time           `json:"rejectedAt,omitempty" db:"rejected_at"`
	RejectionReason          *string              `json:"rejectionReason,omitempty" db:"rejection_reason"`
	SessionID                *int64               `json:"sessionId,omitempty" db:"session_id"` // Set once accepted
	CreatedAt                time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt                time.Time            `json:"updatedAt" db:"updated_at"`

	Student *User `json:"student,omitempty"` // Relation, no db tag
	Teacher *User `json:"teacher,omitempty"` // Relation, no db tag
}

// IsPending reports whether accept/reject/cancel may still act on the request
func (r *SessionRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsParticipant reports whether the given user is a party to the request
func (r *SessionRequest) IsParticipant(userID int64) bool {
	return r.StudentID == userID || r.TeacherID == userID
}
