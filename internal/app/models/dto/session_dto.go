package dto

import (
	"time"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
)

// AcceptSessionRequestRequest is the payload a teacher submits to accept a request
type AcceptSessionRequestRequest struct {
	ScheduledStartTime time.Time `json:"scheduledStartTime" binding:"required"`
}

// AcceptSessionRequestResponse carries the id of the session created by accept
type AcceptSessionRequestResponse struct {
	SessionID int64 `json:"sessionId" example:"7"`
}

// RejectSessionRequestRequest is the payload a teacher submits to reject a request
type RejectSessionRequestRequest struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500" example:"Fully booked this week"`
}

// EndSessionRequest is the payload closing out a session
type EndSessionRequest struct {
	TeacherNotes  *string `json:"teacherNotes,omitempty" binding:"omitempty,max=2000"`
	StudentNotes  *string `json:"studentNotes,omitempty" binding:"omitempty,max=2000"`
	TeacherRating *int    `json:"teacherRating,omitempty" binding:"omitempty,min=1,max=5" example:"5"`
	StudentRating *int    `json:"studentRating,omitempty" binding:"omitempty,min=1,max=5" example:"4"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID                     int64         `json:"id" example:"7"`
	SessionRequestID       int64         `json:"sessionRequestId" example:"1"`
	StudentID              int64         `json:"studentId" example:"1"`
	TeacherID              int64         `json:"teacherId" example:"2"`
	Subject                string        `json:"subject" example:"Linear Algebra"`
	Description            string        `json:"description"`
	PointAmount            int64         `json:"pointAmount" example:"50"`
	ScheduledStartTime     time.Time     `json:"scheduledStartTime"`
	PlannedDurationMinutes int           `json:"plannedDurationMinutes" example:"60"`
	ActualStartTime        *time.Time    `json:"actualStartTime,omitempty"`
	ActualEndTime          *time.Time    `json:"actualEndTime,omitempty"`
	ActualDurationMinutes  *int          `json:"actualDurationMinutes,omitempty"`
	Status                 string        `json:"status" example:"SCHEDULED"`
	PointsTransferred      bool          `json:"pointsTransferred"`
	PointsTransferredAt    *time.Time    `json:"pointsTransferredAt,omitempty"`
	TeacherNotes           *string       `json:"teacherNotes,omitempty"`
	StudentNotes           *string       `json:"studentNotes,omitempty"`
	TeacherRating          *int          `json:"teacherRating,omitempty"`
	StudentRating          *int          `json:"studentRating,omitempty"`
	Student                *UserResponse `json:"student,omitempty"`
	Teacher                *UserResponse `json:"teacher,omitempty"`
}

// SessionListResponse is a paginated list of sessions
type SessionListResponse struct {
	Sessions       []SessionResponse `json:"sessions"`
	PaginationInfo PaginationInfo    `json:"pagination"`
}

// NewSessionResponse maps a session model to its API representation
func NewSessionResponse(session *models.Session) *SessionResponse {
	if session == nil {
		return nil
	}

	return &SessionResponse{
		ID:                     session.ID,
		SessionRequestID:       session.SessionRequestID,
		StudentID:              session.StudentID,
		TeacherID:              session.TeacherID,
		Subject:                session.Subject,
		Description:            session.Description,
		PointAmount:            session.PointAmount,
		ScheduledStartTime:     session.ScheduledStartTime,
		PlannedDurationMinutes: session.PlannedDurationMinutes,
		ActualStartTime:        session.ActualStartTime,
		ActualEndTime:          session.ActualEndTime,
		ActualDurationMinutes:  session.ActualDurationMinutes,
		Status:                 string(session.Status),
		PointsTransferred:      session.PointsTransferred,
		PointsTransferredAt:    session.PointsTransferredAt,
		TeacherNotes:           session.TeacherNotes,
		StudentNotes:           session.StudentNotes,
		TeacherRating:          session.TeacherRating,
		StudentRating:          session.StudentRating,
		Student:                NewUserResponse(session.Student),
		Teacher:                NewUserResponse(session.Teacher),
	}
}
