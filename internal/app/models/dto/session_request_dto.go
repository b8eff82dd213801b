package dto

import (
	"time"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
)

// CreateSessionRequestRequest is the payload a student submits to propose a session
type CreateSessionRequestRequest struct {
	TeacherID                int64     `json:"teacherId" binding:"required,min=1" example:"2"`
	Subject                  string    `json:"subject" binding:"required,max=200" example:"Linear Algebra"`
	Description              string    `json:"description" binding:"max=2000" example:"Eigenvalues and eigenvectors"`
	PointAmount              int64     `json:"pointAmount" binding:"required,min=1" example:"50"`
	EstimatedDurationMinutes int       `json:"estimatedDurationMinutes" binding:"required,min=1" example:"60"`
	RequestedStartTime       time.Time `json:"requestedStartTime" binding:"required"`
}

// SessionRequestResponse represents a session request in API responses
type SessionRequestResponse struct {
	ID                       int64         `json:"id" example:"1"`
	StudentID                int64         `json:"studentId" example:"1"`
	TeacherID                int64         `json:"teacherId" example:"2"`
	Subject                  string        `json:"subject" example:"Linear Algebra"`
	Description              string        `json:"description"`
	PointAmount              int64         `json:"pointAmount" example:"50"`
	EstimatedDurationMinutes int           `json:"estimatedDurationMinutes" example:"60"`
	RequestedStartTime       time.Time     `json:"requestedStartTime"`
	Status                   string        `json:"status" example:"PENDING"`
	AcceptedAt               *time.Time    `json:"acceptedAt,omitempty"`
	RejectedAt               *time.Time    `json:"rejectedAt,omitempty"`
	RejectionReason          *string       `json:"rejectionReason,omitempty"`
	SessionID                *int64        `json:"sessionId,omitempty"`
	CreatedAt                time.Time     `json:"createdAt"`
	Student                  *UserResponse `json:"student,omitempty"`
	Teacher                  *UserResponse `json:"teacher,omitempty"`
}

// SessionRequestListResponse is a paginated list of session requests
type SessionRequestListResponse struct {
	Requests       []SessionRequestResponse `json:"requests"`
	PaginationInfo PaginationInfo           `json:"pagination"`
}

// NewSessionRequestResponse maps a session request model to its API representation
func NewSessionRequestResponse(request *models.SessionRequest) *SessionRequestResponse {
	if request == nil {
		return nil
	}

	return &SessionRequestResponse{
		ID:                       request.ID,
		StudentID:                request.StudentID,
		TeacherID:                request.TeacherID,
		Subject:                  request.Subject,
		Description:              request.Description,
		PointAmount:              request.PointAmount,
		EstimatedDurationMinutes: request.EstimatedDurationMinutes,
		RequestedStartTime:       request.RequestedStartTime,
		Status:                   string(request.Status),
		AcceptedAt:               request.AcceptedAt,
		RejectedAt:               request.RejectedAt,
		RejectionReason:          request.RejectionReason,
		SessionID:                request.SessionID,
		CreatedAt:                request.CreatedAt,
		Student:                  NewUserResponse(request.Student),
		Teacher:                  NewUserResponse(request.Teacher),
	}
}
