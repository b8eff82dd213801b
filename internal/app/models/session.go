package models

import (
	"time"
)

// Session defines a scheduled or executed tutoring meeting, based on the
// 'sessions' table. The point amount is copied from the originating request at
// acceptance time and never recomputed afterwards.
type Session struct {
	ID                     int64         `json:"id" db:"id" example:"1"`
	SessionRequestID       int64         `json:"sessionRequestId" db:"session_request_id"`
	StudentID              int64         `json:"studentId" db:"student_id"`
	TeacherID              int64         `json:"teacherId" db:"teacher_id"`
	Subject                string        `json:"subject" db:"subject" example:"Linear Algebra"`
	Description            string        `json:"description" db:"description"`
	PointAmount            int64         `json:"pointAmount" db:"point_amount" example:"50"`
	ScheduledStartTime     time.Time     `json:"scheduledStartTime" db:"scheduled_start_time"`
	PlannedDurationMinutes int           `json:"plannedDurationMinutes" db:"planned_duration_minutes" example:"60"`
	ActualStartTime        *time.Time    `json:"actualStartTime,omitempty" db:"actual_start_time"`
	ActualEndTime          *time.Time    `json:"actualEndTime,omitempty" db:"actual_end_time"`
	ActualDurationMinutes  *int          `json:"actualDurationMinutes,omitempty" db:"actual_duration_minutes"`
	Status                 SessionStatus `json:"status" db:"status" example:"SCHEDULED"`
	PointsTransferred      bool          `json:"pointsTransferred" db:"points_transferred"`
	PointsTransferredAt    *time.Time    `json:"pointsTransferredAt,omitempty" db:"points_transferred_at"`
	TeacherNotes           *string       `json:"teacherNotes,omitempty" db:"teacher_notes"`
	StudentNotes           *string       `json:"studentNotes,omitempty" db:"student_notes"`
	TeacherRating          *int          `json:"teacherRating,omitempty" db:"teacher_rating"` // 1-5, by the student
	StudentRating          *int          `json:"studentRating,omitempty" db:"student_rating"` // 1-5, by the teacher
	CreatedAt              time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time     `json:"updatedAt" db:"updated_at"`

	Student *User `json:"student,omitempty"` // Relation, no db tag
	Teacher *User `json:"teacher,omitempty"` // Relation, no db tag
}

// CanBeEnded reports whether the session is in a state end-session may act on
func (s *Session) CanBeEnded() bool {
	return s.Status == SessionStatusScheduled || s.Status == SessionStatusInProgress
}

// CanBeStarted reports whether the session may move to IN_PROGRESS
func (s *Session) CanBeStarted() bool {
	return s.Status == SessionStatusScheduled
}

// IsParticipant reports whether the given user is a party to the session
func (s *Session) IsParticipant(userID int64) bool {
	return s.StudentID == userID || s.TeacherID == userID
}
