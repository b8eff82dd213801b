package dto

import (
	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
)

// UserResponse represents public user information
type UserResponse struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"student@academix.app"`
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	RoleType  string `json:"roleType" example:"STUDENT" enums:"STUDENT,TEACHER"`
}

// BalanceResponse represents a user's current point balance
type BalanceResponse struct {
	UserID        int64 `json:"userId" example:"1"`
	PointsBalance int64 `json:"pointsBalance" example:"250"`
}

// NewUserResponse maps a user model to its public representation
func NewUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RoleType:  string(user.RoleType),
	}
}
