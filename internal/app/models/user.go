package models

import (
	"time"
)

// User defines the user model based on the 'users' table. The points balance
// lives here as a ledger-owned row value; it is mutated only by the settlement
// step through the BalanceRepository.
type User struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Email         string    `json:"email" db:"email" example:"student@academix.app"`
	Password      string    `json:"-" db:"password"` // Hashed, excluded from JSON
	FirstName     string    `json:"firstName" db:"first_name" example:"John"`
	LastName      string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType      RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	PointsBalance int64     `json:"pointsBalance" db:"points_balance" example:"250"`
	DeviceToken   *string   `json:"-" db:"device_token"` // Push notification target (nullable)
	IsActive      bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
