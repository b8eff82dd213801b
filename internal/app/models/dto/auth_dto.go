package dto

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@academix.app"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse represents a successful login result
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType" example:"Bearer"`
	ExpiresIn   int           `json:"expiresIn" example:"3600"`
	User        *UserResponse `json:"user"`
}

// RegisterDeviceRequest registers a push notification device token
type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken" binding:"required" example:"fcm-token-abc123"`
}
