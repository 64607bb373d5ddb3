package models

// TokenPair is returned after sign-in and on refresh. The refresh token has
// the form "<id>.<secret>" and is rotated on every refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
	UserID       string `json:"user_id"`
	Email        string `json:"email,omitempty"`
}

// RefreshRequest: payload for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RevokeRequest: payload for logout
type RevokeRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RoleResponse struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// SignInStart tells a client where to send the user for Google sign-in.
type SignInStart struct {
	URL      string `json:"url"`
	DeviceID string `json:"device_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
