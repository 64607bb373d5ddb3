package dto

// Data Transfer Objects for the Google sign-in round trip

// GoogleStartQuery: query for GET /auth/google/start
type GoogleStartQuery struct {
	Redirect string `form:"redirect"`
	DeviceID string `form:"device_id"`
}

// GoogleCallbackQuery: query Google sends back to the callback
type GoogleCallbackQuery struct {
	State string `form:"state"`
	Code  string `form:"code"`
	Error string `form:"error"`
}

// CallbackResponse: JSON body of the callback when no redirect target was given
type CallbackResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"` // seconds
	UserID       string        `json:"user_id"`
	Email        string        `json:"email"`
	PendingVote  *PendingState `json:"pending_vote,omitempty"`
}

// PendingState reports what happened to a vote staged before sign-in
type PendingState struct {
	Status string `json:"status"` // committed, already_voted, dropped
	TapaID string `json:"tapa_id,omitempty"`
}
