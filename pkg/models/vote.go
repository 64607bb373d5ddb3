package models

import "time"

// CastVoteRequest: payload for POST /api/votes. Latitude/Longitude are the
// voter's fix when known and are only used to record whether the vote was
// cast inside the venue radius.
type CastVoteRequest struct {
	TapaID    string   `json:"tapa_id" binding:"required"`
	Stars     int      `json:"stars" binding:"required,min=1,max=5"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Vote struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	TapaID            string    `json:"tapa_id"`
	Stars             int       `json:"stars"`
	ValidatedLocation bool      `json:"validated_location"`
	CreatedAt         time.Time `json:"created_at"`
}

// CastVoteResponse carries the stored vote and the voter's running count.
type CastVoteResponse struct {
	Vote      Vote `json:"vote"`
	VoteCount int  `json:"vote_count"`
	Celebrate bool `json:"celebrate"`
}

// StagePendingRequest: an anonymous QR visitor's vote intent.
type StagePendingRequest struct {
	TapaID    string   `json:"tapa_id" binding:"required"`
	Stars     int      `json:"stars" binding:"required,min=1,max=5"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type StagePendingResponse struct {
	DeviceID  string `json:"device_id"`
	SignInURL string `json:"sign_in_url"`
}

type PassportEntry struct {
	TapaID    string    `json:"tapa_id"`
	TapaName  string    `json:"tapa_name"`
	VenueID   string    `json:"venue_id,omitempty"`
	VenueName string    `json:"venue_name"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

// Passport is the voter's route card: what they voted and how close they
// are to the raffle.
type Passport struct {
	EventID   string          `json:"event_id,omitempty"`
	Votes     []PassportEntry `json:"votes"`
	VoteCount int             `json:"vote_count"`
	Threshold int             `json:"threshold"`
	Progress  float64         `json:"progress"`
	Remaining int             `json:"remaining"`
	Eligible  bool            `json:"eligible"`
}
