package models

import "time"

type Tapa struct {
	ID          string  `json:"id"`
	VenueID     string  `json:"venue_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type Venue struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id,omitempty"`
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ImageURL    string  `json:"image_url,omitempty"`
	Tapas       []Tapa  `json:"tapas"`
	// StarTapaID is the first tapa in venue order, empty when there are none.
	StarTapaID string `json:"star_tapa_id,omitempty"`
}

// PreselectedTapa is the tapa a voter lands on without choosing. Only a venue
// serving exactly one tapa preselects; otherwise it returns "".
func (v Venue) PreselectedTapa() string {
	if len(v.Tapas) != 1 {
		return ""
	}
	return v.Tapas[0].ID
}

type QRResponse struct {
	VenueID string `json:"venue_id"`
	URL     string `json:"url"`
}

type Event struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description,omitempty"`
	ActiveDates    *EventDateRange `json:"active_dates,omitempty"`
	PrimaryColor   string          `json:"primary_color,omitempty"`
	SecondaryColor string          `json:"secondary_color,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

type EventDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RankingEntry struct {
	TapaID    string  `json:"tapa_id"`
	TapaName  string  `json:"tapa_name"`
	ImageURL  string  `json:"image_url,omitempty"`
	VenueName string  `json:"venue_name"`
	AvgStars  float64 `json:"avg_stars"`
	VoteCount int     `json:"vote_count"`
}

type RankingResponse struct {
	EventID string         `json:"event_id,omitempty"`
	Entries []RankingEntry `json:"entries"`
}

type RaffleParticipant struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	VoteCount   int    `json:"vote_count"`
}

type RaffleResponse struct {
	MinVotes     int                 `json:"min_votes"`
	Participants []RaffleParticipant `json:"participants"`
}
