// Package pending holds the single-slot staging area for a vote that could
// not be committed because the voter was not signed in yet.
package pending

import (
	"context"
	"errors"
	"fmt"
)

// Vote is a staged vote intent. Tapa and venue names are denormalized so a
// client can show what is waiting without another lookup.
type Vote struct {
	TapaID    string `json:"tapaId"`
	TapaName  string `json:"tapaName"`
	VenueID   string `json:"venueId"`
	VenueName string `json:"venueName"`
	Stars     int    `json:"stars"`

	// ValidatedLocation records whether the geofence passed when the intent
	// was staged, so a deferred commit stores the same flag.
	ValidatedLocation bool `json:"validatedLocation,omitempty"`
}

// ErrInvalidVote is returned when trying to stage an incomplete intent.
var ErrInvalidVote = errors.New("invalid pending vote")

// Validate checks the fields a later commit depends on.
func (v Vote) Validate() error {
	if v.TapaID == "" {
		return fmt.Errorf("%w: tapa id is required", ErrInvalidVote)
	}
	if v.Stars < 1 || v.Stars > 5 {
		return fmt.Errorf("%w: stars must be between 1 and 5", ErrInvalidVote)
	}
	return nil
}

// Cache is a durable slot with capacity one. Save overwrites whatever is
// there (last write wins). Load returns nil, nil when the slot is empty.
type Cache interface {
	Load(ctx context.Context) (*Vote, error)
	Save(ctx context.Context, v Vote) error
	Clear(ctx context.Context) error
}
