package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

var (
	// ErrNotExposed is returned for store reads the API does not offer clients.
	ErrNotExposed = errors.New("not exposed by the api")
	// ErrInvalidRequest is a 400 that is not about the star rating.
	ErrInvalidRequest = errors.New("invalid request")
)

// VoteStore is the API seen as a voting.Store. The signed-in user is the one
// behind the client's bearer token, so userID arguments are not sent.
type VoteStore struct {
	api *HTTPClient
	// Fix is forwarded so the server can record whether the vote was cast
	// inside the venue radius.
	Fix func() (lat, lng float64, ok bool)
}

func NewVoteStore(api *HTTPClient) *VoteStore {
	return &VoteStore{api: api}
}

func (s *VoteStore) CreateVote(ctx context.Context, userID, tapaID string, stars int, validatedLocation bool) (voting.Vote, error) {
	req := pkgmodels.CastVoteRequest{TapaID: tapaID, Stars: stars}
	if validatedLocation && s.Fix != nil {
		if lat, lng, ok := s.Fix(); ok {
			req.Latitude, req.Longitude = &lat, &lng
		}
	}

	resp, err := s.api.CastVote(ctx, req)
	if err != nil {
		return voting.Vote{}, classify(err)
	}
	return fromWire(resp.Vote), nil
}

func (s *VoteStore) ListVotesByUser(ctx context.Context, userID string) ([]voting.Vote, error) {
	votes, err := s.api.MyVotes(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]voting.Vote, 0, len(votes))
	for _, v := range votes {
		out = append(out, fromWire(v))
	}
	return out, nil
}

// ListVotesByTapaIDs is not served to clients; the ranking endpoint returns
// the aggregate instead.
func (s *VoteStore) ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]voting.Vote, error) {
	return nil, fmt.Errorf("list votes by tapa: %w", ErrNotExposed)
}

func classify(err error) error {
	switch StatusOf(err) {
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", voting.ErrAlreadyVoted, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", voting.ErrNotAuthenticated, err)
	case http.StatusBadRequest:
		if aboutStars(err) {
			return fmt.Errorf("%w: %v", voting.ErrInvalidStars, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	case http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %v", voting.ErrStoreTimeout, err)
	}
	return err
}

// aboutStars matches the domain message and gin's validator message for the
// stars field.
func aboutStars(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(apiErr.Message, voting.ErrInvalidStars.Error()) ||
		strings.Contains(apiErr.Message, "'Stars'")
}

func fromWire(v pkgmodels.Vote) voting.Vote {
	return voting.Vote{
		ID:                v.ID,
		UserID:            v.UserID,
		TapaID:            v.TapaID,
		Stars:             v.Stars,
		ValidatedLocation: v.ValidatedLocation,
		CreatedAt:         v.CreatedAt,
	}
}
