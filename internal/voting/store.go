// Package voting implements the client side of vote submission: the
// eligibility gate, commit-or-stage across the sign-in boundary, and the
// reconciler that drains a staged vote once an identity is available.
package voting

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyVoted is the DUPLICATE kind: the user already has a vote for
	// this tapa. It is a business condition, not a failure.
	ErrAlreadyVoted = errors.New("already voted for this tapa")
	// ErrStoreTimeout means the store did not answer in time. The write may
	// or may not have landed.
	ErrStoreTimeout = errors.New("vote store timed out")
	// ErrNotAuthenticated is returned by stores that require an identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidStars rejects ratings outside 1..5.
	ErrInvalidStars = errors.New("stars must be between 1 and 5")
)

// Vote is a committed (user, tapa, stars) record.
type Vote struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	TapaID            string    `json:"tapa_id"`
	Stars             int       `json:"stars"`
	ValidatedLocation bool      `json:"validated_location"`
	CreatedAt         time.Time `json:"created_at"`
}

// Store is the authoritative vote record. CreateVote must return an error
// matching ErrAlreadyVoted when (userID, tapaID) already exists.
type Store interface {
	CreateVote(ctx context.Context, userID, tapaID string, stars int, validatedLocation bool) (Vote, error)
	ListVotesByUser(ctx context.Context, userID string) ([]Vote, error)
	ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]Vote, error)
}

// ValidStars reports whether stars is an allowed rating.
func ValidStars(stars int) bool {
	return stars >= 1 && stars <= 5
}

// FindByTapa returns the vote for tapaID, or nil.
func FindByTapa(votes []Vote, tapaID string) *Vote {
	for i := range votes {
		if votes[i].TapaID == tapaID {
			return &votes[i]
		}
	}
	return nil
}

// DistinctTapas counts the distinct tapas among votes.
func DistinctTapas(votes []Vote) int {
	seen := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		seen[v.TapaID] = struct{}{}
	}
	return len(seen)
}

// timeoutStore bounds every call with an explicit deadline and reports
// deadline expiry as ErrStoreTimeout.
type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout wraps a store so that each call runs under d. A zero or
// negative d leaves the store unchanged.
func WithTimeout(store Store, d time.Duration) Store {
	if d <= 0 {
		return store
	}
	if ts, ok := store.(*timeoutStore); ok {
		return &timeoutStore{next: ts.next, timeout: d}
	}
	return &timeoutStore{next: store, timeout: d}
}

func (s *timeoutStore) CreateVote(ctx context.Context, userID, tapaID string, stars int, validatedLocation bool) (Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	v, err := s.next.CreateVote(ctx, userID, tapaID, stars, validatedLocation)
	return v, classifyTimeout(ctx, err)
}

func (s *timeoutStore) ListVotesByUser(ctx context.Context, userID string) ([]Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	votes, err := s.next.ListVotesByUser(ctx, userID)
	return votes, classifyTimeout(ctx, err)
}

func (s *timeoutStore) ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	votes, err := s.next.ListVotesByTapaIDs(ctx, tapaIDs)
	return votes, classifyTimeout(ctx, err)
}

func classifyTimeout(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, ErrStoreTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	}
	return err
}
