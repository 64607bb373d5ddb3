package service

import (
	"context"

	"tapea/internal/microservices/http-api/models"
	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/voting"
)

// voteStore exposes the vote repository as the protocol's voting.Store so the
// server-side reconciler and the ranking read path share one contract.
type voteStore struct {
	repo      repository.VoteRepository
	listeners []VoteListener
}

// VoteListener hears about every vote written through the service layer.
type VoteListener interface {
	VoteCommitted(v voting.Vote)
}

func NewVoteStore(repo repository.VoteRepository, listeners ...VoteListener) voting.Store {
	return &voteStore{repo: repo, listeners: listeners}
}

func (s *voteStore) CreateVote(ctx context.Context, userID, tapaID string, stars int, validatedLocation bool) (voting.Vote, error) {
	if !voting.ValidStars(stars) {
		return voting.Vote{}, voting.ErrInvalidStars
	}
	m := &models.Vote{
		UserID:            userID,
		TapaID:            tapaID,
		Stars:             stars,
		ValidatedLocation: validatedLocation,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return voting.Vote{}, err
	}
	v := toVotingVote(*m)
	for _, l := range s.listeners {
		l.VoteCommitted(v)
	}
	return v, nil
}

func (s *voteStore) ListVotesByUser(ctx context.Context, userID string) ([]voting.Vote, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toVotingVotes(rows), nil
}

func (s *voteStore) ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]voting.Vote, error) {
	rows, err := s.repo.ListByTapaIDs(ctx, tapaIDs)
	if err != nil {
		return nil, err
	}
	return toVotingVotes(rows), nil
}

func toVotingVote(m models.Vote) voting.Vote {
	return voting.Vote{
		ID:                m.ID,
		UserID:            m.UserID,
		TapaID:            m.TapaID,
		Stars:             m.Stars,
		ValidatedLocation: m.ValidatedLocation,
		CreatedAt:         m.CreatedAt,
	}
}

func toVotingVotes(rows []models.Vote) []voting.Vote {
	out := make([]voting.Vote, 0, len(rows))
	for _, r := range rows {
		out = append(out, toVotingVote(r))
	}
	return out
}
