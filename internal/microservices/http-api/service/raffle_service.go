package service

import (
	"context"

	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/raffle"
	pkgmodels "tapea/pkg/models"
)

type RaffleService interface {
	Participants(ctx context.Context, minVotes int) (*pkgmodels.RaffleResponse, error)
}

type raffleService struct {
	voteRepo repository.VoteRepository
	userRepo repository.UserRepository
}

func NewRaffleService(voteRepo repository.VoteRepository, userRepo repository.UserRepository) RaffleService {
	return &raffleService{voteRepo: voteRepo, userRepo: userRepo}
}

// Participants uses raffle.Threshold when minVotes < 1.
func (s *raffleService) Participants(ctx context.Context, minVotes int) (*pkgmodels.RaffleResponse, error) {
	if minVotes < 1 {
		minVotes = raffle.Threshold
	}

	rows, err := s.voteRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ballots := make([]raffle.Ballot, 0, len(rows))
	for _, v := range rows {
		ballots = append(ballots, raffle.Ballot{UserID: v.UserID, TapaID: v.TapaID})
	}

	resp := &pkgmodels.RaffleResponse{MinVotes: minVotes, Participants: []pkgmodels.RaffleParticipant{}}

	ids := raffle.Qualified(ballots, minVotes)
	if len(ids) == 0 {
		return resp, nil
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make([]raffle.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, raffle.Profile{UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName})
	}

	for _, p := range raffle.Participants(ballots, profiles, minVotes) {
		resp.Participants = append(resp.Participants, pkgmodels.RaffleParticipant{
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			VoteCount:   p.VoteCount,
		})
	}
	return resp, nil
}
