package service

import (
	"context"

	"tapea/internal/microservices/http-api/dto"
	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/ranking"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

type RankingService interface {
	// Top ranks the tapas of eventID ("" for all venues).
	Top(ctx context.Context, eventID string, limit int) (*pkgmodels.RankingResponse, error)
}

type rankingService struct {
	venueRepo repository.VenueRepository
	store     voting.Store
}

func NewRankingService(venueRepo repository.VenueRepository, voteRepo repository.VoteRepository) RankingService {
	return &rankingService{
		venueRepo: venueRepo,
		store:     NewVoteStore(voteRepo),
	}
}

func (s *rankingService) Top(ctx context.Context, eventID string, limit int) (*pkgmodels.RankingResponse, error) {
	venues, err := s.venueRepo.List(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var tapas []ranking.Tapa
	var ids []string
	for _, v := range venues {
		for _, t := range v.Tapas {
			tapas = append(tapas, ranking.Tapa{
				ID:        t.ID,
				Name:      t.Name,
				ImageURL:  t.ImageURL,
				VenueName: v.Name,
			})
			ids = append(ids, t.ID)
		}
	}

	resp := &pkgmodels.RankingResponse{EventID: eventID, Entries: []pkgmodels.RankingEntry{}}
	if len(ids) == 0 {
		return resp, nil
	}

	votes, err := s.store.ListVotesByTapaIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	rv := make([]ranking.Vote, 0, len(votes))
	for _, v := range votes {
		rv = append(rv, ranking.Vote{TapaID: v.TapaID, Stars: v.Stars})
	}

	resp.Entries = dto.ToRankingEntries(ranking.Compute(tapas, rv, limit))
	return resp, nil
}
