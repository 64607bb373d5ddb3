package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tapea/internal/geo"
	"tapea/internal/microservices/http-api/dto"
	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/raffle"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"

	"gorm.io/gorm"
)

type VoteService interface {
	// CastVote fails with voting.ErrAlreadyVoted on a second vote for the same tapa.
	CastVote(ctx context.Context, userID string, req pkgmodels.CastVoteRequest) (*pkgmodels.CastVoteResponse, error)
	ListUserVotes(ctx context.Context, userID string) ([]pkgmodels.Vote, error)
	// Passport lists the user's votes, optionally only those in one event.
	Passport(ctx context.Context, userID, eventID string) (*pkgmodels.Passport, error)
}

type voteService struct {
	store        voting.Store
	voteRepo     repository.VoteRepository
	tapaRepo     repository.TapaRepository
	radiusMeters float64
	logger       *slog.Logger
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	tapaRepo repository.TapaRepository,
	radiusMeters float64,
	storeTimeout time.Duration,
	logger *slog.Logger,
	listeners ...VoteListener,
) VoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &voteService{
		store:        voting.WithTimeout(NewVoteStore(voteRepo, listeners...), storeTimeout),
		voteRepo:     voteRepo,
		tapaRepo:     tapaRepo,
		radiusMeters: radiusMeters,
		logger:       logger,
	}
}

func (s *voteService) CastVote(ctx context.Context, userID string, req pkgmodels.CastVoteRequest) (*pkgmodels.CastVoteResponse, error) {
	if !validID(req.TapaID) {
		return nil, ErrTapaNotFound
	}
	tapa, err := s.tapaRepo.GetByID(ctx, req.TapaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTapaNotFound
		}
		return nil, err
	}

	validated := false
	if req.Latitude != nil && req.Longitude != nil && tapa.Venue != nil {
		res := geo.Validate(*req.Latitude, *req.Longitude, tapa.Venue.Latitude, tapa.Venue.Longitude, s.radiusMeters)
		validated = res.IsValid
	}

	vote, err := s.store.CreateVote(ctx, userID, tapa.ID, req.Stars, validated)
	if err != nil {
		if errors.Is(err, voting.ErrAlreadyVoted) {
			s.logger.Info("vote_duplicate", "user_id", userID, "tapa_id", tapa.ID)
		}
		return nil, err
	}

	resp := &pkgmodels.CastVoteResponse{Vote: dto.FromVotingVote(vote)}

	// the vote is already stored; a failed count only loses the celebration
	count, err := s.voteRepo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("vote_count_refresh_failed", "user_id", userID, "tapa_id", tapa.ID, "error", err)
	} else {
		resp.VoteCount = int(count)
		resp.Celebrate = raffle.IsEligible(int(count), raffle.Threshold)
	}

	s.logger.Info("vote_committed",
		"user_id", userID,
		"tapa_id", tapa.ID,
		"stars", req.Stars,
		"validated_location", validated,
		"vote_count", resp.VoteCount,
	)
	return resp, nil
}

func (s *voteService) ListUserVotes(ctx context.Context, userID string) ([]pkgmodels.Vote, error) {
	votes, err := s.store.ListVotesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]pkgmodels.Vote, 0, len(votes))
	for _, v := range votes {
		out = append(out, dto.FromVotingVote(v))
	}
	return out, nil
}

func (s *voteService) Passport(ctx context.Context, userID, eventID string) (*pkgmodels.Passport, error) {
	rows, err := s.voteRepo.ListByUserWithTapas(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]pkgmodels.PassportEntry, 0, len(rows))
	for _, v := range rows {
		if eventID != "" && !dto.VoteInEvent(v, eventID) {
			continue
		}
		entries = append(entries, dto.ToPassportEntry(v))
	}

	n := len(entries)
	return &pkgmodels.Passport{
		EventID:   eventID,
		Votes:     entries,
		VoteCount: n,
		Threshold: raffle.Threshold,
		Progress:  raffle.Progress(n, raffle.Threshold),
		Remaining: raffle.Remaining(n, raffle.Threshold),
		Eligible:  raffle.IsEligible(n, raffle.Threshold),
	}, nil
}
