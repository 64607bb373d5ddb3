package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tapea/internal/geo"
	"tapea/internal/microservices/http-api/repository"
	"tapea/internal/pending"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

// ErrTapaNotInVenue rejects a staged vote for a tapa served elsewhere.
var ErrTapaNotInVenue = errors.New("tapa does not belong to this venue")

// CacheFactory opens the pending slot of one anonymous device.
type CacheFactory func(deviceID string) pending.Cache

// PendingService holds the vote of an anonymous QR visitor across the Google
// redirect and commits it once the callback knows who they are.
type PendingService interface {
	// Stage overwrites the device's slot. An empty deviceID gets a new one.
	Stage(ctx context.Context, deviceID, venueID string, req pkgmodels.StagePendingRequest) (string, error)
	Reconcile(ctx context.Context, deviceID, userID string) (voting.ReconcileResult, error)
}

type pendingService struct {
	caches       CacheFactory
	store        voting.Store
	venueRepo    repository.VenueRepository
	radiusMeters float64
	logger       *slog.Logger
}

func NewPendingService(
	caches CacheFactory,
	voteRepo repository.VoteRepository,
	venueRepo repository.VenueRepository,
	radiusMeters float64,
	storeTimeout time.Duration,
	logger *slog.Logger,
	listeners ...VoteListener,
) PendingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &pendingService{
		caches:       caches,
		store:        voting.WithTimeout(NewVoteStore(voteRepo, listeners...), storeTimeout),
		venueRepo:    venueRepo,
		radiusMeters: radiusMeters,
		logger:       logger,
	}
}

func (s *pendingService) Stage(ctx context.Context, deviceID, venueID string, req pkgmodels.StagePendingRequest) (string, error) {
	if !validID(venueID) {
		return "", ErrVenueNotFound
	}
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVenueNotFound
		}
		return "", err
	}

	var tapaName string
	found := false
	for _, t := range venue.Tapas {
		if t.ID == req.TapaID {
			tapaName, found = t.Name, true
			break
		}
	}
	if !found {
		return "", ErrTapaNotInVenue
	}

	validated := false
	if req.Latitude != nil && req.Longitude != nil {
		validated = geo.Validate(*req.Latitude, *req.Longitude, venue.Latitude, venue.Longitude, s.radiusMeters).IsValid
	}

	if _, err := uuid.Parse(deviceID); err != nil {
		deviceID = uuid.New().String()
	}

	pv := pending.Vote{
		TapaID:            req.TapaID,
		TapaName:          tapaName,
		VenueID:           venue.ID,
		VenueName:         venue.Name,
		Stars:             req.Stars,
		ValidatedLocation: validated,
	}
	if err := s.caches(deviceID).Save(ctx, pv); err != nil {
		return "", err
	}

	s.logger.Info("pending_vote_staged", "device_id", deviceID, "tapa_id", pv.TapaID, "stars", pv.Stars)
	return deviceID, nil
}

func (s *pendingService) Reconcile(ctx context.Context, deviceID, userID string) (voting.ReconcileResult, error) {
	if deviceID == "" || userID == "" {
		return voting.ReconcileResult{Status: voting.NothingPending}, nil
	}
	r := voting.NewReconciler(s.store, voting.FixedIdentity(userID), s.caches(deviceID)).WithLogger(s.logger)
	return r.Reconcile(ctx)
}
