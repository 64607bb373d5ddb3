package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tapea/internal/microservices/http-api/dto"
	"tapea/internal/microservices/http-api/repository"
	pkgmodels "tapea/pkg/models"
)

type VenueService interface {
	List(ctx context.Context, eventID string) ([]pkgmodels.Venue, error)
	Get(ctx context.Context, id string) (*pkgmodels.Venue, error)
	// QRURL is the link printed on the venue's table card.
	QRURL(ctx context.Context, id string) (*pkgmodels.QRResponse, error)
}

type venueService struct {
	repo    repository.VenueRepository
	baseURL string
}

func NewVenueService(repo repository.VenueRepository, publicBaseURL string) VenueService {
	return &venueService{repo: repo, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *venueService) List(ctx context.Context, eventID string) ([]pkgmodels.Venue, error) {
	rows, err := s.repo.List(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return dto.ToVenues(rows), nil
}

func (s *venueService) Get(ctx context.Context, id string) (*pkgmodels.Venue, error) {
	if !validID(id) {
		return nil, ErrVenueNotFound
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	out := dto.ToVenue(*v)
	return &out, nil
}

func (s *venueService) QRURL(ctx context.Context, id string) (*pkgmodels.QRResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return &pkgmodels.QRResponse{
		VenueID: id,
		URL:     s.baseURL + "/votar/" + url.PathEscape(id),
	}, nil
}

// validID reports whether id can be looked up in a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
