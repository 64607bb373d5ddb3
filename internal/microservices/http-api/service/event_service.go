package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tapea/internal/event"
	"tapea/internal/microservices/http-api/dto"
	"tapea/internal/microservices/http-api/models"
	"tapea/internal/microservices/http-api/repository"
	pkgmodels "tapea/pkg/models"
)

type EventService interface {
	// List puts running events first, then the rest; newest first within each.
	List(ctx context.Context) ([]pkgmodels.Event, error)
	// Active returns the event running today, else the newest, else ErrEventNotFound.
	Active(ctx context.Context) (*pkgmodels.Event, error)
	BySlug(ctx context.Context, slug string) (*pkgmodels.Event, error)
}

type eventService struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo, now: time.Now}
}

func (s *eventService) today() string {
	return event.Today(s.now())
}

func (s *eventService) List(ctx context.Context) ([]pkgmodels.Event, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	domain, byID := toDomainEvents(rows)
	active, inactive := event.Partition(domain, s.today())

	out := make([]pkgmodels.Event, 0, len(rows))
	for _, e := range active {
		out = append(out, dto.ToEvent(byID[e.ID], true))
	}
	for _, e := range inactive {
		out = append(out, dto.ToEvent(byID[e.ID], false))
	}
	return out, nil
}

func toDomainEvents(rows []models.Event) ([]event.Event, map[string]models.Event) {
	domain := make([]event.Event, 0, len(rows))
	byID := make(map[string]models.Event, len(rows))
	for _, e := range rows {
		domain = append(domain, e.ToDomain())
		byID[e.ID] = e
	}
	return domain, byID
}

func (s *eventService) Active(ctx context.Context) (*pkgmodels.Event, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	domain, byID := toDomainEvents(rows)
	today := s.today()
	picked := event.SelectActive(domain, today)
	if picked == nil {
		return nil, ErrEventNotFound
	}
	out := dto.ToEvent(byID[picked.ID], event.IsActive(*picked, today))
	return &out, nil
}

func (s *eventService) BySlug(ctx context.Context, slug string) (*pkgmodels.Event, error) {
	if !event.ValidSlug(slug) {
		return nil, ErrEventNotFound
	}
	e, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	out := dto.ToEvent(*e, event.IsActive(e.ToDomain(), s.today()))
	return &out, nil
}
