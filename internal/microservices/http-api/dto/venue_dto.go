package dto

import (
	"time"

	"tapea/internal/microservices/http-api/models"
	pkgmodels "tapea/pkg/models"
)

func ToTapa(t models.Tapa) pkgmodels.Tapa {
	return pkgmodels.Tapa{
		ID:          t.ID,
		VenueID:     t.VenueID,
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price,
		ImageURL:    t.ImageURL,
	}
}

func ToVenue(v models.Venue) pkgmodels.Venue {
	out := pkgmodels.Venue{
		ID:          v.ID,
		Name:        v.Name,
		Address:     v.Address,
		Description: v.Description,
		Latitude:    v.Latitude,
		Longitude:   v.Longitude,
		ImageURL:    v.ImageURL,
		Tapas:       make([]pkgmodels.Tapa, 0, len(v.Tapas)),
	}
	if v.EventID != nil {
		out.EventID = *v.EventID
	}
	for _, t := range v.Tapas {
		out.Tapas = append(out.Tapas, ToTapa(t))
	}
	if star := v.StarTapa(); star != nil {
		out.StarTapaID = star.ID
	}
	return out
}

func ToVenues(venues []models.Venue) []pkgmodels.Venue {
	out := make([]pkgmodels.Venue, 0, len(venues))
	for _, v := range venues {
		out = append(out, ToVenue(v))
	}
	return out
}

// ToEvent leaves the activity check to the caller, which knows "today".
func ToEvent(e models.Event, active bool) pkgmodels.Event {
	out := pkgmodels.Event{
		ID:             e.ID,
		Name:           e.Name,
		Slug:           e.Slug,
		Description:    e.Description,
		PrimaryColor:   e.PrimaryColor,
		SecondaryColor: e.SecondaryColor,
		IsActive:       active,
		CreatedAt:      e.CreatedAt.UTC().Truncate(time.Second),
	}
	if !e.ActiveDates.IsZero() {
		out.ActiveDates = &pkgmodels.EventDateRange{
			Start: e.ActiveDates.Start,
			End:   e.ActiveDates.End,
		}
	}
	return out
}
