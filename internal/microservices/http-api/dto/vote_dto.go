package dto

import (
	"tapea/internal/microservices/http-api/models"
	"tapea/internal/ranking"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

const (
	UnknownTapa  = "Tapa desconocida"
	UnknownVenue = ranking.UnknownVenue
)

func FromVotingVote(v voting.Vote) pkgmodels.Vote {
	return pkgmodels.Vote{
		ID:                v.ID,
		UserID:            v.UserID,
		TapaID:            v.TapaID,
		Stars:             v.Stars,
		ValidatedLocation: v.ValidatedLocation,
		CreatedAt:         v.CreatedAt,
	}
}

// ToPassportEntry expects Tapa and Tapa.Venue preloaded; missing ones fall
// back to placeholder names.
func ToPassportEntry(v models.Vote) pkgmodels.PassportEntry {
	e := pkgmodels.PassportEntry{
		TapaID:    v.TapaID,
		TapaName:  UnknownTapa,
		VenueName: UnknownVenue,
		Stars:     v.Stars,
		CreatedAt: v.CreatedAt,
	}
	if v.Tapa == nil {
		return e
	}
	if v.Tapa.Name != "" {
		e.TapaName = v.Tapa.Name
	}
	e.VenueID = v.Tapa.VenueID
	if v.Tapa.Venue != nil && v.Tapa.Venue.Name != "" {
		e.VenueName = v.Tapa.Venue.Name
	}
	return e
}

// VoteInEvent reports whether the vote's tapa belongs to a venue of eventID.
func VoteInEvent(v models.Vote, eventID string) bool {
	if v.Tapa == nil || v.Tapa.Venue == nil || v.Tapa.Venue.EventID == nil {
		return false
	}
	return *v.Tapa.Venue.EventID == eventID
}

func ToRankingEntries(entries []ranking.Entry) []pkgmodels.RankingEntry {
	out := make([]pkgmodels.RankingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, pkgmodels.RankingEntry{
			TapaID:    e.TapaID,
			TapaName:  e.TapaName,
			ImageURL:  e.ImageURL,
			VenueName: e.VenueName,
			AvgStars:  e.AvgStars,
			VoteCount: e.VoteCount,
		})
	}
	return out
}
