package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tapea/internal/microservices/http-api/models"
)

func TestRankingTop(t *testing.T) {
	venues := new(MockVenueRepository)
	votes := new(MockVoteRepository)
	svc := NewRankingService(venues, votes)
	ctx := context.Background()

	venues.On("List", ctx, "e1").Return([]models.Venue{
		{ID: "v1", Name: "Bar Pepe", Tapas: []models.Tapa{{ID: "T1", Name: "Croqueta"}, {ID: "T3", Name: "Gilda"}}},
		{ID: "v2", Name: "Casa Lola", Tapas: []models.Tapa{{ID: "T2", Name: "Pulpo"}}},
	}, nil)
	votes.On("ListByTapaIDs", mock.Anything, []string{"T1", "T3", "T2"}).Return([]models.Vote{
		{TapaID: "T1", Stars: 5}, {TapaID: "T1", Stars: 3},
		{TapaID: "T2", Stars: 5}, {TapaID: "T2", Stars: 4}, {TapaID: "T2", Stars: 5},
	}, nil)

	resp, err := svc.Top(ctx, "e1", 0)

	require.NoError(t, err)
	assert.Equal(t, "e1", resp.EventID)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "T2", resp.Entries[0].TapaID)
	assert.Equal(t, 4.7, resp.Entries[0].AvgStars)
	assert.Equal(t, "Casa Lola", resp.Entries[0].VenueName)
	assert.Equal(t, "T1", resp.Entries[1].TapaID)
	assert.Equal(t, 4.0, resp.Entries[1].AvgStars)
}

func TestRankingTop_NoTapas(t *testing.T) {
	venues := new(MockVenueRepository)
	votes := new(MockVoteRepository)
	svc := NewRankingService(venues, votes)

	venues.On("List", mock.Anything, "").Return([]models.Venue{}, nil)

	resp, err := svc.Top(context.Background(), "", 5)

	require.NoError(t, err)
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
	votes.AssertNotCalled(t, "ListByTapaIDs", mock.Anything, mock.Anything)
}
