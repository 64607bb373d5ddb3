package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_OrderAndExclusion(t *testing.T) {
	tapas := []Tapa{
		{ID: "T1", Name: "Croqueta", VenueName: "Bar Uno"},
		{ID: "T2", Name: "Salmorejo", VenueName: "Bar Dos"},
		{ID: "T3", Name: "Tortilla", VenueName: "Bar Tres"},
	}
	votes := []Vote{
		{TapaID: "T1", Stars: 5}, {TapaID: "T1", Stars: 4},
		{TapaID: "T2", Stars: 5}, {TapaID: "T2", Stars: 5}, {TapaID: "T2", Stars: 5},
	}

	got := Compute(tapas, votes, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[0].TapaID)
	assert.Equal(t, 5.0, got[0].AvgStars)
	assert.Equal(t, 3, got[0].VoteCount)
	assert.Equal(t, "T1", got[1].TapaID)
	assert.Equal(t, 4.5, got[1].AvgStars)
	assert.Equal(t, 2, got[1].VoteCount)
}

func TestCompute_TieBreakByCount(t *testing.T) {
	tapas := []Tapa{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	votes := []Vote{
		{TapaID: "a", Stars: 4},
		{TapaID: "b", Stars: 4}, {TapaID: "b", Stars: 4},
	}

	got := Compute(tapas, votes, 5)

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].TapaID)
	assert.Equal(t, "a", got[1].TapaID)
}

func TestCompute_FullTieIsStable(t *testing.T) {
	tapas := []Tapa{{ID: "2", Name: "Zamburiñas"}, {ID: "1", Name: "Bravas"}}
	votes := []Vote{{TapaID: "1", Stars: 3}, {TapaID: "2", Stars: 3}}

	for i := 0; i < 10; i++ {
		got := Compute(tapas, votes, 5)
		require.Len(t, got, 2)
		assert.Equal(t, "Bravas", got[0].TapaName)
	}
}

func TestCompute_RoundingAndFallback(t *testing.T) {
	tapas := []Tapa{{ID: "x", Name: "X"}}
	// mean 4.333.. -> 4.3
	votes := []Vote{{TapaID: "x", Stars: 5}, {TapaID: "x", Stars: 4}, {TapaID: "x", Stars: 4}}

	got := Compute(tapas, votes, 5)

	require.Len(t, got, 1)
	assert.Equal(t, 4.3, got[0].AvgStars)
	assert.Equal(t, UnknownVenue, got[0].VenueName)
}

func TestCompute_Limit(t *testing.T) {
	var tapas []Tapa
	var votes []Vote
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("t%d", i)
		tapas = append(tapas, Tapa{ID: id, Name: id})
		votes = append(votes, Vote{TapaID: id, Stars: 1 + i%5})
	}

	assert.Len(t, Compute(tapas, votes, 0), DefaultLimit)
	assert.Len(t, Compute(tapas, votes, 3), 3)
	assert.Len(t, Compute(tapas, votes, 100), 8)
}

func TestCompute_EmptyScope(t *testing.T) {
	assert.Empty(t, Compute(nil, []Vote{{TapaID: "orphan", Stars: 5}}, 5))
	assert.Empty(t, Compute([]Tapa{{ID: "a"}}, nil, 5))
}

func TestRoundAverage(t *testing.T) {
	assert.Equal(t, 0.0, RoundAverage(0, 0))
	assert.Equal(t, 4.5, RoundAverage(9, 2))
	assert.Equal(t, 3.7, RoundAverage(11, 3))
}
