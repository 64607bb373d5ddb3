// Package ranking computes the per-tapa leaderboard from raw votes.
package ranking

import (
	"math"
	"sort"
)

const (
	// DefaultLimit is the leaderboard size when the caller does not pick one.
	DefaultLimit = 5
	// UnknownVenue is shown when a tapa's venue cannot be resolved.
	UnknownVenue = "Local desconocido"
)

// Tapa is the reference data needed for one leaderboard row.
type Tapa struct {
	ID        string
	Name      string
	ImageURL  string
	VenueName string
}

// Vote is the part of a vote the ranking reads.
type Vote struct {
	TapaID string
	Stars  int
}

// Entry is one leaderboard row.
type Entry struct {
	TapaID    string  `json:"tapa_id"`
	TapaName  string  `json:"tapa_name"`
	ImageURL  string  `json:"image_url,omitempty"`
	VenueName string  `json:"venue_name"`
	AvgStars  float64 `json:"avg_stars"`
	VoteCount int     `json:"vote_count"`
}

// Compute aggregates votes per tapa. Tapas without votes are dropped.
// Order: avg desc, count desc, then name and id so full ties are stable.
// limit <= 0 means DefaultLimit. Votes for tapas not in tapas are ignored.
func Compute(tapas []Tapa, votes []Vote, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	type acc struct{ sum, n int }
	stats := make(map[string]*acc, len(tapas))
	for _, t := range tapas {
		stats[t.ID] = &acc{}
	}
	for _, v := range votes {
		if a, ok := stats[v.TapaID]; ok {
			a.sum += v.Stars
			a.n++
		}
	}

	entries := make([]Entry, 0, len(tapas))
	seen := make(map[string]struct{}, len(tapas))
	for _, t := range tapas {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}

		a := stats[t.ID]
		if a.n == 0 {
			continue
		}
		venue := t.VenueName
		if venue == "" {
			venue = UnknownVenue
		}
		entries = append(entries, Entry{
			TapaID:    t.ID,
			TapaName:  t.Name,
			ImageURL:  t.ImageURL,
			VenueName: venue,
			AvgStars:  RoundAverage(a.sum, a.n),
			VoteCount: a.n,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.AvgStars != b.AvgStars {
			return a.AvgStars > b.AvgStars
		}
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if a.TapaName != b.TapaName {
			return a.TapaName < b.TapaName
		}
		return a.TapaID < b.TapaID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// RoundAverage returns round(sum/n * 10) / 10.
func RoundAverage(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
