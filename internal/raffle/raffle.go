// Package raffle decides who enters the route sweepstakes.
package raffle

import (
	"math"
	"sort"
)

// Threshold is the number of distinct tapa votes needed to enter.
const Threshold = 3

// Ballot is the part of a vote the raffle cares about.
type Ballot struct {
	UserID string
	TapaID string
}

// Profile is the contact record a participant must have to be listed.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
}

// Participant is a user who met the threshold and has a profile.
type Participant struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	VoteCount   int    `json:"vote_count"`
}

// IsEligible is inclusive: count >= threshold.
func IsEligible(count, threshold int) bool {
	return count >= threshold
}

// CountByUser counts vote records per user.
func CountByUser(ballots []Ballot) map[string]int {
	counts := make(map[string]int)
	for _, b := range ballots {
		counts[b.UserID]++
	}
	return counts
}

// Participants groups ballots by user, keeps users at or over threshold and
// joins them with profiles. Qualified users without a profile are left out.
func Participants(ballots []Ballot, profiles []Profile, threshold int) []Participant {
	counts := CountByUser(ballots)

	out := make([]Participant, 0)
	for _, p := range profiles {
		n, ok := counts[p.UserID]
		if !ok || !IsEligible(n, threshold) {
			continue
		}
		out = append(out, Participant{
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			VoteCount:   n,
		})
		// a duplicated profile row must not list the user twice
		delete(counts, p.UserID)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Qualified returns the ids of users at or over threshold, sorted.
func Qualified(ballots []Ballot, threshold int) []string {
	var ids []string
	for id, n := range CountByUser(ballots) {
		if IsEligible(n, threshold) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Progress is the passport completion percentage, capped at 100.
func Progress(count, threshold int) float64 {
	if threshold <= 0 {
		return 100
	}
	return math.Min(float64(count)/float64(threshold)*100, 100)
}

// Remaining is how many more votes are needed, never negative.
func Remaining(count, threshold int) int {
	if count >= threshold {
		return 0
	}
	return threshold - count
}
