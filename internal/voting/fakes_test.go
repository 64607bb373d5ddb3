package voting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"tapea/internal/geolocation"
)

// memStore enforces one vote per (user, tapa) like the real unique index.
type memStore struct {
	mu    sync.Mutex
	votes []Vote
	seq   int
}

func (s *memStore) CreateVote(ctx context.Context, userID, tapaID string, stars int, validated bool) (Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.votes {
		if v.UserID == userID && v.TapaID == tapaID {
			return Vote{}, fmt.Errorf("insert vote: %w", ErrAlreadyVoted)
		}
	}
	s.seq++
	v := Vote{
		ID:                fmt.Sprintf("v%d", s.seq),
		UserID:            userID,
		TapaID:            tapaID,
		Stars:             stars,
		ValidatedLocation: validated,
		CreatedAt:         time.Now(),
	}
	s.votes = append(s.votes, v)
	return v, nil
}

func (s *memStore) ListVotesByUser(ctx context.Context, userID string) ([]Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Vote
	for _, v := range s.votes {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[string]bool, len(tapaIDs))
	for _, id := range tapaIDs {
		want[id] = true
	}
	var out []Vote
	for _, v := range s.votes {
		if want[v.TapaID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) count(userID, tapaID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.votes {
		if v.UserID == userID && v.TapaID == tapaID {
			n++
		}
	}
	return n
}

// MockStore is a testify mock for failure injection.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateVote(ctx context.Context, userID, tapaID string, stars int, validated bool) (Vote, error) {
	args := m.Called(ctx, userID, tapaID, stars, validated)
	return args.Get(0).(Vote), args.Error(1)
}

func (m *MockStore) ListVotesByUser(ctx context.Context, userID string) ([]Vote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Vote), args.Error(1)
}

func (m *MockStore) ListVotesByTapaIDs(ctx context.Context, tapaIDs []string) ([]Vote, error) {
	args := m.Called(ctx, tapaIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Vote), args.Error(1)
}

// fakeIdentity signs in as signInAs. With redirect set, SignIn only records
// the call, like a browser hand-off; otherwise it completes inline.
type fakeIdentity struct {
	mu       sync.Mutex
	userID   string
	signInAs string
	redirect bool
	err      error
	signIns  int
}

func (f *fakeIdentity) CurrentIdentity(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, provider, redirectTarget string) (SignInResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signIns++
	if f.err != nil {
		return SignInResult{}, f.err
	}
	if f.redirect {
		return SignInResult{Redirected: true, URL: "https://accounts.example/auth"}, nil
	}
	f.userID = f.signInAs
	return SignInResult{}, nil
}

// completeRedirect simulates returning from the OAuth provider.
func (f *fakeIdentity) completeRedirect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = f.signInAs
}

type fakeLocation struct {
	mu       sync.Mutex
	snap     geolocation.Snapshot
	requests int
}

func (f *fakeLocation) Snapshot() geolocation.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeLocation) Request(ctx context.Context) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	f.snap.State = geolocation.Requesting
	ch := make(chan struct{})
	return ch
}

func readyAt(lat, lng float64) *fakeLocation {
	return &fakeLocation{snap: geolocation.Snapshot{
		State:    geolocation.Ready,
		Position: geolocation.Position{Latitude: lat, Longitude: lng},
	}}
}
