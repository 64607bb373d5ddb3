package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tapea/internal/microservices/http-api/models"
)

// ids are real UUIDs because the services reject anything else
const (
	venueID1  = "a3e1c0d2-5b7f-4c1e-9a20-1f0e6d1b0001"
	venueID2  = "a3e1c0d2-5b7f-4c1e-9a20-1f0e6d1b0002"
	tapaID1   = "c7d4b9e8-2a61-4f3b-8c55-7e2a9f4c0001"
	tapaID2   = "c7d4b9e8-2a61-4f3b-8c55-7e2a9f4c0002"
	missingID = "00000000-0000-4000-8000-00000000dead"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "new-user-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVoteRepository mocks the VoteRepository interface
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	if args.Error(0) == nil && vote.ID == "" {
		vote.ID = "new-vote-id"
	}
	return args.Error(0)
}

func (m *MockVoteRepository) ListByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockVoteRepository) ListByUserWithTapas(ctx context.Context, userID string) ([]models.Vote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockVoteRepository) ListByTapaIDs(ctx context.Context, tapaIDs []string) ([]models.Vote, error) {
	args := m.Called(ctx, tapaIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockVoteRepository) ListAll(ctx context.Context) ([]models.Vote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockVoteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVenueRepository mocks the VenueRepository interface
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) List(ctx context.Context, eventID string) ([]models.Venue, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

// MockTapaRepository mocks the TapaRepository interface
type MockTapaRepository struct {
	mock.Mock
}

func (m *MockTapaRepository) GetByID(ctx context.Context, id string) (*models.Tapa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tapa), args.Error(1)
}

// MockEventRepository mocks the EventRepository interface
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

// MockOAuthProvider mocks the Google code exchange
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code, verifier string) (*GoogleProfile, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GoogleProfile), args.Error(1)
}

// memStateStore is a single-use in-memory StateStore
type memStateStore struct {
	states map[string]SignInState
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]SignInState)}
}

func (s *memStateStore) Put(ctx context.Context, state string, st SignInState) error {
	s.states[state] = st
	return nil
}

func (s *memStateStore) Take(ctx context.Context, state string) (*SignInState, error) {
	st, ok := s.states[state]
	if !ok {
		return nil, ErrInvalidState
	}
	delete(s.states, state)
	return &st, nil
}
