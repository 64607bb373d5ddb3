package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"tapea/internal/microservices/http-api/models"
	"tapea/internal/microservices/http-api/service"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) BeginGoogleSignIn(ctx context.Context, redirectTarget, deviceID string) (string, error) {
	args := m.Called(redirectTarget, deviceID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) CompleteGoogleSignIn(ctx context.Context, state, code string) (*service.SignInResult, error) {
	args := m.Called(state, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignInResult), args.Error(1)
}

func (m *MockAuthService) IssueTokens(ctx context.Context, user *models.User) (pkgmodels.TokenPair, error) {
	args := m.Called(user)
	return args.Get(0).(pkgmodels.TokenPair), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (pkgmodels.TokenPair, error) {
	args := m.Called(refreshToken)
	return args.Get(0).(pkgmodels.TokenPair), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) GetRole(ctx context.Context, userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// MockPendingService mocks the PendingService interface
type MockPendingService struct {
	mock.Mock
}

func (m *MockPendingService) Stage(ctx context.Context, deviceID, venueID string, req pkgmodels.StagePendingRequest) (string, error) {
	args := m.Called(deviceID, venueID, req)
	return args.String(0), args.Error(1)
}

func (m *MockPendingService) Reconcile(ctx context.Context, deviceID, userID string) (voting.ReconcileResult, error) {
	args := m.Called(deviceID, userID)
	return args.Get(0).(voting.ReconcileResult), args.Error(1)
}

// MockVoteService mocks the VoteService interface
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) CastVote(ctx context.Context, userID string, req pkgmodels.CastVoteRequest) (*pkgmodels.CastVoteResponse, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.CastVoteResponse), args.Error(1)
}

func (m *MockVoteService) ListUserVotes(ctx context.Context, userID string) ([]pkgmodels.Vote, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pkgmodels.Vote), args.Error(1)
}

func (m *MockVoteService) Passport(ctx context.Context, userID, eventID string) (*pkgmodels.Passport, error) {
	args := m.Called(userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.Passport), args.Error(1)
}

// MockVenueService mocks the VenueService interface
type MockVenueService struct {
	mock.Mock
}

func (m *MockVenueService) List(ctx context.Context, eventID string) ([]pkgmodels.Venue, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pkgmodels.Venue), args.Error(1)
}

func (m *MockVenueService) Get(ctx context.Context, id string) (*pkgmodels.Venue, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.Venue), args.Error(1)
}

func (m *MockVenueService) QRURL(ctx context.Context, id string) (*pkgmodels.QRResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.QRResponse), args.Error(1)
}

// MockRankingService mocks the RankingService interface
type MockRankingService struct {
	mock.Mock
}

func (m *MockRankingService) Top(ctx context.Context, eventID string, limit int) (*pkgmodels.RankingResponse, error) {
	args := m.Called(eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.RankingResponse), args.Error(1)
}

// MockRaffleService mocks the RaffleService interface
type MockRaffleService struct {
	mock.Mock
}

func (m *MockRaffleService) Participants(ctx context.Context, minVotes int) (*pkgmodels.RaffleResponse, error) {
	args := m.Called(minVotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.RaffleResponse), args.Error(1)
}

// MockEventService mocks the EventService interface
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context) ([]pkgmodels.Event, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pkgmodels.Event), args.Error(1)
}

func (m *MockEventService) Active(ctx context.Context) (*pkgmodels.Event, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.Event), args.Error(1)
}

func (m *MockEventService) BySlug(ctx context.Context, slug string) (*pkgmodels.Event, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pkgmodels.Event), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for AuthMiddleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}
