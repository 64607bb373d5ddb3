package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"tapea/internal/config"
	"tapea/internal/middleware/auth"
	"tapea/internal/microservices/http-api/models"
	"tapea/internal/microservices/http-api/repository"
	pkgmodels "tapea/pkg/models"
)

const tokenIssuer = "tapea"

// Claims is the access token payload.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignInResult is what a finished Google sign-in hands back to the callback.
type SignInResult struct {
	Tokens         pkgmodels.TokenPair
	User           *models.User
	RedirectTarget string
	DeviceID       string
}

type AuthService interface {
	// BeginGoogleSignIn returns the consent URL. deviceID links a staged
	// anonymous vote to the callback.
	BeginGoogleSignIn(ctx context.Context, redirectTarget, deviceID string) (string, error)
	CompleteGoogleSignIn(ctx context.Context, state, code string) (*SignInResult, error)
	IssueTokens(ctx context.Context, user *models.User) (pkgmodels.TokenPair, error)
	// RefreshAccessToken rotates the refresh token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (pkgmodels.TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	GetRole(ctx context.Context, userID string) (string, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	provider         OAuthProvider
	states           StateStore
	cfg              *config.Config
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	logger           *slog.Logger
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	provider OAuthProvider,
	states StateStore,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		provider:         provider,
		states:           states,
		cfg:              cfg,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *authService) BeginGoogleSignIn(ctx context.Context, redirectTarget, deviceID string) (string, error) {
	if s.provider == nil || s.states == nil {
		return "", ErrOAuthDisabled
	}

	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()
	if err := s.states.Put(ctx, state, SignInState{
		Verifier:       verifier,
		RedirectTarget: redirectTarget,
		DeviceID:       deviceID,
	}); err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state, verifier), nil
}

func (s *authService) CompleteGoogleSignIn(ctx context.Context, state, code string) (*SignInResult, error) {
	if s.provider == nil || s.states == nil {
		return nil, ErrOAuthDisabled
	}
	if state == "" || code == "" {
		return nil, ErrInvalidState
	}

	st, err := s.states.Take(ctx, state)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.Exchange(ctx, code, st.Verifier)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("touch_last_login_failed", "user_id", user.ID, "error", err)
	}

	tokens, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user_signed_in", "user_id", user.ID, "role", user.Role)
	return &SignInResult{
		Tokens:         tokens,
		User:           user,
		RedirectTarget: st.RedirectTarget,
		DeviceID:       st.DeviceID,
	}, nil
}

// resolveUser finds the account for a Google profile, linking an existing
// email-only account on first sign-in and creating one otherwise.
func (s *authService) resolveUser(ctx context.Context, p *GoogleProfile) (*models.User, error) {
	user, err := s.userRepo.FindByGoogleSubject(ctx, p.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	subject := p.Subject

	user, err = s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleSubject = &subject
		if user.DisplayName == "" {
			user.DisplayName = p.Name
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	role := models.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = models.RoleAdmin
	}
	user = &models.User{
		Email:         email,
		DisplayName:   p.Name,
		GoogleSubject: &subject,
		Role:          role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user_created", "user_id", user.ID, "role", role)
	return user, nil
}

func (s *authService) IssueTokens(ctx context.Context, user *models.User) (pkgmodels.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return pkgmodels.TokenPair{}, err
	}
	refresh, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return pkgmodels.TokenPair{}, err
	}
	return pkgmodels.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	id, secret, token := auth.NewRefreshToken()
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return "", err
	}

	rt := &models.RefreshToken{
		ID:         id,
		UserID:     user.ID,
		SecretHash: hash,
		ExpiresAt:  s.now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}
	return token, nil
}

// lookupRefreshToken resolves a client token to a live row.
func (s *authService) lookupRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	id, secret, err := auth.SplitRefreshToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	rt, err := s.refreshTokenRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if rt.Revoked || auth.VerifySecret(rt.SecretHash, secret) != nil {
		return nil, ErrInvalidToken
	}
	return rt, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (pkgmodels.TokenPair, error) {
	rt, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return pkgmodels.TokenPair{}, err
	}

	if s.now().After(rt.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, rt.ID); err != nil {
			s.logger.Warn("expired_refresh_token_delete_failed", "token_id", rt.ID, "error", err)
		}
		return pkgmodels.TokenPair{}, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgmodels.TokenPair{}, ErrUserNotFound
		}
		return pkgmodels.TokenPair{}, err
	}

	if err := s.refreshTokenRepo.Revoke(ctx, rt.ID); err != nil {
		return pkgmodels.TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	return s.IssueTokens(ctx, user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	rt, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.refreshTokenRepo.Revoke(ctx, rt.ID)
}

func (s *authService) GetRole(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.Role == "" {
		return models.RoleUser, nil
	}
	return user.Role, nil
}
