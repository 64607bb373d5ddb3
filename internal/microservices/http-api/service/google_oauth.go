package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tapea/internal/config"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProfile is the subset of the OpenID userinfo we keep.
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// OAuthProvider runs the authorization-code + PKCE exchange with an identity provider.
type OAuthProvider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*GoogleProfile, error)
}

type googleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider returns nil when client credentials are not configured.
func NewGoogleProvider(cfg *config.Config) OAuthProvider {
	if !cfg.OAuthEnabled() {
		return nil
	}
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *googleProvider) AuthCodeURL(state, verifier string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

func (p *googleProvider) Exchange(ctx context.Context, code, verifier string) (*GoogleProfile, error) {
	tok, err := p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, ErrMissingProfile
	}
	return &profile, nil
}
