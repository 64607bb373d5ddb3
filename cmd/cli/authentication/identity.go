package authentication

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tapea/cmd/cli/command/client"
	"tapea/internal/voting"
	pkgmodels "tapea/pkg/models"
)

// refreshLeeway renews the access token slightly before it expires.
const refreshLeeway = 30 * time.Second

// TokenAPI is the slice of the API the identity needs.
type TokenAPI interface {
	Refresh(ctx context.Context, refreshToken string) (*pkgmodels.TokenPair, error)
	SignInURL(ctx context.Context, redirect, deviceID string) (string, error)
}

type accessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Credentials builds keychain credentials from a token pair. The access
// token is decoded without verification; the server checks it on every call.
func Credentials(pair pkgmodels.TokenPair) (*StoredCredentials, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, &claims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}
	if claims.UserID == "" {
		return nil, errors.New("access token has no user id")
	}

	creds := &StoredCredentials{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       claims.UserID,
		Email:        claims.Email,
	}
	if claims.ExpiresAt != nil {
		creds.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return creds, nil
}

// KeyringIdentity is the CLI's voting.Identity. Sign-in hands off to the
// browser, so SignIn always reports a redirect.
type KeyringIdentity struct {
	api TokenAPI
	now func() time.Time

	// OnToken is called whenever the current access token changes.
	OnToken func(accessToken string)
}

func NewKeyringIdentity(api TokenAPI) *KeyringIdentity {
	return &KeyringIdentity{api: api, now: time.Now}
}

// CurrentIdentity returns the stored user id, refreshing the access token
// when it is about to expire. A rejected refresh signs the user out.
func (k *KeyringIdentity) CurrentIdentity(ctx context.Context) (string, error) {
	creds, err := GetTokens()
	if err != nil {
		return "", fmt.Errorf("read keychain: %w", err)
	}
	if creds == nil || creds.UserID == "" {
		return "", nil
	}

	if creds.ExpiresAt > 0 && k.now().Add(refreshLeeway).Unix() >= creds.ExpiresAt {
		creds, err = k.refresh(ctx, creds)
		if err != nil || creds == nil {
			return "", err
		}
	}

	if k.OnToken != nil {
		k.OnToken(creds.AccessToken)
	}
	return creds.UserID, nil
}

func (k *KeyringIdentity) refresh(ctx context.Context, creds *StoredCredentials) (*StoredCredentials, error) {
	if creds.RefreshToken == "" {
		return nil, DeleteTokens()
	}

	pair, err := k.api.Refresh(ctx, creds.RefreshToken)
	if client.StatusOf(err) == http.StatusUnauthorized {
		return nil, DeleteTokens()
	}
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	next, err := Credentials(*pair)
	if err != nil {
		return nil, err
	}
	if err := StoreTokens(next); err != nil {
		return nil, fmt.Errorf("store tokens: %w", err)
	}
	return next, nil
}

// SignIn fetches the consent URL. Finishing happens in the browser; the
// tokens come back through "tapea login --access-token ... --refresh-token ...".
func (k *KeyringIdentity) SignIn(ctx context.Context, provider, redirectTarget string) (voting.SignInResult, error) {
	if provider != "" && provider != "google" {
		return voting.SignInResult{}, fmt.Errorf("unsupported sign-in provider %q", provider)
	}
	url, err := k.api.SignInURL(ctx, redirectTarget, "")
	if err != nil {
		return voting.SignInResult{}, fmt.Errorf("start sign-in: %w", err)
	}
	return voting.SignInResult{Redirected: true, URL: url}, nil
}
