package authentication

// keystring.go keeps the signed-in session in the OS keychain.
import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "tapea-cli"
	tokenKey    = "auth_tokens"
)

type StoredCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

func StoreTokens(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, tokenKey, string(data))
}

// GetTokens returns nil, nil when nobody is signed in.
func GetTokens() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func DeleteTokens() error {
	err := keyring.Delete(serviceName, tokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
