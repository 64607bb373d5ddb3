package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	oauthStatePrefix = "tapea:oauth_state:"
	// DefaultStateTTL bounds how long a user may sit on the Google consent page.
	DefaultStateTTL = 10 * time.Minute
)

// SignInState is what the callback needs to finish a sign-in started earlier.
type SignInState struct {
	Verifier       string `json:"verifier"`
	RedirectTarget string `json:"redirect_target,omitempty"`
	DeviceID       string `json:"device_id,omitempty"`
}

// StateStore keeps sign-in state between the redirect and the callback.
// Take is single use.
type StateStore interface {
	Put(ctx context.Context, state string, s SignInState) error
	Take(ctx context.Context, state string) (*SignInState, error)
}

type redisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &redisStateStore{client: client, ttl: ttl}
}

func (s *redisStateStore) Put(ctx context.Context, state string, st SignInState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, oauthStatePrefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

func (s *redisStateStore) Take(ctx context.Context, state string) (*SignInState, error) {
	data, err := s.client.GetDel(ctx, oauthStatePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("load oauth state: %w", err)
	}
	var st SignInState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, ErrInvalidState
	}
	return &st, nil
}
