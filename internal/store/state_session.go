package store

import (
	"context"
	"encoding/json"
	"fmt"

	"helpdesk-cli/internal/model"
)

const (
	keySessionToken = "session.token"
	keySessionUser  = "session.user"
)

// LoadSession returns the persisted bearer token and the cached user, if any.
func (s *State) LoadSession(ctx context.Context) (string, *model.User, error) {
	token, ok, err := s.Get(ctx, keySessionToken)
	if err != nil || !ok {
		return "", nil, err
	}
	raw, ok, err := s.Get(ctx, keySessionUser)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return token, nil, nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// A corrupt user cache is not fatal; the session re-fetches it.
		return token, nil, nil
	}
	return token, &u, nil
}

func (s *State) SaveSession(ctx context.Context, token string, user *model.User) error {
	if err := s.Set(ctx, keySessionToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if user == nil {
		return s.Delete(ctx, keySessionUser)
	}
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.Set(ctx, keySessionUser, string(b))
}

func (s *State) ClearSession(ctx context.Context) error {
	return s.Delete(ctx, keySessionToken, keySessionUser)
}
