package api

import (
	"context"
	"fmt"

	"helpdesk-cli/internal/model"
)

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	if err := creds.Validate(); err != nil {
		return model.Session{}, err
	}
	var out model.Session
	if err := c.post(ctx, "/auth/login", creds, &out); err != nil {
		return model.Session{}, err
	}
	if out.Token == "" {
		return model.Session{}, fmt.Errorf("login: empty token in response")
	}
	return out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.get(ctx, "/auth/me", nil, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}
