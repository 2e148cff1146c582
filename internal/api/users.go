package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"
)

type UserFilter struct {
	ListOptions
	Role model.Role
}

func (c *Client) ListUsers(ctx context.Context, f UserFilter) (model.Page[model.User], error) {
	q := url.Values{}
	f.apply(q)
	setIf(q, "role", string(f.Role))
	var out model.Page[model.User]
	err := c.get(ctx, "/users", q, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	var out model.User
	err := c.get(ctx, "/users/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	if err := in.Validate(); err != nil {
		return model.User{}, err
	}
	var out model.User
	err := c.post(ctx, "/users", in, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, in model.UserInput) (model.User, error) {
	var out model.User
	err := c.post(ctx, "/users/"+escape(id), in, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/"+escape(id))
}
