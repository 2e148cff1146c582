package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"
)

func (c *Client) ListClients(ctx context.Context, o ListOptions) (model.Page[model.Client], error) {
	q := url.Values{}
	o.apply(q)
	var out model.Page[model.Client]
	err := c.get(ctx, "/clients", q, &out)
	return out, err
}

func (c *Client) GetClient(ctx context.Context, id string) (model.Client, error) {
	var out model.Client
	err := c.get(ctx, "/clients/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateClient(ctx context.Context, in model.ClientInput) (model.Client, error) {
	if err := in.Validate(); err != nil {
		return model.Client{}, err
	}
	var out model.Client
	err := c.post(ctx, "/clients", in, &out)
	return out, err
}

func (c *Client) UpdateClient(ctx context.Context, id string, in model.ClientInput) (model.Client, error) {
	var out model.Client
	err := c.post(ctx, "/clients/"+escape(id), in, &out)
	return out, err
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.delete(ctx, "/clients/"+escape(id))
}
