package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"
)

type ProjectFilter struct {
	ListOptions
	ClientID string
}

func (c *Client) ListProjects(ctx context.Context, f ProjectFilter) (model.Page[model.Project], error) {
	q := url.Values{}
	f.apply(q)
	setIf(q, "clientId", f.ClientID)
	var out model.Page[model.Project]
	err := c.get(ctx, "/projects", q, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (model.Project, error) {
	var out model.Project
	err := c.get(ctx, "/projects/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if err := in.Validate(); err != nil {
		return model.Project{}, err
	}
	var out model.Project
	err := c.post(ctx, "/projects", in, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	var out model.Project
	err := c.post(ctx, "/projects/"+escape(id), in, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, "/projects/"+escape(id))
}
