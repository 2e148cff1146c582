package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"
)

// ListParentStreams returns the top-level streams of a project.
func (c *Client) ListParentStreams(ctx context.Context, projectID string) ([]model.Stream, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("parents", "true")
	var out model.Page[model.Stream]
	if err := c.get(ctx, "/streams", q, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// ListChildStreams returns the streams scoped under parentID.
func (c *Client) ListChildStreams(ctx context.Context, parentID string) ([]model.Stream, error) {
	q := url.Values{}
	q.Set("parentId", parentID)
	var out model.Page[model.Stream]
	if err := c.get(ctx, "/streams", q, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GetStream(ctx context.Context, id string) (model.Stream, error) {
	var out model.Stream
	err := c.get(ctx, "/streams/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateStream(ctx context.Context, in model.StreamInput) (model.Stream, error) {
	if err := in.Validate(); err != nil {
		return model.Stream{}, err
	}
	var out model.Stream
	err := c.post(ctx, "/streams", in, &out)
	return out, err
}

func (c *Client) UpdateStream(ctx context.Context, id string, in model.StreamInput) (model.Stream, error) {
	var out model.Stream
	err := c.post(ctx, "/streams/"+escape(id), in, &out)
	return out, err
}

func (c *Client) DeleteStream(ctx context.Context, id string) error {
	return c.delete(ctx, "/streams/"+escape(id))
}
