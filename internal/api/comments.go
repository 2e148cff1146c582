package api

import (
	"context"

	"helpdesk-cli/internal/model"
)

func (c *Client) ListComments(ctx context.Context, ticketID string) ([]model.Comment, error) {
	var out model.Page[model.Comment]
	if err := c.get(ctx, "/tickets/"+escape(ticketID)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddComment(ctx context.Context, ticketID string, in model.CommentInput) (model.Comment, error) {
	if err := in.Validate(); err != nil {
		return model.Comment{}, err
	}
	var out model.Comment
	err := c.post(ctx, "/tickets/"+escape(ticketID)+"/comments", in, &out)
	return out, err
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.delete(ctx, "/comments/"+escape(id))
}
