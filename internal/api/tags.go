package api

import (
	"context"

	"helpdesk-cli/internal/model"
)

func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var out model.Page[model.Tag]
	if err := c.get(ctx, "/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) CreateTag(ctx context.Context, in model.TagInput) (model.Tag, error) {
	if err := in.Validate(); err != nil {
		return model.Tag{}, err
	}
	var out model.Tag
	err := c.post(ctx, "/tags", in, &out)
	return out, err
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.delete(ctx, "/tags/"+escape(id))
}

func (c *Client) AddTicketTag(ctx context.Context, ticketID, tagID string) error {
	return c.post(ctx, "/tickets/"+escape(ticketID)+"/tags", map[string]string{"tagId": tagID}, nil)
}

func (c *Client) RemoveTicketTag(ctx context.Context, ticketID, tagID string) error {
	return c.delete(ctx, "/tickets/"+escape(ticketID)+"/tags/"+escape(tagID))
}
