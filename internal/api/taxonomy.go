package api

import (
	"context"

	"helpdesk-cli/internal/model"
)

// Priorities returns the priority list, fetched once per Client.
func (c *Client) Priorities(ctx context.Context) ([]model.Priority, error) {
	c.taxMu.Lock()
	defer c.taxMu.Unlock()
	if c.priorities != nil {
		return c.priorities, nil
	}
	var out model.Page[model.Priority]
	if err := c.get(ctx, "/priorities", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []model.Priority{}
	}
	c.priorities = out.Items
	return c.priorities, nil
}

// Statuses returns the ticket status list, fetched once per Client.
func (c *Client) Statuses(ctx context.Context) ([]model.Status, error) {
	c.taxMu.Lock()
	defer c.taxMu.Unlock()
	if c.statuses != nil {
		return c.statuses, nil
	}
	var out model.Page[model.Status]
	if err := c.get(ctx, "/statuses", nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []model.Status{}
	}
	c.statuses = out.Items
	return c.statuses, nil
}

// ResetTaxonomy drops the memoized priorities and statuses.
func (c *Client) ResetTaxonomy() {
	c.taxMu.Lock()
	c.priorities = nil
	c.statuses = nil
	c.taxMu.Unlock()
}
