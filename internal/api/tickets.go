package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"
)

type TicketFilter struct {
	ListOptions
	ProjectID  string
	StatusID   string
	PriorityID string
	AssigneeID string
	ClientID   string
	StreamID   string
	Query      string
}

func (f TicketFilter) values() url.Values {
	q := url.Values{}
	f.ListOptions.apply(q)
	setIf(q, "projectId", f.ProjectID)
	setIf(q, "statusId", f.StatusID)
	setIf(q, "priorityId", f.PriorityID)
	setIf(q, "assigneeId", f.AssigneeID)
	setIf(q, "clientId", f.ClientID)
	setIf(q, "streamId", f.StreamID)
	setIf(q, "q", f.Query)
	return q
}

func (c *Client) ListTickets(ctx context.Context, f TicketFilter) (model.Page[model.Ticket], error) {
	var out model.Page[model.Ticket]
	err := c.get(ctx, "/tickets", f.values(), &out)
	return out, err
}

func (c *Client) GetTicket(ctx context.Context, id string) (model.Ticket, error) {
	var out model.Ticket
	err := c.get(ctx, "/tickets/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTicket(ctx context.Context, in model.TicketInput) (model.Ticket, error) {
	if err := in.Validate(); err != nil {
		return model.Ticket{}, err
	}
	var out model.Ticket
	err := c.post(ctx, "/tickets", in, &out)
	return out, err
}

func (c *Client) UpdateTicket(ctx context.Context, id string, in model.TicketInput) (model.Ticket, error) {
	if err := in.ValidateUpdate(); err != nil {
		return model.Ticket{}, err
	}
	var out model.Ticket
	err := c.post(ctx, "/tickets/"+escape(id), in, &out)
	return out, err
}

// MoveTicket persists a status change (the board's move callback).
func (c *Client) MoveTicket(ctx context.Context, id, statusID string) (model.Ticket, error) {
	return c.UpdateTicket(ctx, id, model.TicketInput{StatusID: statusID})
}

func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.delete(ctx, "/tickets/"+escape(id))
}
