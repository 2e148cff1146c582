package api

import (
	"context"
	"net/url"

	"helpdesk-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

func (c *Client) DashboardMetrics(ctx context.Context, projectID string) (model.DashboardMetrics, error) {
	q := url.Values{}
	setIf(q, "projectId", projectID)
	var out model.DashboardMetrics
	err := c.get(ctx, "/dashboard/metrics", q, &out)
	return out, err
}

// Dashboard is everything the dashboard screen renders.
type Dashboard struct {
	Metrics    model.DashboardMetrics `json:"metrics" yaml:"metrics"`
	Statuses   []model.Status         `json:"statuses" yaml:"statuses"`
	Priorities []model.Priority       `json:"priorities" yaml:"priorities"`
}

// LoadDashboard fetches metrics and the taxonomy concurrently.
func (c *Client) LoadDashboard(ctx context.Context, projectID string) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := c.DashboardMetrics(gctx, projectID)
		d.Metrics = m
		return err
	})
	g.Go(func() error {
		s, err := c.Statuses(gctx)
		d.Statuses = s
		return err
	})
	g.Go(func() error {
		p, err := c.Priorities(gctx)
		d.Priorities = p
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
