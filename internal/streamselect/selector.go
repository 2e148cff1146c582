package streamselect

import (
	"context"
	"fmt"

	"helpdesk-cli/internal/model"
)

// Loader is the part of the API client the selector needs.
type Loader interface {
	ListParentStreams(ctx context.Context, projectID string) ([]model.Stream, error)
	ListChildStreams(ctx context.Context, parentID string) ([]model.Stream, error)
}

// Fetch performs a single Request. It is safe to call from a goroutine; the
// Result goes back through Machine.Apply.
func Fetch(ctx context.Context, loader Loader, req Request) Result {
	res := Result{Req: req}
	switch req.Kind {
	case RequestParents:
		res.Streams, res.Err = loader.ListParentStreams(ctx, req.ProjectID)
	case RequestChildren:
		res.Streams, res.Err = loader.ListChildStreams(ctx, req.ParentID)
	}
	return res
}

// Selector drives a Machine synchronously: every call returns once the
// machine has nothing left to fetch.
type Selector struct {
	m      *Machine
	loader Loader
}

func NewSelector(loader Loader, opts Options) *Selector {
	return &Selector{m: New(opts), loader: loader}
}

func (s *Selector) Machine() *Machine { return s.m }
func (s *Selector) Value() string     { return s.m.Value() }

func (s *Selector) SetProject(ctx context.Context, projectID string) error {
	return s.run(ctx, s.m.SetProject(projectID))
}

func (s *Selector) SetValue(ctx context.Context, streamID string) error {
	return s.run(ctx, s.m.SetValue(streamID))
}

func (s *Selector) SelectParent(ctx context.Context, parentID string) error {
	req, err := s.m.SelectParent(parentID)
	if err != nil {
		return err
	}
	return s.run(ctx, req)
}

func (s *Selector) SelectChild(childID string) error {
	return s.m.SelectChild(childID)
}

func (s *Selector) ClearParent() { s.m.ClearParent() }

func (s *Selector) Reload(ctx context.Context) error {
	return s.run(ctx, s.m.Reload())
}

func (s *Selector) run(ctx context.Context, req Request) error {
	for req.Pending() {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := Fetch(ctx, s.loader, req)
		req = s.m.Apply(res)
		if res.Err != nil && s.m.State() == StateError {
			return fmt.Errorf("load streams: %w", res.Err)
		}
	}
	return nil
}
