package cli

import (
	"errors"
	"fmt"

	"helpdesk-cli/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// apiErr maps a 404 from the API to a notFoundError for kind/id.
func apiErr(err error, kind, id string) error {
	if errors.Is(err, api.ErrNotFound) {
		return errNotFound(kind, id)
	}
	return err
}
