package complaint

import (
	"errors"
	"fmt"

	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/models"
)

// ErrInvalidTransition is wrapped by every rejected status change.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionPolicy decides whether a complaint may move from one status to
// another. Both statuses are already known to be valid.
type TransitionPolicy interface {
	Allowed(from, to string) bool
}

// OpenPolicy allows any known status to follow any other, itself included.
type OpenPolicy struct{}

func (OpenPolicy) Allowed(from, to string) bool { return true }

// StrictPolicy allows only the edges in its table plus self transitions.
type StrictPolicy struct {
	edges map[string][]string
}

// NewStrictPolicy returns the standard lifecycle graph.
func NewStrictPolicy() StrictPolicy {
	return StrictPolicy{edges: map[string][]string{
		models.StatusSubmitted:  {models.StatusAssigned, models.StatusInProgress, models.StatusRejected},
		models.StatusAssigned:   {models.StatusInProgress, models.StatusRejected},
		models.StatusInProgress: {models.StatusResolved, models.StatusRejected},
		models.StatusResolved:   {models.StatusClosed, models.StatusInProgress},
		models.StatusRejected:   {models.StatusClosed},
		models.StatusClosed:     {},
	}}
}

// Allowed reports whether the graph has an edge from one status to the
// other. Staying on the same status is always allowed.
func (p StrictPolicy) Allowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range p.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transitionError(from, to string) error {
	return &apperr.Error{
		Kind:    apperr.KindConflict,
		Message: fmt.Sprintf("Cannot change status from %s to %s", from, to),
		Cause:   ErrInvalidTransition,
	}
}
