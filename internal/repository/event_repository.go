package repository

import (
	"context"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// EventFilter narrows event listings.
type EventFilter struct {
	Category string
	Status   domain.EventStatus
	Page     int
	PageSize int
}

// UpdateFunc mutates an event aggregate inside the per-event exclusive
// section. Returning an error discards every mutation the function made.
type UpdateFunc func(event *domain.Event) error

// EventRepository persists event aggregates. Update is the only
// read-modify-write primitive: implementations must run fn atomically with
// respect to concurrent Updates on the same event, so the capacity and
// sold-count invariants hold under arbitrary interleaving.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, int, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}
