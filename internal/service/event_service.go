package service

import (
	"context"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/repository"
)

// EventService defines the interface for event management
type EventService interface {
	// CreateEvent creates a new event owned by the organizer
	CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error)

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)

	// ListEvents retrieves events matching the filter
	ListEvents(ctx context.Context, req *dto.ListEventsRequest) ([]*domain.Event, int, error)

	// UpdateEvent applies a partial update. Only the organizer or an admin
	// may update an event.
	UpdateEvent(ctx context.Context, actor Actor, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error)

	// UpdateEventStatus transitions the event lifecycle status
	UpdateEventStatus(ctx context.Context, actor Actor, eventID string, status domain.EventStatus) (*domain.Event, error)

	// DeleteEvent removes an event. Only the organizer or an admin may
	// delete an event.
	DeleteEvent(ctx context.Context, actor Actor, eventID string) error
}

// Actor identifies the authenticated caller of a service operation
type Actor struct {
	UserID string
	Role   string
}

// Roles assigned via the auth token
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type eventServiceImpl struct {
	repo repository.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(repo repository.EventRepository) EventService {
	return &eventServiceImpl{repo: repo}
}

// CreateEvent creates a new event owned by the organizer
func (s *eventServiceImpl) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	tickets := make([]domain.TicketType, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		tickets = append(tickets, domain.TicketType{
			Name:     t.Name,
			Price:    t.Price,
			Quantity: t.Quantity,
		})
	}

	event, err := domain.NewEvent(
		organizerID,
		req.Title,
		req.Description,
		req.Category,
		req.Location,
		req.StartDate,
		req.EndDate,
		req.Capacity,
		tickets,
	)
	if err != nil {
		return nil, err
	}
	event.Tags = req.Tags

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *eventServiceImpl) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, eventID)
}

// ListEvents retrieves events matching the filter
func (s *eventServiceImpl) ListEvents(ctx context.Context, req *dto.ListEventsRequest) ([]*domain.Event, int, error) {
	filter := repository.EventFilter{
		Category: req.Category,
		Status:   domain.EventStatus(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	return s.repo.List(ctx, filter)
}

// UpdateEvent applies a partial update after checking ownership
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, actor Actor, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	return s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		if err := authorizeOrganizer(actor, event); err != nil {
			return err
		}
		return event.ApplyUpdate(domain.EventUpdate{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			Location:    req.Location,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
	})
}

// UpdateEventStatus transitions the event lifecycle status
func (s *eventServiceImpl) UpdateEventStatus(ctx context.Context, actor Actor, eventID string, status domain.EventStatus) (*domain.Event, error) {
	return s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		if err := authorizeOrganizer(actor, event); err != nil {
			return err
		}
		return event.SetStatus(status)
	})
}

// DeleteEvent removes an event after checking ownership
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, actor Actor, eventID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := authorizeOrganizer(actor, event); err != nil {
		return err
	}
	return s.repo.Delete(ctx, eventID)
}

func authorizeOrganizer(actor Actor, event *domain.Event) error {
	if actor.IsAdmin() || actor.UserID == event.OrganizerID {
		return nil
	}
	return domain.ErrNotAuthorized
}
