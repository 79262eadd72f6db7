package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle status of an event (matches DB ENUM)
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// RegistrationOutcome is the result of a registration attempt.
type RegistrationOutcome string

const (
	OutcomeRegistered RegistrationOutcome = "registered"
	OutcomeWaitlisted RegistrationOutcome = "waitlisted"
)

// TicketType is a named, priced admission category with its own capacity.
// Price is in the smallest currency unit (e.g. cents), never a float.
type TicketType struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Sold     int    `json:"sold"`
}

// Available returns the number of unsold tickets of this type.
func (t *TicketType) Available() int {
	return t.Quantity - t.Sold
}

// Event is the aggregate root for ticket inventory, attendance, and reviews.
// Mutating methods are not safe for concurrent use; callers must go through
// EventRepository.Update, which runs the mutation inside the per-event
// exclusive section.
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags,omitempty"`
	Location    string       `json:"location"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	OrganizerID string       `json:"organizer_id"`
	Capacity    int          `json:"capacity"`
	Status      EventStatus  `json:"status"`
	Tickets     []TicketType `json:"tickets"`

	Attendees []Attendee      `json:"attendees"`
	Waitlist  []WaitlistEntry `json:"waitlist"`

	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent creates an event in draft status with zeroed sold counts.
func NewEvent(organizerID, title, description, category, location string, start, end time.Time, capacity int, tickets []TicketType) (*Event, error) {
	if organizerID == "" {
		return nil, ErrInvalidUserID
	}
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	for _, t := range tickets {
		if t.Name == "" {
			return nil, ErrInvalidTicketType
		}
		if t.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if t.Price < 0 {
			return nil, ErrInvalidPrice
		}
	}

	now := time.Now().UTC()
	e := &Event{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Location:    location,
		StartDate:   start,
		EndDate:     end,
		OrganizerID: organizerID,
		Capacity:    capacity,
		Status:      EventStatusDraft,
		Tickets:     make([]TicketType, len(tickets)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	copy(e.Tickets, tickets)
	for i := range e.Tickets {
		e.Tickets[i].Sold = 0
	}
	return e, nil
}

// TicketType returns the ticket type with the given name, or nil.
func (e *Event) TicketType(name string) *TicketType {
	for i := range e.Tickets {
		if e.Tickets[i].Name == name {
			return &e.Tickets[i]
		}
	}
	return nil
}

// ReserveTicket increments the sold count for one ticket of the given type.
// It is the sole capacity gate: sold never exceeds quantity.
func (e *Event) ReserveTicket(name string) error {
	t := e.TicketType(name)
	if t == nil {
		return ErrTicketTypeNotFound
	}
	if t.Sold+1 > t.Quantity {
		return ErrSoldOut
	}
	t.Sold++
	return nil
}

// ReleaseTicket decrements the sold count for the given type, clamped at zero.
func (e *Event) ReleaseTicket(name string) {
	t := e.TicketType(name)
	if t == nil {
		return
	}
	if t.Sold > 0 {
		t.Sold--
	}
}

// SetStatus transitions the event's descriptive status.
func (e *Event) SetStatus(status EventStatus) error {
	switch status {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		e.Status = status
		e.UpdatedAt = time.Now().UTC()
		return nil
	default:
		return ErrInvalidStatus
	}
}

// EventUpdate is a partial update to an event's descriptive fields. Nil
// fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ApplyUpdate applies non-nil fields of the update to the event.
func (e *Event) ApplyUpdate(u EventUpdate) error {
	if u.Title != nil {
		if *u.Title == "" {
			return ErrInvalidTitle
		}
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Tags != nil {
		e.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.StartDate != nil {
		e.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		e.EndDate = *u.EndDate
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy of the aggregate.
func (e *Event) Clone() *Event {
	c := *e
	c.Tags = append([]string(nil), e.Tags...)
	c.Tickets = append([]TicketType(nil), e.Tickets...)
	c.Attendees = append([]Attendee(nil), e.Attendees...)
	c.Waitlist = append([]WaitlistEntry(nil), e.Waitlist...)
	c.Reviews = append([]Review(nil), e.Reviews...)
	return &c
}
