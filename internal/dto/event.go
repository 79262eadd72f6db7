package dto

import (
	"time"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// TicketTypeRequest describes a ticket tier when creating or updating an event
type TicketTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Tags        []string            `json:"tags"`
	Location    string              `json:"location"`
	StartDate   time.Time           `json:"start_date" binding:"required"`
	EndDate     time.Time           `json:"end_date" binding:"required"`
	Capacity    int                 `json:"capacity" binding:"required,gt=0"`
	Tickets     []TicketTypeRequest `json:"tickets" binding:"required,min=1,dive"`
}

// UpdateEventRequest represents a partial update to an event. Nil fields are
// left unchanged.
type UpdateEventRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// UpdateEventStatusRequest changes an event's lifecycle status
type UpdateEventStatusRequest struct {
	Status domain.EventStatus `json:"status" binding:"required"`
}

// ListEventsRequest captures the query parameters for listing events
type ListEventsRequest struct {
	Category string `form:"category"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1" binding:"min=0"`
	PageSize int    `form:"page_size,default=20" binding:"min=0,max=100"`
}

// TicketTypeResponse represents a ticket tier with availability
type TicketTypeResponse struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Sold      int    `json:"sold"`
	Available int    `json:"available"`
}

// AttendeeResponse represents an attendee record
type AttendeeResponse struct {
	UserID       string    `json:"user_id"`
	TicketType   string    `json:"ticket_type"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

// WaitlistEntryResponse represents a waitlist position
type WaitlistEntryResponse struct {
	UserID     string    `json:"user_id"`
	TicketType string    `json:"ticket_type"`
	AddedAt    time.Time `json:"added_at"`
	Position   int       `json:"position"`
}

// ReviewResponse represents a review
type ReviewResponse struct {
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// EventResponse represents an event
type EventResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Category      string               `json:"category,omitempty"`
	Tags          []string             `json:"tags,omitempty"`
	Location      string               `json:"location,omitempty"`
	StartDate     time.Time            `json:"start_date"`
	EndDate       time.Time            `json:"end_date"`
	OrganizerID   string               `json:"organizer_id"`
	Capacity      int                  `json:"capacity"`
	Status        string               `json:"status"`
	Tickets       []TicketTypeResponse `json:"tickets"`
	AttendeeCount int                  `json:"attendee_count"`
	WaitlistCount int                  `json:"waitlist_count"`
	AverageRating float64              `json:"average_rating"`
	ReviewCount   int                  `json:"review_count"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FromEvent converts a domain Event to EventResponse
func FromEvent(e *domain.Event) *EventResponse {
	tickets := make([]TicketTypeResponse, 0, len(e.Tickets))
	for _, t := range e.Tickets {
		tickets = append(tickets, TicketTypeResponse{
			Name:      t.Name,
			Price:     t.Price,
			Quantity:  t.Quantity,
			Sold:      t.Sold,
			Available: t.Available(),
		})
	}

	return &EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Category:      e.Category,
		Tags:          e.Tags,
		Location:      e.Location,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		OrganizerID:   e.OrganizerID,
		Capacity:      e.Capacity,
		Status:        string(e.Status),
		Tickets:       tickets,
		AttendeeCount: e.ActiveAttendeeCount(),
		WaitlistCount: len(e.Waitlist),
		AverageRating: e.AverageRating,
		ReviewCount:   len(e.Reviews),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EventListResponse represents a page of events
type EventListResponse struct {
	Events   []*EventResponse `json:"events"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// FromAttendee converts a domain Attendee to AttendeeResponse
func FromAttendee(a *domain.Attendee) *AttendeeResponse {
	return &AttendeeResponse{
		UserID:       a.UserID,
		TicketType:   a.TicketType,
		Status:       string(a.Status),
		RegisteredAt: a.RegisteredAt,
	}
}

// FromReview converts a domain Review to ReviewResponse
func FromReview(r *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
