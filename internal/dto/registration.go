package dto

import (
	"time"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// RegisterRequest represents a request to register for an event
type RegisterRequest struct {
	TicketType string `json:"ticket_type" binding:"required"`
}

// RegistrationResponse reports the outcome of a registration attempt
type RegistrationResponse struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	TicketType string    `json:"ticket_type"`
	Outcome    string    `json:"outcome"`
	Position   int       `json:"waitlist_position,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// CancellationResponse reports a cancelled registration and any attendees
// promoted from the waitlist as a result
type CancellationResponse struct {
	EventID   string              `json:"event_id"`
	UserID    string              `json:"user_id"`
	Promoted  []*AttendeeResponse `json:"promoted,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// CheckInResponse reports a check-in
type CheckInResponse struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitReviewRequest represents a review submission
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// ReviewListResponse represents an event's reviews with the aggregate rating
type ReviewListResponse struct {
	Reviews       []*ReviewResponse `json:"reviews"`
	AverageRating float64           `json:"average_rating"`
	Total         int               `json:"total"`
}

// FromReviews converts domain reviews to a list response
func FromReviews(reviews []domain.Review, averageRating float64) *ReviewListResponse {
	out := make([]*ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, FromReview(&reviews[i]))
	}
	return &ReviewListResponse{
		Reviews:       out,
		AverageRating: averageRating,
		Total:         len(out),
	}
}
