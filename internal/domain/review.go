package domain

import "time"

// Review is one user's rating and comment for an event they attended.
type Review struct {
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// AddReview appends a review and recomputes the average rating. Only attendees
// with status attended may review, once per event.
func (e *Event) AddReview(userID string, rating int, comment string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if comment == "" {
		return ErrInvalidComment
	}

	a := e.Attendee(userID)
	if a == nil || a.Status != AttendeeStatusAttended {
		return ErrNotEligible
	}
	for i := range e.Reviews {
		if e.Reviews[i].UserID == userID {
			return ErrAlreadyReviewed
		}
	}

	now := time.Now().UTC()
	e.Reviews = append(e.Reviews, Review{
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	})
	e.recomputeAverageRating()
	e.UpdatedAt = now
	return nil
}

// recomputeAverageRating sets AverageRating to the mean of all ratings, or 0
// when there are none. Runs after every review mutation.
func (e *Event) recomputeAverageRating() {
	if len(e.Reviews) == 0 {
		e.AverageRating = 0
		return
	}
	sum := 0
	for i := range e.Reviews {
		sum += e.Reviews[i].Rating
	}
	e.AverageRating = float64(sum) / float64(len(e.Reviews))
}
