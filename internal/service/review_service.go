package service

import (
	"context"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/repository"
)

// ReviewService defines the interface for event reviews
type ReviewService interface {
	// SubmitReview records a review from a user who attended the event
	SubmitReview(ctx context.Context, eventID, userID string, req *dto.SubmitReviewRequest) (*dto.ReviewListResponse, error)

	// ListReviews returns an event's reviews with the aggregate rating
	ListReviews(ctx context.Context, eventID string) (*dto.ReviewListResponse, error)
}

type reviewServiceImpl struct {
	repo repository.EventRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(repo repository.EventRepository) ReviewService {
	return &reviewServiceImpl{repo: repo}
}

// SubmitReview records a review from a user who attended the event
func (s *reviewServiceImpl) SubmitReview(ctx context.Context, eventID, userID string, req *dto.SubmitReviewRequest) (*dto.ReviewListResponse, error) {
	event, err := s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		return event.AddReview(userID, req.Rating, req.Comment)
	})
	if err != nil {
		return nil, err
	}
	return dto.FromReviews(event.Reviews, event.AverageRating), nil
}

// ListReviews returns an event's reviews with the aggregate rating
func (s *reviewServiceImpl) ListReviews(ctx context.Context, eventID string) (*dto.ReviewListResponse, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return dto.FromReviews(event.Reviews, event.AverageRating), nil
}
