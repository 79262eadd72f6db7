package repository

import (
	"context"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// PaymentRepository defines payment persistence operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error)
	GetByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error

	// TransitionStatus atomically moves a payment from one status to another.
	// When the payment is not in the expected status it fails with
	// ErrInvalidStatus, so concurrent transitions resolve to a single winner.
	TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error
}
