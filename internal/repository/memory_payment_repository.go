package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// MemoryPaymentRepository implements PaymentRepository using in-memory storage
// This is useful for testing and development
type MemoryPaymentRepository struct {
	payments map[string]*domain.Payment
	byUser   map[string][]string // userID -> []paymentID
	byEvent  map[string][]string // eventID -> []paymentID
	mu       sync.RWMutex
}

// NewMemoryPaymentRepository creates a new in-memory payment repository
func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		payments: make(map[string]*domain.Payment),
		byUser:   make(map[string][]string),
		byEvent:  make(map[string][]string),
	}
}

// Create creates a new payment record
func (r *MemoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[payment.ID]; exists {
		return domain.ErrPaymentExists
	}

	// Clone payment to avoid external modifications
	p := clonePayment(payment)
	r.payments[payment.ID] = p
	r.byUser[payment.UserID] = append(r.byUser[payment.UserID], payment.ID)
	r.byEvent[payment.EventID] = append(r.byEvent[payment.EventID], payment.ID)

	return nil
}

// GetByID retrieves a payment by its ID
func (r *MemoryPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, exists := r.payments[id]
	if !exists {
		return nil, domain.ErrPaymentNotFound
	}

	return clonePayment(payment), nil
}

// GetByUser retrieves all payments made by a user, newest first
func (r *MemoryPaymentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(r.byUser[userID]), nil
}

// GetByEvent retrieves all payments for an event, newest first
func (r *MemoryPaymentRepository) GetByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(r.byEvent[eventID]), nil
}

// Update replaces an existing payment record
func (r *MemoryPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[payment.ID]; !exists {
		return domain.ErrPaymentNotFound
	}

	r.payments[payment.ID] = clonePayment(payment)
	return nil
}

// TransitionStatus atomically moves a payment from one status to another
func (r *MemoryPaymentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, exists := r.payments[id]
	if !exists {
		return domain.ErrPaymentNotFound
	}
	if payment.Status != from {
		return domain.ErrInvalidStatus
	}

	payment.Status = to
	payment.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPaymentRepository) collect(ids []string) []*domain.Payment {
	payments := make([]*domain.Payment, 0, len(ids))
	for _, id := range ids {
		if p, exists := r.payments[id]; exists {
			payments = append(payments, clonePayment(p))
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments
}

func clonePayment(p *domain.Payment) *domain.Payment {
	c := *p
	if p.Refund != nil {
		ref := *p.Refund
		c.Refund = &ref
	}
	return &c
}
