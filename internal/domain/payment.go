package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment (matches DB ENUM)
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunding PaymentStatus = "refunding"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod represents the method of payment (matches DB ENUM)
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPaypal     PaymentMethod = "paypal"
	PaymentMethodStripe     PaymentMethod = "stripe"
)

// Refund records a processed refund against a payment.
type Refund struct {
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Payment represents a charge for one ticket of one event. Status transitions
// are monotonic: pending→completed, pending→failed, completed→refunding→refunded.
// Refunding is a claim held while the gateway refund is in flight; it falls
// back to completed if the gateway declines. Amount is in the smallest
// currency unit.
type Payment struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	EventID       string        `json:"event_id"`
	TicketType    string        `json:"ticket_type"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Refund        *Refund       `json:"refund,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewPayment creates a pending payment.
func NewPayment(userID, eventID, ticketType string, amount int64, currency string, method PaymentMethod) (*Payment, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if eventID == "" {
		return nil, ErrInvalidEventID
	}
	if ticketType == "" {
		return nil, ErrInvalidTicketType
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	return &Payment{
		ID:         uuid.New().String(),
		UserID:     userID,
		EventID:    eventID,
		TicketType: ticketType,
		Amount:     amount,
		Currency:   currency,
		Method:     method,
		Status:     PaymentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Complete marks the payment as completed with the gateway's transaction ref.
func (p *Payment) Complete(transactionID string) error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidStatus
	}
	p.Status = PaymentStatusCompleted
	p.TransactionID = transactionID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail marks the payment as failed with the gateway's failure reason.
func (p *Payment) Fail(reason string) error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidStatus
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkRefunded records a processed refund. The payment must be completed, or
// refunding when the claim was taken before the gateway call.
func (p *Payment) MarkRefunded(amount int64, reason string) error {
	if p.Status != PaymentStatusCompleted && p.Status != PaymentStatusRefunding {
		return ErrNotRefundable
	}
	now := time.Now().UTC()
	p.Status = PaymentStatusRefunded
	p.Refund = &Refund{
		Amount:      amount,
		Reason:      reason,
		ProcessedAt: now,
	}
	p.UpdatedAt = now
	return nil
}

// IsRefundable reports whether a refund may be requested.
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusCompleted
}
