package dto

import (
	"time"

	"github.com/TusharSh06/Techgather/internal/domain"
)

// PurchaseTicketRequest represents a request to buy a ticket for an event
type PurchaseTicketRequest struct {
	TicketType string               `json:"ticket_type" binding:"required"`
	Method     domain.PaymentMethod `json:"method" binding:"required"`
	Currency   string               `json:"currency"`
}

// RefundPaymentRequest represents a request to refund a payment
type RefundPaymentRequest struct {
	Reason string `json:"reason"`
}

// RefundResponse represents a processed refund
type RefundResponse struct {
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// PaymentResponse represents a payment
type PaymentResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	EventID       string          `json:"event_id"`
	TicketType    string          `json:"ticket_type"`
	Amount        int64           `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	Refund        *RefundResponse `json:"refund,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FromPayment converts a domain Payment to PaymentResponse
func FromPayment(p *domain.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		EventID:       p.EventID,
		TicketType:    p.TicketType,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Refund != nil {
		resp.Refund = &RefundResponse{
			Amount:      p.Refund.Amount,
			Reason:      p.Refund.Reason,
			ProcessedAt: p.Refund.ProcessedAt,
		}
	}
	return resp
}

// PaymentListResponse represents a list of payments
type PaymentListResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int                `json:"total"`
}

// FromPayments converts domain payments to a list response
func FromPayments(payments []*domain.Payment) *PaymentListResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return &PaymentListResponse{Payments: out, Total: len(out)}
}
