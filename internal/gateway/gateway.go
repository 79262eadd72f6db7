package gateway

import (
	"context"
)

// PaymentGateway defines the interface for payment processing
type PaymentGateway interface {
	// Charge processes a payment charge
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)

	// Refund processes a refund for a previously completed charge
	Refund(ctx context.Context, transactionID string, amount int64) error

	// Name returns the gateway name
	Name() string
}

// ChargeRequest represents a charge request. Amount is in the smallest
// currency unit (cents for USD).
type ChargeRequest struct {
	PaymentID   string
	Amount      int64
	Currency    string
	Method      string
	Description string
	Metadata    map[string]string
}

// ChargeResponse represents a charge response
type ChargeResponse struct {
	Success       bool
	TransactionID string
	Status        string
	FailureReason string
	FailureCode   string
}

// Config holds common gateway configuration
type Config struct {
	Type        string
	SecretKey   string
	Environment string // "test" or "live"

	// Mock gateway knobs
	MockSuccessRate float64
	MockDelayMs     int
}
