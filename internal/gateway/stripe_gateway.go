package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// StripeGateway implements PaymentGateway using Stripe
type StripeGateway struct {
	config *StripeGatewayConfig
}

// StripeGatewayConfig holds configuration for Stripe gateway
type StripeGatewayConfig struct {
	SecretKey   string
	Environment string // "test" or "live"
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeGatewayConfig) (*StripeGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("stripe config is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{config: config}, nil
}

// Charge processes a payment charge through Stripe
func (g *StripeGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("charge request is required")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{"payment_id": req.PaymentID},
	}
	params.Context = ctx
	// Retried charges reuse the payment ID so Stripe dedupes them
	params.SetIdempotencyKey(req.PaymentID)
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return &ChargeResponse{
			Success:       false,
			Status:        "failed",
			FailureReason: err.Error(),
			FailureCode:   "stripe_error",
		}, nil
	}

	resp := &ChargeResponse{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		resp.Success = true
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// In test mode without a frontend to confirm, treat the created
		// intent as accepted.
		resp.Success = g.config.Environment != "live"
		if resp.Success {
			resp.Status = "pending_confirmation"
		} else {
			resp.FailureReason = "payment_requires_action"
			resp.FailureCode = string(pi.Status)
		}
	case stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresAction:
		resp.Success = false
		resp.FailureReason = "payment_requires_action"
		resp.FailureCode = string(pi.Status)
	case stripe.PaymentIntentStatusCanceled:
		resp.Success = false
		resp.FailureReason = "payment_canceled"
		resp.FailureCode = "canceled"
	default:
		resp.Success = false
		resp.FailureReason = fmt.Sprintf("unexpected status: %s", pi.Status)
	}

	return resp, nil
}

// Refund processes a refund through Stripe
func (g *StripeGateway) Refund(ctx context.Context, transactionID string, amount int64) error {
	if transactionID == "" {
		return fmt.Errorf("transaction ID is required")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(amount),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}
