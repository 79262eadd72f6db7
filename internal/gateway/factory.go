package gateway

import (
	"fmt"
	"strings"
)

// GatewayType represents the type of payment gateway
type GatewayType string

const (
	GatewayTypeMock   GatewayType = "mock"
	GatewayTypeStripe GatewayType = "stripe"
)

// NewPaymentGateway creates a payment gateway based on the configured type
func NewPaymentGateway(cfg *Config) (PaymentGateway, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	switch GatewayType(strings.ToLower(cfg.Type)) {
	case GatewayTypeMock, "":
		mockCfg := DefaultMockGatewayConfig()
		if cfg.MockSuccessRate > 0 {
			mockCfg.SuccessRate = cfg.MockSuccessRate
		}
		if cfg.MockDelayMs > 0 {
			mockCfg.DelayMs = cfg.MockDelayMs
		}
		return NewMockGateway(mockCfg), nil

	case GatewayTypeStripe:
		if cfg.SecretKey == "" {
			return nil, fmt.Errorf("stripe secret key is required")
		}
		return NewStripeGateway(&StripeGatewayConfig{
			SecretKey:   cfg.SecretKey,
			Environment: cfg.Environment,
		})

	default:
		return nil, fmt.Errorf("unsupported gateway type: %s", cfg.Type)
	}
}
