package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockGateway implements PaymentGateway for testing and development
type MockGateway struct {
	config       *MockGatewayConfig
	transactions sync.Map
	mu           sync.RWMutex
}

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// SuccessRate is the probability of successful payment (0.0 to 1.0)
	SuccessRate float64

	// DelayMs is the simulated processing delay in milliseconds
	DelayMs int

	// FailureReasons is a list of possible failure reasons
	FailureReasons []string
}

// DefaultMockGatewayConfig returns default configuration
func DefaultMockGatewayConfig() *MockGatewayConfig {
	return &MockGatewayConfig{
		SuccessRate: 0.95,
		DelayMs:     50,
		FailureReasons: []string{
			"insufficient_funds",
			"card_declined",
			"expired_card",
			"processing_error",
		},
	}
}

// mockTransaction tracks a charge accepted by the mock gateway
type mockTransaction struct {
	TransactionID string
	Status        string
	Amount        int64
	Currency      string
	CreatedAt     time.Time
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config *MockGatewayConfig) *MockGateway {
	if config == nil {
		config = DefaultMockGatewayConfig()
	}
	if config.SuccessRate < 0 {
		config.SuccessRate = 0
	}
	if config.SuccessRate > 1 {
		config.SuccessRate = 1
	}
	if len(config.FailureReasons) == 0 {
		config.FailureReasons = DefaultMockGatewayConfig().FailureReasons
	}
	return &MockGateway{config: config}
}

// Charge processes a mock payment charge
func (g *MockGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("charge request is required")
	}

	if g.config.DelayMs > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(g.config.DelayMs) * time.Millisecond):
		}
	}

	transactionID := fmt.Sprintf("mock_txn_%s", uuid.New().String()[:8])

	g.mu.RLock()
	successRate := g.config.SuccessRate
	g.mu.RUnlock()

	resp := &ChargeResponse{TransactionID: transactionID}

	if rand.Float64() < successRate {
		resp.Success = true
		resp.Status = "completed"
		g.transactions.Store(transactionID, &mockTransaction{
			TransactionID: transactionID,
			Status:        "completed",
			Amount:        req.Amount,
			Currency:      req.Currency,
			CreatedAt:     time.Now(),
		})
	} else {
		resp.Success = false
		resp.Status = "failed"
		idx := rand.Intn(len(g.config.FailureReasons))
		resp.FailureReason = g.config.FailureReasons[idx]
		resp.FailureCode = resp.FailureReason
	}

	return resp, nil
}

// Refund processes a mock refund
func (g *MockGateway) Refund(ctx context.Context, transactionID string, amount int64) error {
	if transactionID == "" {
		return fmt.Errorf("transaction ID is required")
	}

	if g.config.DelayMs > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(g.config.DelayMs) * time.Millisecond):
		}
	}

	txn, ok := g.transactions.Load(transactionID)
	if !ok {
		return fmt.Errorf("transaction not found: %s", transactionID)
	}

	info := txn.(*mockTransaction)
	info.Status = "refunded"
	g.transactions.Store(transactionID, info)

	return nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// SetSuccessRate updates the success rate (for testing)
func (g *MockGateway) SetSuccessRate(rate float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	g.config.SuccessRate = rate
}

// TransactionStatus reports the status the mock gateway recorded for a
// transaction (for testing)
func (g *MockGateway) TransactionStatus(transactionID string) (string, bool) {
	txn, ok := g.transactions.Load(transactionID)
	if !ok {
		return "", false
	}
	return txn.(*mockTransaction).Status, true
}
