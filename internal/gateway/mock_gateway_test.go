package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_Charge(t *testing.T) {
	ctx := context.Background()

	t.Run("always succeeds at rate 1.0", func(t *testing.T) {
		g := NewMockGateway(&MockGatewayConfig{SuccessRate: 1.0})

		resp, err := g.Charge(ctx, &ChargeRequest{
			PaymentID: "pay-1",
			Amount:    2500,
			Currency:  "usd",
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "completed", resp.Status)
		assert.NotEmpty(t, resp.TransactionID)

		status, ok := g.TransactionStatus(resp.TransactionID)
		require.True(t, ok)
		assert.Equal(t, "completed", status)
	})

	t.Run("always declines at rate 0.0", func(t *testing.T) {
		g := NewMockGateway(&MockGatewayConfig{
			SuccessRate:    0.0,
			FailureReasons: []string{"card_declined"},
		})

		resp, err := g.Charge(ctx, &ChargeRequest{PaymentID: "pay-1", Amount: 2500})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "card_declined", resp.FailureReason)

		// Declined charges leave no transaction behind
		_, ok := g.TransactionStatus(resp.TransactionID)
		assert.False(t, ok)
	})

	t.Run("nil request", func(t *testing.T) {
		g := NewMockGateway(nil)
		_, err := g.Charge(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("honors cancelled context during delay", func(t *testing.T) {
		g := NewMockGateway(&MockGatewayConfig{SuccessRate: 1.0, DelayMs: 5000})
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := g.Charge(cancelled, &ChargeRequest{PaymentID: "pay-1", Amount: 100})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMockGateway_Refund(t *testing.T) {
	ctx := context.Background()
	g := NewMockGateway(&MockGatewayConfig{SuccessRate: 1.0})

	resp, err := g.Charge(ctx, &ChargeRequest{PaymentID: "pay-1", Amount: 2500, Currency: "usd"})
	require.NoError(t, err)

	t.Run("marks transaction refunded", func(t *testing.T) {
		require.NoError(t, g.Refund(ctx, resp.TransactionID, 2500))

		status, ok := g.TransactionStatus(resp.TransactionID)
		require.True(t, ok)
		assert.Equal(t, "refunded", status)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		assert.Error(t, g.Refund(ctx, "mock_txn_missing", 2500))
	})

	t.Run("empty transaction id", func(t *testing.T) {
		assert.Error(t, g.Refund(ctx, "", 2500))
	})
}

func TestMockGateway_SetSuccessRate(t *testing.T) {
	g := NewMockGateway(&MockGatewayConfig{
		SuccessRate:    1.0,
		FailureReasons: []string{"card_declined"},
	})
	g.SetSuccessRate(0.0)

	resp, err := g.Charge(context.Background(), &ChargeRequest{PaymentID: "pay-1", Amount: 100})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}
