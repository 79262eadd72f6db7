package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TusharSh06/Techgather/internal/domain"
)

func seedPayment(t *testing.T, userID, eventID string) *domain.Payment {
	t.Helper()
	p, err := domain.NewPayment(userID, eventID, "general", 2500, "usd", domain.PaymentMethodCreditCard)
	require.NoError(t, err)
	return p
}

func TestMemoryPaymentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := seedPayment(t, "user-1", "event-1")
		require.NoError(t, repo.Create(ctx, payment))

		got, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.ID, got.ID)
		assert.Equal(t, domain.PaymentStatusPending, got.Status)

		assert.ErrorIs(t, repo.Create(ctx, payment), domain.ErrPaymentExists)

		_, err = repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})

	t.Run("update", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := seedPayment(t, "user-1", "event-1")
		require.NoError(t, repo.Create(ctx, payment))

		require.NoError(t, payment.Complete("txn_1"))
		require.NoError(t, repo.Update(ctx, payment))

		got, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, got.Status)
		assert.Equal(t, "txn_1", got.TransactionID)

		missing := seedPayment(t, "user-9", "event-9")
		assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrPaymentNotFound)
	})

	t.Run("transition status is conditional", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := seedPayment(t, "user-1", "event-1")
		require.NoError(t, payment.Complete("txn_1"))
		require.NoError(t, repo.Create(ctx, payment))

		require.NoError(t, repo.TransitionStatus(ctx, payment.ID, domain.PaymentStatusCompleted, domain.PaymentStatusRefunding))

		got, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunding, got.Status)

		// The payment is no longer completed, so the same transition loses
		err = repo.TransitionStatus(ctx, payment.ID, domain.PaymentStatusCompleted, domain.PaymentStatusRefunding)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		err = repo.TransitionStatus(ctx, "nope", domain.PaymentStatusCompleted, domain.PaymentStatusRefunding)
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})

	t.Run("returned payments are isolated copies", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := seedPayment(t, "user-1", "event-1")
		require.NoError(t, payment.Complete("txn_1"))
		require.NoError(t, payment.MarkRefunded(payment.Amount, "requested_by_user"))
		require.NoError(t, repo.Create(ctx, payment))

		got, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		got.Refund.Reason = "mutated"

		again, err := repo.GetByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, "requested_by_user", again.Refund.Reason)
	})

	t.Run("lists by user and event", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		require.NoError(t, repo.Create(ctx, seedPayment(t, "user-1", "event-1")))
		require.NoError(t, repo.Create(ctx, seedPayment(t, "user-1", "event-2")))
		require.NoError(t, repo.Create(ctx, seedPayment(t, "user-2", "event-1")))

		byUser, err := repo.GetByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, byUser, 2)

		byEvent, err := repo.GetByEvent(ctx, "event-1")
		require.NoError(t, err)
		assert.Len(t, byEvent, 2)

		none, err := repo.GetByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
