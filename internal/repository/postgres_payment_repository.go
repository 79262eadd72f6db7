package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/pkg/database"
)

// PostgreSQL error code for unique violation
const pgUniqueViolationCode = "23505"

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *database.PostgresDB
}

// NewPostgresPaymentRepository creates a new PostgreSQL payment repository
func NewPostgresPaymentRepository(db *database.PostgresDB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// selectPaymentColumns defines the columns to select for payment queries
const selectPaymentColumns = `
	id, user_id, event_id, ticket_type, amount, currency, method, status,
	transaction_id, failure_reason, refund_amount, refund_reason, refunded_at,
	created_at, updated_at
`

// Create creates a new payment record
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, user_id, event_id, ticket_type, amount, currency, method, status,
			transaction_id, failure_reason, refund_amount, refund_reason, refunded_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	refundAmount, refundReason, refundedAt := refundColumns(payment)

	_, err := r.db.Pool().Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.EventID,
		payment.TicketType,
		payment.Amount,
		payment.Currency,
		string(payment.Method),
		string(payment.Status),
		nullString(payment.TransactionID),
		nullString(payment.FailureReason),
		refundAmount,
		refundReason,
		refundedAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return domain.ErrPaymentExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.db.Pool().QueryRow(ctx, query, id))
}

// GetByUser retrieves all payments made by a user, newest first
func (r *PostgresPaymentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, userID)
}

// GetByEvent retrieves all payments for an event, newest first
func (r *PostgresPaymentRepository) GetByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE event_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, eventID)
}

// Update replaces an existing payment record
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $3, failure_reason = $4,
		    refund_amount = $5, refund_reason = $6, refunded_at = $7, updated_at = $8
		WHERE id = $1`

	refundAmount, refundReason, refundedAt := refundColumns(payment)

	tag, err := r.db.Pool().Exec(ctx, query,
		payment.ID,
		string(payment.Status),
		nullString(payment.TransactionID),
		nullString(payment.FailureReason),
		refundAmount,
		refundReason,
		refundedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// TransitionStatus atomically moves a payment from one status to another.
// The WHERE clause guards the expected status so concurrent transitions
// resolve to a single winner.
func (r *PostgresPaymentRepository) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`

	tag, err := r.db.Pool().Exec(ctx, query, id, string(to), time.Now().UTC(), string(from))
	if err != nil {
		return fmt.Errorf("failed to transition payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing payment from a lost race
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidStatus
	}
	return nil
}

func (r *PostgresPaymentRepository) queryPayments(ctx context.Context, query string, arg any) ([]*domain.Payment, error) {
	rows, err := r.db.Pool().Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var method, status string
	var transactionID, failureReason, refundReason *string
	var refundAmount *int64
	var refundedAt *time.Time

	err := row.Scan(
		&p.ID, &p.UserID, &p.EventID, &p.TicketType, &p.Amount, &p.Currency,
		&method, &status, &transactionID, &failureReason,
		&refundAmount, &refundReason, &refundedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	if transactionID != nil {
		p.TransactionID = *transactionID
	}
	if failureReason != nil {
		p.FailureReason = *failureReason
	}
	if refundAmount != nil && refundedAt != nil {
		p.Refund = &domain.Refund{
			Amount:      *refundAmount,
			ProcessedAt: *refundedAt,
		}
		if refundReason != nil {
			p.Refund.Reason = *refundReason
		}
	}
	return &p, nil
}

func refundColumns(p *domain.Payment) (*int64, *string, *time.Time) {
	if p.Refund == nil {
		return nil, nil, nil
	}
	return &p.Refund.Amount, nullString(p.Refund.Reason), &p.Refund.ProcessedAt
}

// nullString returns nil if string is empty, otherwise returns pointer to string
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
