package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/gateway"
	"github.com/TusharSh06/Techgather/internal/repository"
	"github.com/TusharSh06/Techgather/pkg/logger"
	"github.com/TusharSh06/Techgather/pkg/retry"
)

// PaymentService defines the interface for paid ticket purchases and refunds
type PaymentService interface {
	// PurchaseTicket charges the caller for a ticket and registers them for
	// the event. The gateway call happens outside the event's exclusive
	// section; if the ticket sells out in between, the charge is refunded
	// and ErrInventoryConflict is returned.
	PurchaseTicket(ctx context.Context, userID, eventID string, req *dto.PurchaseTicketRequest) (*domain.Payment, error)

	// RefundPayment refunds a completed payment and cancels the matching
	// registration. Only the payer or an admin may refund.
	RefundPayment(ctx context.Context, actor Actor, paymentID string, req *dto.RefundPaymentRequest) (*domain.Payment, error)

	// GetPayment retrieves a payment visible to the actor
	GetPayment(ctx context.Context, actor Actor, paymentID string) (*domain.Payment, error)

	// GetUserPayments retrieves all payments made by a user
	GetUserPayments(ctx context.Context, userID string) ([]*domain.Payment, error)

	// GetEventPayments retrieves all payments for an event. Only the event
	// organizer or an admin may list them.
	GetEventPayments(ctx context.Context, actor Actor, eventID string) ([]*domain.Payment, error)
}

// PaymentServiceConfig holds configuration for the payment service
type PaymentServiceConfig struct {
	// Currency used when the request does not specify one
	Currency string

	// ChargeTimeout bounds a single gateway charge attempt
	ChargeTimeout time.Duration

	// Retry policy for transient gateway failures
	Retry *retry.Config
}

type paymentServiceImpl struct {
	payments  repository.PaymentRepository
	events    repository.EventRepository
	gateway   gateway.PaymentGateway
	publisher EventPublisher
	config    *PaymentServiceConfig
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments repository.PaymentRepository,
	events repository.EventRepository,
	gw gateway.PaymentGateway,
	publisher EventPublisher,
	config *PaymentServiceConfig,
) PaymentService {
	if config == nil {
		config = &PaymentServiceConfig{}
	}
	if config.Currency == "" {
		config.Currency = "usd"
	}
	if config.ChargeTimeout == 0 {
		config.ChargeTimeout = 30 * time.Second
	}
	if config.Retry == nil {
		config.Retry = &retry.Config{
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.1,
		}
	}
	if publisher == nil {
		publisher = NewNoopPublisher()
	}
	return &paymentServiceImpl{
		payments:  payments,
		events:    events,
		gateway:   gw,
		publisher: publisher,
		config:    config,
	}
}

// PurchaseTicket charges the caller and registers them for the event
func (s *paymentServiceImpl) PurchaseTicket(ctx context.Context, userID, eventID string, req *dto.PurchaseTicketRequest) (*domain.Payment, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	// Precheck on a snapshot. The authoritative checks run again inside the
	// exclusive section after the charge, but failing fast here avoids
	// charging users who cannot possibly be registered.
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ticket := event.TicketType(req.TicketType)
	if ticket == nil {
		return nil, domain.ErrTicketTypeNotFound
	}
	if ticket.Available() <= 0 {
		return nil, domain.ErrSoldOut
	}
	if event.ActiveAttendeeCount() >= event.Capacity {
		return nil, domain.ErrSoldOut
	}
	if a := event.Attendee(userID); a != nil && a.Status != domain.AttendeeStatusCancelled {
		return nil, domain.ErrAlreadyRegistered
	}
	if event.IsWaitlisted(userID) {
		return nil, domain.ErrAlreadyRegistered
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.Currency
	}

	payment, err := domain.NewPayment(userID, eventID, req.TicketType, ticket.Price, currency, req.Method)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	// Charge outside the event's exclusive section so gateway latency never
	// blocks other registrations.
	chargeResp, err := s.charge(ctx, payment)
	if err != nil {
		s.failPayment(ctx, payment, err.Error())
		return nil, domain.ErrPaymentDeclined
	}
	if !chargeResp.Success {
		s.failPayment(ctx, payment, chargeResp.FailureReason)
		return nil, domain.ErrPaymentDeclined
	}

	if err := payment.Complete(chargeResp.TransactionID); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	// A paid registration must admit immediately. Waitlisting here means
	// the inventory moved while the charge was in flight, so the whole
	// purchase is unwound.
	_, err = s.events.Update(ctx, eventID, func(event *domain.Event) error {
		outcome, err := event.RegisterAttendee(userID, req.TicketType)
		if err != nil {
			return err
		}
		if outcome != domain.OutcomeRegistered {
			return domain.ErrInventoryConflict
		}
		return nil
	})
	if err != nil {
		s.compensate(ctx, payment, err)
		if errors.Is(err, domain.ErrSoldOut) {
			return nil, domain.ErrInventoryConflict
		}
		return nil, err
	}

	s.publish(ctx, &DomainEvent{
		EventType:  "payment.completed",
		EventID:    eventID,
		UserID:     userID,
		TicketType: req.TicketType,
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
	})

	return payment, nil
}

// RefundPayment refunds a completed payment and cancels the registration
func (s *paymentServiceImpl) RefundPayment(ctx context.Context, actor Actor, paymentID string, req *dto.RefundPaymentRequest) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != payment.UserID {
		return nil, domain.ErrNotAuthorized
	}
	if !payment.IsRefundable() {
		return nil, domain.ErrNotRefundable
	}

	// Claim the refund before calling the gateway. The conditional transition
	// resolves concurrent requests for the same payment to a single winner, so
	// the gateway is never asked to refund the same charge twice.
	err = s.payments.TransitionStatus(ctx, payment.ID, domain.PaymentStatusCompleted, domain.PaymentStatusRefunding)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			return nil, domain.ErrNotRefundable
		}
		return nil, err
	}
	payment.Status = domain.PaymentStatusRefunding

	if err := s.refund(ctx, payment); err != nil {
		s.releaseRefundClaim(ctx, payment)
		return nil, domain.ErrRefundDeclined
	}

	reason := req.Reason
	if reason == "" {
		reason = "requested_by_user"
	}
	if err := payment.MarkRefunded(payment.Amount, reason); err != nil {
		return nil, err
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	// Free the seat. The attendee may have cancelled on their own already;
	// the refund stands either way.
	_, err = s.events.Update(ctx, payment.EventID, func(event *domain.Event) error {
		_, err := event.CancelRegistration(payment.UserID)
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil
		}
		return err
	})
	if err != nil && !errors.Is(err, domain.ErrEventNotFound) {
		return nil, err
	}

	s.publish(ctx, &DomainEvent{
		EventType:  "payment.refunded",
		EventID:    payment.EventID,
		UserID:     payment.UserID,
		TicketType: payment.TicketType,
		PaymentID:  payment.ID,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
	})

	return payment, nil
}

// GetPayment retrieves a payment visible to the actor
func (s *paymentServiceImpl) GetPayment(ctx context.Context, actor Actor, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != payment.UserID {
		return nil, domain.ErrNotAuthorized
	}
	return payment, nil
}

// GetUserPayments retrieves all payments made by a user
func (s *paymentServiceImpl) GetUserPayments(ctx context.Context, userID string) ([]*domain.Payment, error) {
	return s.payments.GetByUser(ctx, userID)
}

// GetEventPayments retrieves all payments for an event
func (s *paymentServiceImpl) GetEventPayments(ctx context.Context, actor Actor, eventID string) ([]*domain.Payment, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrganizer(actor, event); err != nil {
		return nil, err
	}
	return s.payments.GetByEvent(ctx, eventID)
}

// charge runs the gateway charge with bounded retries. Gateway declines are
// permanent; only transport errors retry.
func (s *paymentServiceImpl) charge(ctx context.Context, payment *domain.Payment) (*gateway.ChargeResponse, error) {
	var resp *gateway.ChargeResponse

	result := retry.Do(ctx, s.config.Retry, func(ctx context.Context) error {
		chargeCtx, cancel := context.WithTimeout(ctx, s.config.ChargeTimeout)
		defer cancel()

		r, err := s.gateway.Charge(chargeCtx, &gateway.ChargeRequest{
			PaymentID: payment.ID,
			Amount:    payment.Amount,
			Currency:  payment.Currency,
			Method:    string(payment.Method),
			Metadata: map[string]string{
				"event_id":    payment.EventID,
				"ticket_type": payment.TicketType,
				"user_id":     payment.UserID,
			},
		})
		if err != nil {
			return err
		}
		if !r.Success {
			resp = r
			return retry.Permanent(errors.New(r.FailureReason))
		}
		resp = r
		return nil
	})

	if result.Err != nil && resp == nil {
		return nil, result.Err
	}
	return resp, nil
}

// releaseRefundClaim returns a claimed payment to completed after the gateway
// declined the refund
func (s *paymentServiceImpl) releaseRefundClaim(ctx context.Context, payment *domain.Payment) {
	err := s.payments.TransitionStatus(ctx, payment.ID, domain.PaymentStatusRefunding, domain.PaymentStatusCompleted)
	if err != nil {
		logger.Get().Error("failed to release refund claim",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return
	}
	payment.Status = domain.PaymentStatusCompleted
}

// refund runs the gateway refund with bounded retries
func (s *paymentServiceImpl) refund(ctx context.Context, payment *domain.Payment) error {
	result := retry.Do(ctx, s.config.Retry, func(ctx context.Context) error {
		refundCtx, cancel := context.WithTimeout(ctx, s.config.ChargeTimeout)
		defer cancel()
		return s.gateway.Refund(refundCtx, payment.TransactionID, payment.Amount)
	})
	return result.Err
}

// failPayment records a declined charge
func (s *paymentServiceImpl) failPayment(ctx context.Context, payment *domain.Payment, reason string) {
	if err := payment.Fail(reason); err != nil {
		return
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		logger.Get().Error("failed to record declined payment",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}
}

// compensate refunds a completed charge whose registration could not be
// admitted
func (s *paymentServiceImpl) compensate(ctx context.Context, payment *domain.Payment, cause error) {
	log := logger.Get()
	log.Warn("registration failed after charge, refunding",
		zap.String("payment_id", payment.ID),
		zap.String("event_id", payment.EventID),
		zap.Error(cause),
	)

	if err := s.refund(ctx, payment); err != nil {
		// The refund itself failed; the payment stays completed so an
		// operator can reconcile it manually.
		log.Error("compensating refund failed",
			zap.String("payment_id", payment.ID),
			zap.String("transaction_id", payment.TransactionID),
			zap.Error(err),
		)
		return
	}

	if err := payment.MarkRefunded(payment.Amount, "inventory_conflict"); err != nil {
		log.Error("failed to mark compensating refund",
			zap.String("payment_id", payment.ID),
			zap.String("transaction_id", payment.TransactionID),
			zap.Error(err),
		)
		return
	}
	if err := s.payments.Update(ctx, payment); err != nil {
		log.Error("failed to record compensating refund",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}
}

func (s *paymentServiceImpl) publish(ctx context.Context, event *DomainEvent) {
	if err := s.publisher.Publish(ctx, TopicPayment, event); err != nil {
		logger.Get().Warn("failed to publish payment event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
