package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/service"
	"github.com/TusharSh06/Techgather/pkg/response"
	"github.com/TusharSh06/Techgather/pkg/telemetry"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	payments service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// PurchaseTicket handles POST /events/:id/purchase
func (h *PaymentHandler) PurchaseTicket(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.purchase")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("event_id", c.Param("id")),
		attribute.String("ticket_type", req.TicketType),
		attribute.String("method", string(req.Method)),
	)

	payment, err := h.payments.PurchaseTicket(ctx, actor.UserID, c.Param("id"), &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("payment_id", payment.ID))
	response.Created(c, dto.FromPayment(payment))
}

// RefundPayment handles POST /payments/:id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.refund")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("payment_id", c.Param("id")))

	payment, err := h.payments.RefundPayment(ctx, actor, c.Param("id"), &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromPayment(payment))
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(ctx, actor, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromPayment(payment))
}

// ListMyPayments handles GET /payments
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.list_mine")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	payments, err := h.payments.GetUserPayments(ctx, actor.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromPayments(payments))
}

// ListEventPayments handles GET /events/:id/payments
func (h *PaymentHandler) ListEventPayments(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.list_event")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	payments, err := h.payments.GetEventPayments(ctx, actor, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromPayments(payments))
}
