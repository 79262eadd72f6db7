package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/service"
	"github.com/TusharSh06/Techgather/pkg/response"
	"github.com/TusharSh06/Techgather/pkg/telemetry"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	events       service.EventService
	registration service.RegistrationService
	reviews      service.ReviewService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events service.EventService, registration service.RegistrationService, reviews service.ReviewService) *EventHandler {
	return &EventHandler{
		events:       events,
		registration: registration,
		reviews:      reviews,
	}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.CreateEvent(ctx, actor.UserID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("event_id", event.ID))
	response.Created(c, dto.FromEvent(event))
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	event, err := h.events.GetEvent(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromEvent(event))
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	events, total, err := h.events.ListEvents(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	out := make([]*dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.FromEvent(e))
	}
	response.Success(c, &dto.EventListResponse{
		Events:   out,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// UpdateEvent handles PATCH /events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.UpdateEvent(ctx, actor, c.Param("id"), &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromEvent(event))
}

// UpdateEventStatus handles PUT /events/:id/status
func (h *EventHandler) UpdateEventStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.UpdateEventStatus(ctx, actor, c.Param("id"), req.Status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, dto.FromEvent(event))
}

// DeleteEvent handles DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.events.DeleteEvent(ctx, actor, c.Param("id")); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// Register handles POST /events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("event_id", c.Param("id")),
		attribute.String("ticket_type", req.TicketType),
	)

	result, err := h.registration.Register(ctx, c.Param("id"), actor.UserID, req.TicketType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("outcome", result.Outcome))
	response.Created(c, result)
}

// CancelRegistration handles DELETE /events/:id/register
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.cancel_registration")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.registration.Cancel(ctx, c.Param("id"), actor.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// CheckIn handles POST /events/:id/checkin/:userId
func (h *EventHandler) CheckIn(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.checkin")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.registration.CheckIn(ctx, actor, c.Param("id"), c.Param("userId"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// SubmitReview handles POST /events/:id/reviews
func (h *EventHandler) SubmitReview(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.submit_review")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviews.SubmitReview(ctx, c.Param("id"), actor.UserID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Created(c, result)
}

// ListReviews handles GET /events/:id/reviews
func (h *EventHandler) ListReviews(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list_reviews")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.reviews.ListReviews(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// requireActor pulls the authenticated identity from the gin context
func requireActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "authentication required")
		return service.Actor{}, false
	}
	return service.Actor{
		UserID: userID,
		Role:   c.GetString("role"),
	}, true
}

// handleError maps domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		response.Conflict(c, "ALREADY_REGISTERED", err.Error())
	case errors.Is(err, domain.ErrSoldOut):
		response.Conflict(c, "SOLD_OUT", err.Error())
	case errors.Is(err, domain.ErrInventoryConflict):
		response.Conflict(c, "INVENTORY_CONFLICT", err.Error())
	case errors.Is(err, domain.ErrAlreadyReviewed):
		response.Conflict(c, "ALREADY_REVIEWED", err.Error())
	case errors.Is(err, domain.ErrEventExists), errors.Is(err, domain.ErrPaymentExists):
		response.Conflict(c, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, domain.ErrNotEligible):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrPaymentDeclined):
		response.UnprocessableEntity(c, "PAYMENT_DECLINED", err.Error())
	case errors.Is(err, domain.ErrRefundDeclined):
		response.UnprocessableEntity(c, "REFUND_DECLINED", err.Error())
	case errors.Is(err, domain.ErrNotRefundable):
		response.Conflict(c, "NOT_REFUNDABLE", err.Error())
	case errors.Is(err, domain.ErrNotRegistered):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
