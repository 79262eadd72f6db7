package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/gateway"
	"github.com/TusharSh06/Techgather/internal/repository"
	"github.com/TusharSh06/Techgather/internal/service"
)

type paymentHandlerFixture struct {
	events   *repository.MemoryEventRepository
	payments *repository.MemoryPaymentRepository
	gateway  *gateway.MockGateway
	service  service.PaymentService
	event    *domain.Event
}

func setupPaymentRouter(t *testing.T, userID, role string) (*gin.Engine, *paymentHandlerFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &paymentHandlerFixture{
		events:   repository.NewMemoryEventRepository(),
		payments: repository.NewMemoryPaymentRepository(),
		gateway:  gateway.NewMockGateway(&gateway.MockGatewayConfig{SuccessRate: 1.0}),
	}
	f.service = service.NewPaymentService(f.payments, f.events, f.gateway, nil, nil)

	eventSvc := service.NewEventService(f.events)
	event, err := eventSvc.CreateEvent(context.Background(), "organizer-1", createEventBody())
	require.NoError(t, err)
	f.event = event

	h := NewPaymentHandler(f.service)
	router := gin.New()
	router.Use(identityAs(userID, role))

	router.POST("/events/:id/purchase", h.PurchaseTicket)
	router.GET("/events/:id/payments", h.ListEventPayments)
	payments := router.Group("/payments")
	{
		payments.GET("", h.ListMyPayments)
		payments.GET("/:id", h.GetPayment)
		payments.POST("/:id/refund", h.RefundPayment)
	}
	return router, f
}

func TestPaymentHandler_PurchaseTicket(t *testing.T) {
	t.Run("purchases", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)

		w := doJSON(t, router, http.MethodPost, "/events/"+f.event.ID+"/purchase",
			gin.H{"ticket_type": "general", "method": "credit_card"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"completed"`)
	})

	t.Run("declined charge", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)
		f.gateway.SetSuccessRate(0.0)

		w := doJSON(t, router, http.MethodPost, "/events/"+f.event.ID+"/purchase",
			gin.H{"ticket_type": "general", "method": "credit_card"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "PAYMENT_DECLINED")
	})

	t.Run("unknown ticket type", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)

		w := doJSON(t, router, http.MethodPost, "/events/"+f.event.ID+"/purchase",
			gin.H{"ticket_type": "platinum", "method": "credit_card"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing body fields", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)

		w := doJSON(t, router, http.MethodPost, "/events/"+f.event.ID+"/purchase", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "", "")

		w := doJSON(t, router, http.MethodPost, "/events/"+f.event.ID+"/purchase",
			gin.H{"ticket_type": "general", "method": "credit_card"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func purchaseBody() *dto.PurchaseTicketRequest {
	return &dto.PurchaseTicketRequest{
		TicketType: "general",
		Method:     domain.PaymentMethodCreditCard,
	}
}

func TestPaymentHandler_RefundPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds without a body", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)
		payment, err := f.service.PurchaseTicket(ctx, "buyer-1", f.event.ID, purchaseBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/payments/"+payment.ID+"/refund", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"refunded"`)
	})

	t.Run("second refund conflicts", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)
		payment, err := f.service.PurchaseTicket(ctx, "buyer-1", f.event.ID, purchaseBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/payments/"+payment.ID+"/refund", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodPost, "/payments/"+payment.ID+"/refund", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_REFUNDABLE")
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "stranger", service.RoleUser)
		payment, err := f.service.PurchaseTicket(ctx, "buyer-1", f.event.ID, purchaseBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/payments/"+payment.ID+"/refund", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPaymentHandler_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("my payments", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "buyer-1", service.RoleUser)
		_, err := f.service.PurchaseTicket(ctx, "buyer-1", f.event.ID, purchaseBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodGet, "/payments", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("event payments forbidden for strangers", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "stranger", service.RoleUser)

		w := doJSON(t, router, http.MethodGet, "/events/"+f.event.ID+"/payments", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("event payments for the organizer", func(t *testing.T) {
		router, f := setupPaymentRouter(t, "organizer-1", service.RoleOrganizer)

		w := doJSON(t, router, http.MethodGet, "/events/"+f.event.ID+"/payments", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown payment", func(t *testing.T) {
		router, _ := setupPaymentRouter(t, "buyer-1", service.RoleUser)

		w := doJSON(t, router, http.MethodGet, "/payments/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
