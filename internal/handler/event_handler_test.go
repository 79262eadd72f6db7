package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/repository"
	"github.com/TusharSh06/Techgather/internal/service"
)

// identityAs injects an authenticated identity the way the auth middleware does
func identityAs(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("role", role)
		}
		c.Next()
	}
}

type eventHandlerFixture struct {
	repo   *repository.MemoryEventRepository
	events service.EventService
}

func setupEventRouter(t *testing.T, userID, role string) (*gin.Engine, *eventHandlerFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &eventHandlerFixture{repo: repository.NewMemoryEventRepository()}
	f.events = service.NewEventService(f.repo)
	h := NewEventHandler(
		f.events,
		service.NewRegistrationService(f.repo, nil),
		service.NewReviewService(f.repo),
	)

	router := gin.New()
	router.Use(identityAs(userID, role))

	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/reviews", h.ListReviews)
		events.POST("", h.CreateEvent)
		events.PATCH("/:id", h.UpdateEvent)
		events.PUT("/:id/status", h.UpdateEventStatus)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/:id/register", h.Register)
		events.DELETE("/:id/register", h.CancelRegistration)
		events.POST("/:id/checkin/:userId", h.CheckIn)
		events.POST("/:id/reviews", h.SubmitReview)
	}
	return router, f
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createEventBody() *dto.CreateEventRequest {
	start := time.Now().Add(24 * time.Hour)
	return &dto.CreateEventRequest{
		Title:     "Go Conf",
		Category:  "tech",
		Location:  "Berlin",
		StartDate: start,
		EndDate:   start.Add(8 * time.Hour),
		Capacity:  100,
		Tickets:   []dto.TicketTypeRequest{{Name: "general", Price: 2500, Quantity: 100}},
	}
}

func TestEventHandler_CreateEvent(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, _ := setupEventRouter(t, "organizer-1", service.RoleOrganizer)

		w := doJSON(t, router, http.MethodPost, "/events", createEventBody())
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"draft"`)
	})

	t.Run("missing title", func(t *testing.T) {
		router, _ := setupEventRouter(t, "organizer-1", service.RoleOrganizer)
		body := createEventBody()
		body.Title = ""

		w := doJSON(t, router, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router, _ := setupEventRouter(t, "", "")

		w := doJSON(t, router, http.MethodPost, "/events", createEventBody())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEventHandler_GetEvent(t *testing.T) {
	router, f := setupEventRouter(t, "organizer-1", service.RoleOrganizer)
	event, err := f.events.CreateEvent(context.Background(), "organizer-1", createEventBody())
	require.NoError(t, err)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "existing event", id: event.ID, wantStatus: http.StatusOK},
		{name: "unknown event", id: "nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/events/"+tt.id, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestEventHandler_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer updates", func(t *testing.T) {
		router, f := setupEventRouter(t, "organizer-1", service.RoleOrganizer)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPatch, "/events/"+event.ID, gin.H{"title": "Go Conf Europe"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Go Conf Europe")
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		router, f := setupEventRouter(t, "stranger", service.RoleUser)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPatch, "/events/"+event.ID, gin.H{"title": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestEventHandler_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers", func(t *testing.T) {
		router, f := setupEventRouter(t, "user-1", service.RoleUser)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/register", gin.H{"ticket_type": "general"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"registered"`)
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		router, f := setupEventRouter(t, "user-1", service.RoleUser)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/register", gin.H{"ticket_type": "general"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/register", gin.H{"ticket_type": "general"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_REGISTERED")
	})

	t.Run("missing ticket type", func(t *testing.T) {
		router, f := setupEventRouter(t, "user-1", service.RoleUser)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/register", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cancel after register", func(t *testing.T) {
		router, f := setupEventRouter(t, "user-1", service.RoleUser)
		event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/register", gin.H{"ticket_type": "general"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/events/"+event.ID+"/register", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/events/"+event.ID+"/register", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventHandler_Reviews(t *testing.T) {
	ctx := context.Background()
	router, f := setupEventRouter(t, "user-1", service.RoleUser)
	event, err := f.events.CreateEvent(ctx, "organizer-1", createEventBody())
	require.NoError(t, err)

	// Register and check the user in so they are eligible to review
	reg := service.NewRegistrationService(f.repo, nil)
	_, err = reg.Register(ctx, event.ID, "user-1", "general")
	require.NoError(t, err)
	_, err = reg.CheckIn(ctx, service.Actor{UserID: "organizer-1", Role: service.RoleOrganizer}, event.ID, "user-1")
	require.NoError(t, err)

	t.Run("submit and list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/reviews", gin.H{"rating": 5, "comment": "great talks"})
		assert.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, router, http.MethodGet, "/events/"+event.ID+"/reviews", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"average_rating":5`)
	})

	t.Run("second review conflicts", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/reviews", gin.H{"rating": 4, "comment": "again"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_REVIEWED")
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/events/"+event.ID+"/reviews", gin.H{"rating": 6, "comment": "too good"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
