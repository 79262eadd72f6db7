package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/repository"
)

type registrationFixture struct {
	repo      *repository.MemoryEventRepository
	publisher *capturePublisher
	service   RegistrationService
	event     *domain.Event
}

func newRegistrationFixture(t *testing.T, capacity int, tickets ...domain.TicketType) *registrationFixture {
	t.Helper()
	if len(tickets) == 0 {
		tickets = []domain.TicketType{{Name: "general", Price: 2500, Quantity: capacity}}
	}

	f := &registrationFixture{
		repo:      repository.NewMemoryEventRepository(),
		publisher: &capturePublisher{},
	}
	f.service = NewRegistrationService(f.repo, f.publisher)

	start := time.Now().Add(24 * time.Hour)
	event, err := domain.NewEvent("organizer-1", "Go Conf", "annual conference", "tech", "Berlin",
		start, start.Add(8*time.Hour), capacity, tickets)
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), event))
	f.event = event
	return f
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers into open capacity", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)

		resp, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)
		assert.Equal(t, string(domain.OutcomeRegistered), resp.Outcome)
		assert.Zero(t, resp.Position)

		assert.Contains(t, f.publisher.types(), "registration.registered")
	})

	t.Run("waitlists when sold out with position", func(t *testing.T) {
		f := newRegistrationFixture(t, 1)

		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)

		resp, err := f.service.Register(ctx, f.event.ID, "user-2", "general")
		require.NoError(t, err)
		assert.Equal(t, string(domain.OutcomeWaitlisted), resp.Outcome)
		assert.Equal(t, 1, resp.Position)

		resp, err = f.service.Register(ctx, f.event.ID, "user-3", "general")
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Position)

		assert.Contains(t, f.publisher.types(), "registration.waitlisted")
	})

	t.Run("duplicate registration", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)

		_, err = f.service.Register(ctx, f.event.ID, "user-1", "general")
		assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})

	t.Run("unknown ticket type", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "platinum")
		assert.ErrorIs(t, err, domain.ErrTicketTypeNotFound)
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, "nope", "user-1", "general")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "", "general")
		assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	})
}

func TestRegistrationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel promotes the waitlist head", func(t *testing.T) {
		f := newRegistrationFixture(t, 1)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)
		_, err = f.service.Register(ctx, f.event.ID, "user-2", "general")
		require.NoError(t, err)

		resp, err := f.service.Cancel(ctx, f.event.ID, "user-1")
		require.NoError(t, err)
		require.Len(t, resp.Promoted, 1)
		assert.Equal(t, "user-2", resp.Promoted[0].UserID)

		event, err := f.repo.GetByID(ctx, f.event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeeStatusRegistered, event.Attendee("user-2").Status)
		assert.Empty(t, event.Waitlist)

		types := f.publisher.types()
		assert.Contains(t, types, "registration.cancelled")
		assert.Contains(t, types, "registration.promoted")
	})

	t.Run("cancel a waitlist slot frees no inventory", func(t *testing.T) {
		f := newRegistrationFixture(t, 1)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)
		_, err = f.service.Register(ctx, f.event.ID, "user-2", "general")
		require.NoError(t, err)

		resp, err := f.service.Cancel(ctx, f.event.ID, "user-2")
		require.NoError(t, err)
		assert.Empty(t, resp.Promoted)

		event, err := f.repo.GetByID(ctx, f.event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, event.Tickets[0].Sold)
		assert.Empty(t, event.Waitlist)
	})

	t.Run("cancel without registration", func(t *testing.T) {
		f := newRegistrationFixture(t, 1)
		_, err := f.service.Cancel(ctx, f.event.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrNotRegistered)
	})
}

func TestRegistrationService_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer checks in an attendee", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)

		resp, err := f.service.CheckIn(ctx, Actor{UserID: "organizer-1", Role: RoleOrganizer}, f.event.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, string(domain.AttendeeStatusAttended), resp.Status)

		event, err := f.repo.GetByID(ctx, f.event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.AttendeeStatusAttended, event.Attendee("user-1").Status)

		assert.Contains(t, f.publisher.types(), "registration.attended")
	})

	t.Run("non-organizer cannot check in", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)

		_, err = f.service.CheckIn(ctx, Actor{UserID: "user-2", Role: RoleUser}, f.event.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("admin may check in", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.Register(ctx, f.event.ID, "user-1", "general")
		require.NoError(t, err)

		_, err = f.service.CheckIn(ctx, Actor{UserID: "ops-1", Role: RoleAdmin}, f.event.ID, "user-1")
		require.NoError(t, err)
	})

	t.Run("cannot check in an unregistered user", func(t *testing.T) {
		f := newRegistrationFixture(t, 2)
		_, err := f.service.CheckIn(ctx, Actor{UserID: "organizer-1", Role: RoleOrganizer}, f.event.ID, "user-9")
		assert.ErrorIs(t, err, domain.ErrNotRegistered)
	})
}
