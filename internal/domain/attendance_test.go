package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAttendee(t *testing.T) {
	t.Run("admits while capacity remains", func(t *testing.T) {
		event := newTestEvent(t, 2)

		outcome, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		assert.Equal(t, OutcomeRegistered, outcome)
		assert.Equal(t, 1, event.Tickets[0].Sold)
		require.NotNil(t, event.Attendee("user-1"))
		assert.Equal(t, AttendeeStatusRegistered, event.Attendee("user-1").Status)
	})

	t.Run("waitlists when ticket type sold out", func(t *testing.T) {
		event := newTestEvent(t, 10,
			TicketType{Name: "vip", Price: 5000, Quantity: 1},
			TicketType{Name: "general", Price: 1000, Quantity: 9},
		)
		_, err := event.RegisterAttendee("user-1", "vip")
		require.NoError(t, err)

		outcome, err := event.RegisterAttendee("user-2", "vip")
		require.NoError(t, err)
		assert.Equal(t, OutcomeWaitlisted, outcome)
		assert.Equal(t, 1, event.Tickets[0].Sold)
		assert.True(t, event.IsWaitlisted("user-2"))
		assert.Nil(t, event.Attendee("user-2"))
	})

	t.Run("waitlists when event at capacity even if tickets remain", func(t *testing.T) {
		event := newTestEvent(t, 1, TicketType{Name: "general", Price: 1000, Quantity: 5})
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)

		outcome, err := event.RegisterAttendee("user-2", "general")
		require.NoError(t, err)
		assert.Equal(t, OutcomeWaitlisted, outcome)
		assert.Equal(t, 1, event.Tickets[0].Sold)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)

		_, err = event.RegisterAttendee("user-1", "general")
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("rejects registration while waitlisted", func(t *testing.T) {
		event := newTestEvent(t, 1)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("user-2", "general")
		require.NoError(t, err)

		_, err = event.RegisterAttendee("user-2", "general")
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("rejects unknown ticket type before waitlisting", func(t *testing.T) {
		event := newTestEvent(t, 1)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)

		_, err = event.RegisterAttendee("user-2", "platinum")
		assert.ErrorIs(t, err, ErrTicketTypeNotFound)
		assert.False(t, event.IsWaitlisted("user-2"))
	})

	t.Run("revives cancelled record on re-registration", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		_, err = event.CancelRegistration("user-1")
		require.NoError(t, err)

		outcome, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		assert.Equal(t, OutcomeRegistered, outcome)
		assert.Len(t, event.Attendees, 1)
		assert.Equal(t, AttendeeStatusRegistered, event.Attendees[0].Status)
	})
}

func TestCancelRegistration(t *testing.T) {
	t.Run("releases ticket and keeps cancelled record", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)

		promoted, err := event.CancelRegistration("user-1")
		require.NoError(t, err)
		assert.Empty(t, promoted)
		assert.Equal(t, 0, event.Tickets[0].Sold)
		require.NotNil(t, event.Attendee("user-1"))
		assert.Equal(t, AttendeeStatusCancelled, event.Attendee("user-1").Status)
	})

	t.Run("removes waitlist slot without touching inventory", func(t *testing.T) {
		event := newTestEvent(t, 1)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("user-2", "general")
		require.NoError(t, err)

		promoted, err := event.CancelRegistration("user-2")
		require.NoError(t, err)
		assert.Empty(t, promoted)
		assert.False(t, event.IsWaitlisted("user-2"))
		assert.Equal(t, 1, event.Tickets[0].Sold)
	})

	t.Run("unknown user", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.CancelRegistration("ghost")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		_, err = event.CancelRegistration("user-1")
		require.NoError(t, err)

		_, err = event.CancelRegistration("user-1")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})
}

func TestWaitlistPromotion(t *testing.T) {
	t.Run("promotes FIFO into freed capacity", func(t *testing.T) {
		event := newTestEvent(t, 2, TicketType{Name: "general", Price: 1000, Quantity: 2})
		for i := 1; i <= 4; i++ {
			_, err := event.RegisterAttendee(fmt.Sprintf("user-%d", i), "general")
			require.NoError(t, err)
		}
		// user-1, user-2 registered; user-3, user-4 waitlisted
		require.Len(t, event.Waitlist, 2)

		promoted, err := event.CancelRegistration("user-1")
		require.NoError(t, err)
		require.Len(t, promoted, 1)
		assert.Equal(t, "user-3", promoted[0].UserID)
		assert.Equal(t, AttendeeStatusRegistered, event.Attendee("user-3").Status)
		assert.True(t, event.IsWaitlisted("user-4"))
		assert.Equal(t, 2, event.Tickets[0].Sold)
	})

	t.Run("promotion stops when head's tier is sold out", func(t *testing.T) {
		event := newTestEvent(t, 3,
			TicketType{Name: "vip", Price: 5000, Quantity: 1},
			TicketType{Name: "general", Price: 1000, Quantity: 2},
		)
		_, err := event.RegisterAttendee("vip-holder", "vip")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("ga-1", "general")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("ga-2", "general")
		require.NoError(t, err)

		// Head wants vip (sold out tier even after a general cancel)
		_, err = event.RegisterAttendee("vip-waiter", "vip")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("ga-waiter", "general")
		require.NoError(t, err)

		promoted, err := event.CancelRegistration("ga-1")
		require.NoError(t, err)
		assert.Empty(t, promoted)
		assert.True(t, event.IsWaitlisted("vip-waiter"))
		assert.True(t, event.IsWaitlisted("ga-waiter"))
	})

	t.Run("vip cancel promotes vip waiter", func(t *testing.T) {
		event := newTestEvent(t, 2, TicketType{Name: "vip", Price: 5000, Quantity: 1},
			TicketType{Name: "general", Price: 1000, Quantity: 1})
		_, err := event.RegisterAttendee("vip-holder", "vip")
		require.NoError(t, err)
		_, err = event.RegisterAttendee("vip-waiter", "vip")
		require.NoError(t, err)

		promoted, err := event.CancelRegistration("vip-holder")
		require.NoError(t, err)
		require.Len(t, promoted, 1)
		assert.Equal(t, "vip-waiter", promoted[0].UserID)
		assert.Equal(t, 1, event.TicketType("vip").Sold)
	})
}

func TestCheckIn(t *testing.T) {
	t.Run("marks registered attendee attended", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)

		require.NoError(t, event.CheckIn("user-1"))
		assert.Equal(t, AttendeeStatusAttended, event.Attendee("user-1").Status)
	})

	t.Run("idempotent for attended", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		require.NoError(t, event.CheckIn("user-1"))

		assert.NoError(t, event.CheckIn("user-1"))
		assert.Equal(t, AttendeeStatusAttended, event.Attendee("user-1").Status)
	})

	t.Run("rejects unregistered and cancelled users", func(t *testing.T) {
		event := newTestEvent(t, 5)
		assert.ErrorIs(t, event.CheckIn("ghost"), ErrNotRegistered)

		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		_, err = event.CancelRegistration("user-1")
		require.NoError(t, err)
		assert.ErrorIs(t, event.CheckIn("user-1"), ErrNotRegistered)
	})

	t.Run("attended attendee cannot cancel into promotion", func(t *testing.T) {
		event := newTestEvent(t, 5)
		_, err := event.RegisterAttendee("user-1", "general")
		require.NoError(t, err)
		require.NoError(t, event.CheckIn("user-1"))

		// Attended is not cancelled, so cancel still transitions it out
		_, err = event.CancelRegistration("user-1")
		require.NoError(t, err)
		assert.Equal(t, AttendeeStatusCancelled, event.Attendee("user-1").Status)
	})
}
