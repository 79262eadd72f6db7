package domain

import "time"

// AttendeeStatus represents a user's attendance state (matches DB ENUM)
type AttendeeStatus string

const (
	AttendeeStatusRegistered AttendeeStatus = "registered"
	AttendeeStatusAttended   AttendeeStatus = "attended"
	AttendeeStatusCancelled  AttendeeStatus = "cancelled"
)

// Attendee is one user's attendance record for an event. A user has at most
// one record; cancelling keeps the record with status cancelled so a later
// re-registration revives it.
type Attendee struct {
	UserID       string         `json:"user_id"`
	TicketType   string         `json:"ticket_type"`
	Status       AttendeeStatus `json:"status"`
	RegisteredAt time.Time      `json:"registered_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// WaitlistEntry is a FIFO slot for a user awaiting freed capacity. The ticket
// type requested at enqueue time is kept so promotion can re-run the reserve
// check against the same type.
type WaitlistEntry struct {
	UserID     string    `json:"user_id"`
	TicketType string    `json:"ticket_type"`
	AddedAt    time.Time `json:"added_at"`
}

// Attendee returns the user's attendance record regardless of status, or nil.
func (e *Event) Attendee(userID string) *Attendee {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			return &e.Attendees[i]
		}
	}
	return nil
}

// ActiveAttendeeCount counts attendees with status registered or attended.
func (e *Event) ActiveAttendeeCount() int {
	n := 0
	for i := range e.Attendees {
		if e.Attendees[i].Status != AttendeeStatusCancelled {
			n++
		}
	}
	return n
}

// waitlistIndex returns the user's position in the waitlist, or -1.
func (e *Event) waitlistIndex(userID string) int {
	for i := range e.Waitlist {
		if e.Waitlist[i].UserID == userID {
			return i
		}
	}
	return -1
}

// IsWaitlisted reports whether the user currently holds a waitlist slot.
func (e *Event) IsWaitlisted(userID string) bool {
	return e.waitlistIndex(userID) >= 0
}

// RegisterAttendee admits the user for one ticket of the given type, or
// enqueues them at the tail of the waitlist when the type is sold out or the
// overall capacity is reached. No inventory is consumed on the waitlist path.
func (e *Event) RegisterAttendee(userID, ticketType string) (RegistrationOutcome, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	if a := e.Attendee(userID); a != nil && a.Status != AttendeeStatusCancelled {
		return "", ErrAlreadyRegistered
	}
	if e.IsWaitlisted(userID) {
		return "", ErrAlreadyRegistered
	}
	t := e.TicketType(ticketType)
	if t == nil {
		return "", ErrTicketTypeNotFound
	}

	now := time.Now().UTC()
	if e.ActiveAttendeeCount() >= e.Capacity || t.Available() <= 0 {
		e.Waitlist = append(e.Waitlist, WaitlistEntry{
			UserID:     userID,
			TicketType: ticketType,
			AddedAt:    now,
		})
		e.UpdatedAt = now
		return OutcomeWaitlisted, nil
	}

	if err := e.ReserveTicket(ticketType); err != nil {
		return "", err
	}
	e.admit(userID, ticketType, now)
	e.UpdatedAt = now
	return OutcomeRegistered, nil
}

// admit creates or revives the user's attendance record with status registered.
func (e *Event) admit(userID, ticketType string, now time.Time) {
	if a := e.Attendee(userID); a != nil {
		a.TicketType = ticketType
		a.Status = AttendeeStatusRegistered
		a.UpdatedAt = now
		return
	}
	e.Attendees = append(e.Attendees, Attendee{
		UserID:       userID,
		TicketType:   ticketType,
		Status:       AttendeeStatusRegistered,
		RegisteredAt: now,
		UpdatedAt:    now,
	})
}

// CancelRegistration cancels the user's registration, releases the ticket, and
// promotes waitlisted users into the freed capacity. If the user only holds a
// waitlist slot, the slot is removed with no inventory change. Returns the
// users promoted as a result.
func (e *Event) CancelRegistration(userID string) ([]Attendee, error) {
	now := time.Now().UTC()

	if a := e.Attendee(userID); a != nil && a.Status != AttendeeStatusCancelled {
		a.Status = AttendeeStatusCancelled
		a.UpdatedAt = now
		e.ReleaseTicket(a.TicketType)
		promoted := e.promoteWaitlist(now)
		e.UpdatedAt = now
		return promoted, nil
	}

	if i := e.waitlistIndex(userID); i >= 0 {
		e.Waitlist = append(e.Waitlist[:i], e.Waitlist[i+1:]...)
		e.UpdatedAt = now
		return nil, nil
	}

	return nil, ErrNotRegistered
}

// promoteWaitlist converts waitlist heads into registered attendees while
// capacity and the head's ticket type allow. Strict FIFO: when the head cannot
// be admitted, promotion stops rather than skipping ahead.
func (e *Event) promoteWaitlist(now time.Time) []Attendee {
	var promoted []Attendee
	for len(e.Waitlist) > 0 && e.ActiveAttendeeCount() < e.Capacity {
		head := e.Waitlist[0]
		if err := e.ReserveTicket(head.TicketType); err != nil {
			break
		}
		e.Waitlist = e.Waitlist[1:]
		e.admit(head.UserID, head.TicketType, now)
		promoted = append(promoted, *e.Attendee(head.UserID))
	}
	return promoted
}

// CheckIn marks a registered attendee as attended. Attended is terminal, so
// checking in twice is a no-op.
func (e *Event) CheckIn(userID string) error {
	a := e.Attendee(userID)
	if a == nil || a.Status == AttendeeStatusCancelled {
		return ErrNotRegistered
	}
	if a.Status == AttendeeStatusAttended {
		return nil
	}
	now := time.Now().UTC()
	a.Status = AttendeeStatusAttended
	a.UpdatedAt = now
	e.UpdatedAt = now
	return nil
}
