package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TusharSh06/Techgather/internal/domain"
	"github.com/TusharSh06/Techgather/internal/dto"
	"github.com/TusharSh06/Techgather/internal/repository"
	"github.com/TusharSh06/Techgather/pkg/logger"
)

// RegistrationService defines the interface for attendee lifecycle operations
type RegistrationService interface {
	// Register registers a user for an event, waitlisting them if the
	// requested tier is sold out or the event is at capacity
	Register(ctx context.Context, eventID, userID, ticketType string) (*dto.RegistrationResponse, error)

	// Cancel cancels a registration or removes a waitlist entry, promoting
	// waitlisted users into any freed capacity
	Cancel(ctx context.Context, eventID, userID string) (*dto.CancellationResponse, error)

	// CheckIn marks a registered attendee as attended. Only the event
	// organizer or an admin may check attendees in.
	CheckIn(ctx context.Context, actor Actor, eventID, userID string) (*dto.CheckInResponse, error)
}

type registrationServiceImpl struct {
	repo      repository.EventRepository
	publisher EventPublisher
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(repo repository.EventRepository, publisher EventPublisher) RegistrationService {
	if publisher == nil {
		publisher = NewNoopPublisher()
	}
	return &registrationServiceImpl{repo: repo, publisher: publisher}
}

// Register registers a user for an event
func (s *registrationServiceImpl) Register(ctx context.Context, eventID, userID, ticketType string) (*dto.RegistrationResponse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	var outcome domain.RegistrationOutcome
	event, err := s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		var err error
		outcome, err = event.RegisterAttendee(userID, ticketType)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.RegistrationResponse{
		EventID:    eventID,
		UserID:     userID,
		TicketType: ticketType,
		Outcome:    string(outcome),
		Timestamp:  time.Now().UTC(),
	}
	if outcome == domain.OutcomeWaitlisted {
		for i, w := range event.Waitlist {
			if w.UserID == userID {
				resp.Position = i + 1
				break
			}
		}
	}

	s.publish(ctx, TopicRegistration, &DomainEvent{
		EventType:  "registration." + string(outcome),
		EventID:    eventID,
		UserID:     userID,
		TicketType: ticketType,
	})

	return resp, nil
}

// Cancel cancels a registration or removes a waitlist entry
func (s *registrationServiceImpl) Cancel(ctx context.Context, eventID, userID string) (*dto.CancellationResponse, error) {
	var promoted []domain.Attendee
	_, err := s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		var err error
		promoted, err = event.CancelRegistration(userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CancellationResponse{
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	for i := range promoted {
		resp.Promoted = append(resp.Promoted, dto.FromAttendee(&promoted[i]))
	}

	s.publish(ctx, TopicRegistration, &DomainEvent{
		EventType: "registration.cancelled",
		EventID:   eventID,
		UserID:    userID,
	})
	for i := range promoted {
		s.publish(ctx, TopicRegistration, &DomainEvent{
			EventType:  "registration.promoted",
			EventID:    eventID,
			UserID:     promoted[i].UserID,
			TicketType: promoted[i].TicketType,
		})
	}

	return resp, nil
}

// CheckIn marks a registered attendee as attended
func (s *registrationServiceImpl) CheckIn(ctx context.Context, actor Actor, eventID, userID string) (*dto.CheckInResponse, error) {
	_, err := s.repo.Update(ctx, eventID, func(event *domain.Event) error {
		if err := authorizeOrganizer(actor, event); err != nil {
			return err
		}
		return event.CheckIn(userID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, TopicRegistration, &DomainEvent{
		EventType: "registration.attended",
		EventID:   eventID,
		UserID:    userID,
	})

	return &dto.CheckInResponse{
		EventID:   eventID,
		UserID:    userID,
		Status:    string(domain.AttendeeStatusAttended),
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *registrationServiceImpl) publish(ctx context.Context, topic string, event *DomainEvent) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		logger.Get().Warn("failed to publish domain event",
			zap.String("topic", topic),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}
