package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gurukul/internal/model"
	"gurukul/internal/pubsub"
	"gurukul/internal/repository"
)

type EventService interface {
	ListUpcoming(ctx context.Context) ([]model.Event, error)
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	Join(ctx context.Context, eventID, userID string) error
}

type eventService struct {
	repo        repository.EventRepository
	emitter     *pubsub.Emitter
	now         func() time.Time
	eventLogger zerolog.Logger
}

func NewEventService(repo repository.EventRepository, emitter *pubsub.Emitter, logger zerolog.Logger) EventService {
	return &eventService{
		repo:        repo,
		emitter:     emitter,
		now:         time.Now,
		eventLogger: logger.With().Str("service", "EventService").Logger(),
	}
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]model.Event, error) {
	return s.repo.ListUpcoming(ctx, s.now())
}

func (s *eventService) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	if !e.EndDate.After(e.StartDate) {
		return nil, ErrInvalidEventRange
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Join(ctx context.Context, eventID, userID string) error {
	e, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event: %w", err)
	}
	if e == nil {
		return ErrEventNotFound
	}
	if e.EndDate.Before(s.now()) {
		return ErrEventEnded
	}

	if err := s.repo.JoinEvent(ctx, eventID, userID); err != nil {
		if errors.Is(err, ErrAlreadyJoined) || errors.Is(err, ErrEventFull) {
			return err
		}
		s.eventLogger.Error().Err(err).Str("event_id", eventID).Str("user_id", userID).Msg("Failed to join event")
		return fmt.Errorf("failed to join event: %w", err)
	}
	s.emitter.Emit(ctx, EventParticipantJoined, map[string]string{"event_id": eventID, "user_id": userID})
	return nil
}
