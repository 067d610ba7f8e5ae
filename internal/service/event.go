package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/campus-api/internal/domain"
)

var (
	ErrMissingFields          = errors.New("missing required fields")
	ErrInvalidEvent           = errors.New("invalid event")
	ErrCapacityBelowAttendees = errors.New("capacity is below the current number of attendees")
)

const (
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accessCodeLength   = 6
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id string) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error)
	Update(ctx context.Context, id string, mutate func(event *domain.Event) error) (domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventService struct {
	repo            EventRepository
	defaultCapacity int
	now             func() time.Time
}

// NewEventService builds the event catalogue. defaultCapacity is applied to events created
// without a capacity; 0 leaves them unlimited.
func NewEventService(repo EventRepository, defaultCapacity int) *EventService {
	return &EventService{
		repo:            repo,
		defaultCapacity: defaultCapacity,
		now:             time.Now,
	}
}

func (s *EventService) Create(ctx context.Context, p *domain.Principal, draft domain.EventDraft) (domain.Event, error) {
	if !p.IsAuthenticated() {
		return domain.Event{}, ErrUnauthorized
	}

	if err := validateDraft(draft); err != nil {
		return domain.Event{}, err
	}

	eventType := draft.Type
	if eventType == "" {
		eventType = domain.EventTypeOther
	}

	capacity := draft.Capacity
	if capacity == nil && s.defaultCapacity > 0 {
		defaultCapacity := s.defaultCapacity
		capacity = &defaultCapacity
	}

	var accessCode *string
	if draft.IsPrivate {
		code := newAccessCode()
		accessCode = &code
	}

	now := s.now().UTC()
	event := domain.Event{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		Date:         draft.Date,
		Time:         draft.Time,
		Location:     strings.TrimSpace(draft.Location),
		Coordinates:  draft.Coordinates,
		Type:         eventType,
		IsPrivate:    draft.IsPrivate,
		AccessCode:   accessCode,
		Capacity:     capacity,
		CreatorID:    p.UserID,
		CreatorName:  p.DisplayName(),
		IsOfficial:   draft.IsOfficial && p.HasRole(domain.RoleFaculty),
		Attendees:    []string{},
		CustomFields: draft.CustomFields,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

// List returns every event, newest first.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error) {
	events, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByCreator -> %w", err)
	}

	return events, nil
}

// Update merges patch into the event. The creator fields, the attendee list and the
// creation time never change.
func (s *EventService) Update(ctx context.Context, id string, p *domain.Principal, patch domain.EventPatch) (domain.Event, error) {
	if !p.IsAuthenticated() {
		return domain.Event{}, ErrUnauthorized
	}

	updated, err := s.repo.Update(ctx, id, func(event *domain.Event) error {
		if event.CreatorID != p.UserID && !p.IsAdmin() {
			return ErrForbidden
		}

		next := applyPatch(*event, patch)
		if err := validateEvent(next); err != nil {
			return err
		}
		if next.Capacity != nil && *next.Capacity < len(next.Attendees) {
			return ErrCapacityBelowAttendees
		}
		if next.IsPrivate && next.AccessCode == nil {
			code := newAccessCode()
			next.AccessCode = &code
		}
		next.UpdatedAt = s.now().UTC()

		*event = next

		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Delete removes the event together with its registrations, chat and photos.
func (s *EventService) Delete(ctx context.Context, id string, p *domain.Principal) error {
	if !p.IsAuthenticated() {
		return ErrUnauthorized
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if event.CreatorID != p.UserID && !p.IsAdmin() {
		return ErrForbidden
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func applyPatch(event domain.Event, patch domain.EventPatch) domain.Event {
	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Time != nil {
		event.Time = *patch.Time
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Coordinates != nil {
		event.Coordinates = patch.Coordinates
	}
	if patch.Type != nil {
		event.Type = *patch.Type
	}
	if patch.IsPrivate != nil {
		event.IsPrivate = *patch.IsPrivate
		if !event.IsPrivate {
			event.AccessCode = nil
		}
	}
	if patch.Capacity != nil {
		event.Capacity = patch.Capacity
	}
	if patch.CustomFields != nil {
		event.CustomFields = patch.CustomFields
	}

	return event
}

func validateDraft(draft domain.EventDraft) error {
	var missing []string
	for name, value := range map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
		"date":        draft.Date,
		"time":        draft.Time,
		"location":    draft.Location,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	return validateEvent(domain.Event{
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
		Time:        draft.Time,
		Location:    draft.Location,
		Type:        draft.Type,
		Capacity:    draft.Capacity,
	})
}

func validateEvent(event domain.Event) error {
	if strings.TrimSpace(event.Title) == "" || strings.TrimSpace(event.Description) == "" ||
		strings.TrimSpace(event.Location) == "" {
		return fmt.Errorf("%w: title, description and location must not be empty", ErrInvalidEvent)
	}
	if _, err := time.Parse(domain.DateLayout, event.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidEvent)
	}
	if _, err := time.Parse(domain.TimeLayout, event.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidEvent)
	}
	if event.Type != "" && !slices.Contains(domain.EventTypes, event.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
	if event.Capacity != nil && *event.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidEvent)
	}

	return nil
}

func newAccessCode() string {
	code := make([]byte, accessCodeLength)
	for i := range code {
		code[i] = accessCodeAlphabet[rand.Intn(len(accessCodeAlphabet))]
	}

	return string(code)
}
