package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindByCreator(ctx context.Context, creatorID string) ([]dao.Event, error)
	Update(ctx context.Context, id string, mutate func(event *dao.Event) error) (dao.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	daoEvent, err := r.domainToDao(event)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := r.dao.Insert(ctx, daoEvent)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(events), nil
}

func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Event, error) {
	events, err := r.dao.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	return r.daosToDomain(events), nil
}

// Update applies mutate to the stored event under a row lock. mutate sees the current
// state and may reject the change by returning an error.
func (r *EventRepository) Update(ctx context.Context, id string, mutate func(event *domain.Event) error) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, id, func(stored *dao.Event) error {
		event := r.daoToDomain(*stored)
		if err := mutate(&event); err != nil {
			return err
		}

		next, err := r.domainToDao(event)
		if err != nil {
			return err
		}
		*stored = next

		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) domainToDao(e domain.Event) (dao.Event, error) {
	date, err := time.Parse(domain.DateLayout, e.Date)
	if err != nil {
		return dao.Event{}, fmt.Errorf("invalid event date %q: %w", e.Date, err)
	}
	clock, err := time.Parse(domain.TimeLayout, e.Time)
	if err != nil {
		return dao.Event{}, fmt.Errorf("invalid event time %q: %w", e.Time, err)
	}

	event := dao.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        datatypes.Date(date),
		Time:        datatypes.NewTime(clock.Hour(), clock.Minute(), 0, 0),
		Location:    e.Location,
		Type:        string(e.Type),
		IsPrivate:   e.IsPrivate,
		AccessCode:  e.AccessCode,
		Capacity:    e.Capacity,
		CreatorID:   e.CreatorID,
		CreatorName: e.CreatorName,
		IsOfficial:  e.IsOfficial,
		Attendees:   datatypes.JSONSlice[string](append([]string{}, e.Attendees...)),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	if e.Coordinates != nil {
		event.Latitude = &e.Coordinates.Latitude
		event.Longitude = &e.Coordinates.Longitude
	}

	if len(e.CustomFields) > 0 {
		event.CustomFields = make(datatypes.JSONSlice[dao.CustomField], len(e.CustomFields))
		for i, f := range e.CustomFields {
			event.CustomFields[i] = dao.CustomField(f)
		}
	}

	return event, nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return eventFromDao(e)
}

func eventFromDao(e dao.Event) domain.Event {
	clock := time.Duration(e.Time)

	event := domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        time.Time(e.Date).Format(domain.DateLayout),
		Time:        fmt.Sprintf("%02d:%02d", int(clock.Hours()), int(clock.Minutes())%60),
		Location:    e.Location,
		Type:        domain.EventType(e.Type),
		IsPrivate:   e.IsPrivate,
		AccessCode:  e.AccessCode,
		Capacity:    e.Capacity,
		CreatorID:   e.CreatorID,
		CreatorName: e.CreatorName,
		IsOfficial:  e.IsOfficial,
		Attendees:   append([]string{}, e.Attendees...),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	if e.Latitude != nil && e.Longitude != nil {
		event.Coordinates = &domain.Coordinates{
			Latitude:  *e.Latitude,
			Longitude: *e.Longitude,
		}
	}

	if len(e.CustomFields) > 0 {
		event.CustomFields = make([]domain.CustomField, len(e.CustomFields))
		for i, f := range e.CustomFields {
			event.CustomFields[i] = domain.CustomField(f)
		}
	}

	return event
}

func (r *EventRepository) daosToDomain(events []dao.Event) []domain.Event {
	domainEvents := make([]domain.Event, len(events))
	for i, e := range events {
		domainEvents[i] = r.daoToDomain(e)
	}

	return domainEvents
}
