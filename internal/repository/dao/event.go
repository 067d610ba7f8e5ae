package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusconnect/campus-api/internal/db"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type CustomField struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type Event struct {
	ID           string                           `gorm:"primaryKey;size:64"`
	Title        string                           `gorm:"not null"`
	Description  string                           `gorm:"type:text;not null"`
	Date         datatypes.Date                   `gorm:"not null"`
	Time         datatypes.Time                   `gorm:"not null"`
	Location     string                           `gorm:"not null"`
	Latitude     *float64                         `gorm:"default:null"`
	Longitude    *float64                         `gorm:"default:null"`
	Type         string                           `gorm:"size:16;not null;default:other"`
	IsPrivate    bool                             `gorm:"not null;default:false"`
	AccessCode   *string                          `gorm:"size:16"`
	Capacity     *int                             `gorm:"default:null"`
	CreatorID    string                           `gorm:"size:128;not null;index"`
	CreatorName  string                           `gorm:"not null"`
	IsOfficial   bool                             `gorm:"not null;default:false"`
	Attendees    datatypes.JSONSlice[string]      `gorm:"not null"`
	CustomFields datatypes.JSONSlice[CustomField] `gorm:"type:jsonb"`
	CreatedAt    time.Time                        `gorm:"not null;index"`
	UpdatedAt    time.Time                        `gorm:"not null"`
}

type EventDAO struct {
	h *db.Handle
}

func NewEventDAO(h *db.Handle) *EventDAO {
	return &EventDAO{
		h: h,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Event{}, err
	}

	if event.Attendees == nil {
		event.Attendees = datatypes.JSONSlice[string]{}
	}
	if err = conn.Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Event{}, err
	}

	var event Event
	result := conn.First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindAll lists every event, newest first.
func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err = conn.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) FindByCreator(ctx context.Context, creatorID string) ([]Event, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err = conn.Where("creator_id = ?", creatorID).Order("date DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// Update locks the event row, lets mutate change it and writes it back in the same transaction.
// An error from mutate aborts the update and is returned unchanged.
func (d *EventDAO) Update(ctx context.Context, id string, mutate func(event *Event) error) (Event, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Event{}, err
	}

	var event Event
	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := lockEvent(tx, id, &event); err != nil {
			return err
		}

		if err := mutate(&event); err != nil {
			return err
		}

		event.ID = id
		return tx.Save(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// Delete removes the event together with its registrations, chat messages and photos.
func (d *EventDAO) Delete(ctx context.Context, id string) error {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := lockEvent(tx, id, &event); err != nil {
			return err
		}

		for _, model := range []any{&Registration{}, &ChatMessage{}, &Photo{}} {
			if err := tx.Where("event_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T -> %w", model, err)
			}
		}

		return tx.Delete(&Event{}, "id = ?", id).Error
	})
}

func lockEvent(tx *gorm.DB, id string, event *Event) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}

	return err
}
