package dao

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/db"
)

const registrationUniqueIndex = "idx_registrations_event_user"

var (
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	ErrNotRegistered     = errors.New("user is not registered for this event")
)

type Registration struct {
	ID               string            `gorm:"primaryKey;size:64"`
	EventID          string            `gorm:"size:64;not null;uniqueIndex:idx_registrations_event_user,priority:1"`
	UserID           string            `gorm:"size:128;not null;uniqueIndex:idx_registrations_event_user,priority:2;index"`
	UserName         string            `gorm:"not null;default:''"`
	UserEmail        string            `gorm:"not null;default:''"`
	RegistrationData datatypes.JSONMap `gorm:"type:jsonb"`
	RegisteredAt     time.Time         `gorm:"not null;index"`
}

type RegistrationDAO struct {
	h *db.Handle
}

func NewRegistrationDAO(h *db.Handle) *RegistrationDAO {
	return &RegistrationDAO{
		h: h,
	}
}

// RegistrationCheck sees the locked event, its registration count and whether the user is
// already registered. A non-nil error aborts TryRegister and is returned unchanged.
type RegistrationCheck func(event Event, current int, registered bool) error

// TryRegister locks the event row, asks check whether the registration may be written and
// then stores it together with the attendee list, all in one transaction. Concurrent calls
// for the same event are serialised; the unique index on (event_id, user_id) backs up the
// duplicate check.
func (d *RegistrationDAO) TryRegister(ctx context.Context, reg Registration, check RegistrationCheck) (Registration, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Registration{}, err
	}

	err = conn.Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := lockEvent(tx, reg.EventID, &event); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).
			Count(&existing).Error; err != nil {
			return err
		}

		var current int64
		if err := tx.Model(&Registration{}).Where("event_id = ?", reg.EventID).Count(&current).Error; err != nil {
			return err
		}

		if err := check(event, int(current), existing > 0); err != nil {
			return err
		}

		if err := tx.Create(&reg).Error; err != nil {
			if isUniqueViolation(err, registrationUniqueIndex) {
				return ErrAlreadyRegistered
			}
			return err
		}

		if !slices.Contains(event.Attendees, reg.UserID) {
			event.Attendees = append(event.Attendees, reg.UserID)
		}

		return tx.Model(&Event{}).Where("id = ?", event.ID).Updates(map[string]any{
			"attendees":  event.Attendees,
			"updated_at": reg.RegisteredAt,
		}).Error
	})
	if err != nil {
		return Registration{}, err
	}

	return reg, nil
}

// TryUnregister deletes the user's registrations for the event and drops the user from
// the attendee list in one transaction.
func (d *RegistrationDAO) TryUnregister(ctx context.Context, eventID, userID string, now time.Time) error {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return err
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := lockEvent(tx, eventID, &event); err != nil {
			return err
		}

		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&Registration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotRegistered
		}

		attendees := slices.DeleteFunc(slices.Clone(event.Attendees), func(id string) bool {
			return id == userID
		})
		if attendees == nil {
			attendees = []string{}
		}

		return tx.Model(&Event{}).Where("id = ?", eventID).Updates(map[string]any{
			"attendees":  datatypes.JSONSlice[string](attendees),
			"updated_at": now,
		}).Error
	})
}

func (d *RegistrationDAO) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	err = conn.Model(&Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *RegistrationDAO) CountByEvent(ctx context.Context, eventID string) (int, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err = conn.Model(&Registration{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

func (d *RegistrationDAO) FindByEvent(ctx context.Context, eventID string) ([]Registration, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var regs []Registration
	if err = conn.Where("event_id = ?", eventID).Order("registered_at ASC").Find(&regs).Error; err != nil {
		return nil, err
	}

	return regs, nil
}

func (d *RegistrationDAO) FindByUser(ctx context.Context, userID string) ([]Registration, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var regs []Registration
	if err = conn.Where("user_id = ?", userID).Order("registered_at DESC").Find(&regs).Error; err != nil {
		return nil, err
	}

	return regs, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == constraint
}
