package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/db"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

type Photo struct {
	ID           string    `gorm:"primaryKey;size:64"`
	EventID      string    `gorm:"size:64;not null;index"`
	UserID       string    `gorm:"size:128;not null"`
	UserName     string    `gorm:"not null"`
	FileName     string    `gorm:"not null"`
	FileURL      string    `gorm:"not null"`
	ThumbnailURL string    `gorm:"not null;default:''"`
	Caption      string    `gorm:"not null;default:''"`
	Size         *int64    `gorm:"default:null"`
	Width        *int      `gorm:"default:null"`
	Height       *int      `gorm:"default:null"`
	MimeType     *string   `gorm:"size:64;default:null"`
	UploadedAt   time.Time `gorm:"not null"`
}

type PhotoDAO struct {
	h *db.Handle
}

func NewPhotoDAO(h *db.Handle) *PhotoDAO {
	return &PhotoDAO{
		h: h,
	}
}

func (d *PhotoDAO) Insert(ctx context.Context, photo Photo) (Photo, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Photo{}, err
	}

	if err = conn.Create(&photo).Error; err != nil {
		return Photo{}, err
	}

	return photo, nil
}

func (d *PhotoDAO) FindByID(ctx context.Context, id string) (Photo, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return Photo{}, err
	}

	var photo Photo
	result := conn.First(&photo, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Photo{}, ErrPhotoNotFound
		}

		return Photo{}, result.Error
	}

	return photo, nil
}

func (d *PhotoDAO) FindByEvent(ctx context.Context, eventID string) ([]Photo, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var photos []Photo
	if err = conn.Where("event_id = ?", eventID).Order("uploaded_at DESC").Find(&photos).Error; err != nil {
		return nil, err
	}

	return photos, nil
}

// Delete is a no-op for an absent photo.
func (d *PhotoDAO) Delete(ctx context.Context, id string) error {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return err
	}

	return conn.Delete(&Photo{}, "id = ?", id).Error
}
