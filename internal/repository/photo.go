package repository

import (
	"context"
	"fmt"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/repository/dao"
)

var (
	ErrPhotoNotFound = dao.ErrPhotoNotFound
)

type PhotoDAO interface {
	Insert(ctx context.Context, photo dao.Photo) (dao.Photo, error)
	FindByID(ctx context.Context, id string) (dao.Photo, error)
	FindByEvent(ctx context.Context, eventID string) ([]dao.Photo, error)
	Delete(ctx context.Context, id string) error
}

type PhotoRepository struct {
	dao PhotoDAO
}

func NewPhotoRepository(dao PhotoDAO) *PhotoRepository {
	return &PhotoRepository{
		dao: dao,
	}
}

func (r *PhotoRepository) Create(ctx context.Context, photo domain.Photo) (domain.Photo, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(photo))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (domain.Photo, error) {
	photo, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(photo), nil
}

func (r *PhotoRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Photo, error) {
	photos, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	domainPhotos := make([]domain.Photo, len(photos))
	for i, p := range photos {
		domainPhotos[i] = r.daoToDomain(p)
	}

	return domainPhotos, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PhotoRepository) domainToDao(p domain.Photo) dao.Photo {
	photo := dao.Photo{
		ID:           p.ID,
		EventID:      p.EventID,
		UserID:       p.UserID,
		UserName:     p.UserName,
		FileName:     p.FileName,
		FileURL:      p.FileURL,
		ThumbnailURL: p.ThumbnailURL,
		Caption:      p.Caption,
		UploadedAt:   p.UploadedAt,
	}

	if m := p.Metadata; m != nil {
		photo.Size = &m.Size
		photo.Width = &m.Width
		photo.Height = &m.Height
		photo.MimeType = &m.MimeType
	}

	return photo
}

func (r *PhotoRepository) daoToDomain(p dao.Photo) domain.Photo {
	photo := domain.Photo{
		ID:           p.ID,
		EventID:      p.EventID,
		UserID:       p.UserID,
		UserName:     p.UserName,
		FileName:     p.FileName,
		FileURL:      p.FileURL,
		ThumbnailURL: p.ThumbnailURL,
		Caption:      p.Caption,
		UploadedAt:   p.UploadedAt,
	}

	if p.Size != nil || p.MimeType != nil {
		metadata := &domain.PhotoMetadata{}
		if p.Size != nil {
			metadata.Size = *p.Size
		}
		if p.Width != nil {
			metadata.Width = *p.Width
		}
		if p.Height != nil {
			metadata.Height = *p.Height
		}
		if p.MimeType != nil {
			metadata.MimeType = *p.MimeType
		}
		photo.Metadata = metadata
	}

	return photo
}
