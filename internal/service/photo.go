package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	ErrPhotoNotFound = repository.ErrPhotoNotFound
	ErrInvalidPhoto  = errors.New("invalid photo")
)

const MaxPhotoCaptionLength = 500

type PhotoRepository interface {
	Create(ctx context.Context, photo domain.Photo) (domain.Photo, error)
	GetByID(ctx context.Context, id string) (domain.Photo, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Photo, error)
	Delete(ctx context.Context, id string) error
}

type PhotoService struct {
	repo      PhotoRepository
	eventRepo EventRepository
	now       func() time.Time
}

func NewPhotoService(repo PhotoRepository, eventRepo EventRepository) *PhotoService {
	return &PhotoService{
		repo:      repo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

func (s *PhotoService) Gallery(ctx context.Context, eventID string) (domain.PhotoGallery, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return domain.PhotoGallery{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	photos, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return domain.PhotoGallery{}, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return domain.PhotoGallery{
		EventID:    eventID,
		Photos:     photos,
		TotalCount: len(photos),
	}, nil
}

// Add records a photo the caller has already uploaded elsewhere. Attendees and the creator may add photos.
func (s *PhotoService) Add(ctx context.Context, eventID string, p *domain.Principal, photo domain.Photo) (domain.Photo, error) {
	if !p.IsAuthenticated() {
		return domain.Photo{}, ErrUnauthorized
	}

	photo.FileName = strings.TrimSpace(photo.FileName)
	photo.FileURL = strings.TrimSpace(photo.FileURL)
	photo.Caption = strings.TrimSpace(photo.Caption)
	if photo.FileName == "" || photo.FileURL == "" {
		return domain.Photo{}, fmt.Errorf("%w: fileName and fileUrl are required", ErrMissingFields)
	}
	if utf8.RuneCountInString(photo.Caption) > MaxPhotoCaptionLength {
		return domain.Photo{}, fmt.Errorf("%w: caption exceeds %d characters", ErrInvalidPhoto, MaxPhotoCaptionLength)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if event.CreatorID != p.UserID && !event.HasAttendee(p.UserID) {
		return domain.Photo{}, ErrForbidden
	}

	photo.ID = uuid.NewString()
	photo.EventID = eventID
	photo.UserID = p.UserID
	photo.UserName = p.DisplayName()
	photo.UploadedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, photo)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Delete removes a photo. Deleting an absent photo succeeds.
func (s *PhotoService) Delete(ctx context.Context, id string, p *domain.Principal) error {
	if !p.IsAuthenticated() {
		return ErrUnauthorized
	}

	photo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return nil
		}

		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if photo.UserID != p.UserID && !p.IsAdmin() {
		return ErrForbidden
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
