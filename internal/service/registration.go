package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	ErrEventNotFound     = repository.ErrEventNotFound
	ErrAlreadyRegistered = repository.ErrAlreadyRegistered
	ErrNotRegistered     = repository.ErrNotRegistered

	ErrEventFull = errors.New("event is at capacity")

	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("operation not permitted for this user")
)

type RegistrationRepository interface {
	Register(ctx context.Context, reg domain.Registration, check domain.RegistrationCheck) (domain.Registration, error)
	Unregister(ctx context.Context, eventID, userID string, now time.Time) error
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
}

// RegistrationService owns every rule about who may join or leave an event.
type RegistrationService struct {
	repo      RegistrationRepository
	eventRepo EventRepository
	userRepo  UserRepository
	now       func() time.Time
}

func NewRegistrationService(repo RegistrationRepository, eventRepo EventRepository, userRepo UserRepository) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// Register adds the principal to the event. The store looks the event up and runs
// checkRegistration in the same transaction as the writes.
func (s *RegistrationService) Register(ctx context.Context, eventID string, p *domain.Principal, answers map[string]any) (domain.Registration, error) {
	if !p.IsAuthenticated() {
		return domain.Registration{}, ErrUnauthorized
	}

	if answers == nil {
		answers = map[string]any{}
	}

	reg := domain.Registration{
		ID:               uuid.NewString(),
		EventID:          eventID,
		UserID:           p.UserID,
		UserName:         p.DisplayName(),
		UserEmail:        s.emailOf(ctx, p),
		RegistrationData: answers,
		RegisteredAt:     s.now().UTC(),
	}

	created, err := s.repo.Register(ctx, reg, checkRegistration)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Register -> %w", err)
	}

	return created, nil
}

// checkRegistration rejects a duplicate before a full event.
func checkRegistration(event domain.Event, current int, registered bool) error {
	if registered {
		return ErrAlreadyRegistered
	}
	if event.IsFull(current) {
		return ErrEventFull
	}

	return nil
}

func (s *RegistrationService) Unregister(ctx context.Context, eventID string, p *domain.Principal) error {
	if !p.IsAuthenticated() {
		return ErrUnauthorized
	}

	if err := s.repo.Unregister(ctx, eventID, p.UserID, s.now().UTC()); err != nil {
		return fmt.Errorf("s.repo.Unregister -> %w", err)
	}

	return nil
}

// Status never fails for a missing event; it reports the principal as not registered.
func (s *RegistrationService) Status(ctx context.Context, eventID string, p *domain.Principal) (domain.RegistrationStatus, error) {
	if !p.IsAuthenticated() {
		return domain.RegistrationStatus{}, ErrUnauthorized
	}

	registered, err := s.repo.Exists(ctx, eventID, p.UserID)
	if err != nil {
		return domain.RegistrationStatus{}, fmt.Errorf("s.repo.Exists -> %w", err)
	}

	status := domain.RegistrationStatus{IsRegistered: registered}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return status, nil
		}

		return domain.RegistrationStatus{}, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if !event.HasCapacity() {
		return status, nil
	}

	current, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return domain.RegistrationStatus{}, fmt.Errorf("s.repo.CountByEvent -> %w", err)
	}

	full := event.IsFull(current)
	capacity := *event.Capacity
	status.CurrentAttendees = &current
	status.MaxAttendees = &capacity
	status.IsFull = &full

	return status, nil
}

// Attendees lists the event's registrations, oldest first. Only the creator may see them.
func (s *RegistrationService) Attendees(ctx context.Context, eventID string, p *domain.Principal) ([]domain.Attendee, error) {
	if !p.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.GetByID -> %w", err)
	}

	if event.CreatorID != p.UserID {
		return nil, ErrForbidden
	}

	regs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	attendees := make([]domain.Attendee, len(regs))
	for i, reg := range regs {
		attendees[i] = reg.Attendee()
	}

	return attendees, nil
}

// ListByUser returns the registrations of userID. Users see their own; admins see anyone's.
func (s *RegistrationService) ListByUser(ctx context.Context, userID string, p *domain.Principal) ([]domain.Registration, error) {
	if !p.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	if p.UserID != userID && !p.IsAdmin() {
		return nil, ErrForbidden
	}

	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	return regs, nil
}

func (s *RegistrationService) emailOf(ctx context.Context, p *domain.Principal) string {
	if email := p.Email(); email != "" {
		return email
	}

	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			zap.L().Warn("registering without an email", zap.String("userID", p.UserID), zap.Error(err))
		}

		return ""
	}

	return user.Email
}
