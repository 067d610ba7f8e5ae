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
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
	ErrNotRegistered     = dao.ErrNotRegistered
)

type RegistrationDAO interface {
	TryRegister(ctx context.Context, reg dao.Registration, check dao.RegistrationCheck) (dao.Registration, error)
	TryUnregister(ctx context.Context, eventID, userID string, now time.Time) error
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	FindByEvent(ctx context.Context, eventID string) ([]dao.Registration, error)
	FindByUser(ctx context.Context, userID string) ([]dao.Registration, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

// Register stores the registration and adds the user to the event's attendee list
// atomically, provided check accepts it. It fails with ErrEventNotFound, ErrAlreadyRegistered
// or whatever check returns.
func (r *RegistrationRepository) Register(ctx context.Context, reg domain.Registration, check domain.RegistrationCheck) (domain.Registration, error) {
	created, err := r.dao.TryRegister(ctx, r.domainToDao(reg), func(event dao.Event, current int, registered bool) error {
		return check(eventFromDao(event), current, registered)
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.TryRegister -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) Unregister(ctx context.Context, eventID, userID string, now time.Time) error {
	if err := r.dao.TryUnregister(ctx, eventID, userID, now); err != nil {
		return fmt.Errorf("r.dao.TryUnregister -> %w", err)
	}

	return nil
}

func (r *RegistrationRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	exists, err := r.dao.Exists(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return exists, nil
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	count, err := r.dao.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEvent -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	regs, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	return r.daosToDomain(regs), nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	regs, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	return r.daosToDomain(regs), nil
}

func (r *RegistrationRepository) domainToDao(reg domain.Registration) dao.Registration {
	return dao.Registration{
		ID:               reg.ID,
		EventID:          reg.EventID,
		UserID:           reg.UserID,
		UserName:         reg.UserName,
		UserEmail:        reg.UserEmail,
		RegistrationData: datatypes.JSONMap(reg.RegistrationData),
		RegisteredAt:     reg.RegisteredAt,
	}
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	data := map[string]any(reg.RegistrationData)
	if data == nil {
		data = map[string]any{}
	}

	return domain.Registration{
		ID:               reg.ID,
		EventID:          reg.EventID,
		UserID:           reg.UserID,
		UserName:         reg.UserName,
		UserEmail:        reg.UserEmail,
		RegistrationData: data,
		RegisteredAt:     reg.RegisteredAt,
	}
}

func (r *RegistrationRepository) daosToDomain(regs []dao.Registration) []domain.Registration {
	domainRegs := make([]domain.Registration, len(regs))
	for i, reg := range regs {
		domainRegs[i] = r.daoToDomain(reg)
	}

	return domainRegs
}
