package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/mailer"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrInvalidRole     = errors.New("invalid role")
)

const (
	tempPasswordLetters  = "abcdefghijkmnpqrstuvwxyz"
	tempPasswordDigits   = "23456789"
	tempPasswordAlphabet = tempPasswordLetters + "ABCDEFGHJKLMNPQRSTUVWXYZ" + tempPasswordDigits
	tempPasswordLength   = 12
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type UserService struct {
	repo   UserRepository
	sender mailer.Sender
	conf   *config.MailConfig
	now    func() time.Time
}

func NewUserService(repo UserRepository, sender mailer.Sender, conf *config.MailConfig) *UserService {
	return &UserService{
		repo:   repo,
		sender: sender,
		conf:   conf,
		now:    time.Now,
	}
}

// Create registers a user on behalf of an admin. The user receives a temporary password by e-mail;
// a failed delivery is logged and does not undo the account.
func (s *UserService) Create(ctx context.Context, p *domain.Principal, user domain.User) (domain.User, error) {
	if !p.IsAuthenticated() {
		return domain.User{}, ErrUnauthorized
	}
	if !p.IsAdmin() {
		return domain.User{}, ErrForbidden
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)
	if user.Email == "" || user.Name == "" || user.Role == "" {
		return domain.User{}, fmt.Errorf("%w: email, name and role are required", ErrMissingFields)
	}
	if !slices.Contains(domain.Roles, user.Role) {
		return domain.User{}, ErrInvalidRole
	}

	tempPassword, err := newTemporaryPassword()
	if err != nil {
		return domain.User{}, err
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	user.ID = uuid.NewString()
	user.Password = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.sendInvitation(ctx, created, tempPassword)

	return created, nil
}

// Get returns a user record. Users may read their own; admins may read anyone's.
func (s *UserService) Get(ctx context.Context, id string, p *domain.Principal) (domain.User, error) {
	if !p.IsAuthenticated() {
		return domain.User{}, ErrUnauthorized
	}
	if p.UserID != id && !p.IsAdmin() {
		return domain.User{}, ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// GetByEmail looks a user up by address. Non-admins may only find themselves, and an unknown
// address is reported to them as forbidden rather than not found.
func (s *UserService) GetByEmail(ctx context.Context, email string, p *domain.Principal) (domain.User, error) {
	if !p.IsAuthenticated() {
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case errors.Is(err, ErrUserNotFound) && !p.IsAdmin():
		return domain.User{}, ErrForbidden
	case err != nil:
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	case user.ID != p.UserID && !p.IsAdmin():
		return domain.User{}, ErrForbidden
	}

	return user, nil
}

func (s *UserService) sendInvitation(ctx context.Context, user domain.User, tempPassword string) {
	var appURL string
	if s.conf != nil {
		appURL = s.conf.AppURL
	}

	msg, err := mailer.Invitation{
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		TemporaryPassword: tempPassword,
		AppURL:            appURL,
	}.Message()
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	if err != nil {
		zap.L().Warn("failed to send invitation email", zap.String("userID", user.ID), zap.Error(err))
	}
}

// newTemporaryPassword returns a random password that always holds a letter and a digit.
// newTemporaryPassword starts with a lowercase letter and ends with a digit so it always
// satisfies the password policy.
func newTemporaryPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	for i := range buf {
		alphabet := tempPasswordAlphabet
		switch i {
		case 0:
			alphabet = tempPasswordLetters
		case len(buf) - 1:
			alphabet = tempPasswordDigits
		}

		c, err := pickFrom(alphabet)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	return string(buf), nil
}

// pickFrom draws one character of alphabet uniformly.
func pickFrom(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("rand.Int -> %w", err)
	}

	return alphabet[n.Int64()], nil
}
