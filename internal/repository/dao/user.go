package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/db"
)

const userEmailUniqueIndex = "idx_users_email"

var (
	ErrUserEmailExists = errors.New("user already exists with this email")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID string `gorm:"primaryKey;size:128"`

	Email    string `gorm:"size:320;not null;uniqueIndex:idx_users_email"`
	Password string `gorm:"not null"`

	Role       string `gorm:"size:16;not null"` // "student", "faculty" or "admin"
	Name       string `gorm:"not null"`
	Department string `gorm:"not null;default:''"`
	StudentID  string `gorm:"size:64;not null;default:''"`
	FacultyID  string `gorm:"size:64;not null;default:''"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	h *db.Handle
}

func NewUserDAO(h *db.Handle) *UserDAO {
	return &UserDAO{
		h: h,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return User{}, err
	}

	result := conn.Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, userEmailUniqueIndex) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return User{}, err
	}

	var user User
	result := conn.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return User{}, err
	}

	var user User
	result := conn.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) UpdatePassword(ctx context.Context, id, hash string) error {
	conn, err := d.h.Conn(ctx)
	if err != nil {
		return err
	}

	result := conn.Model(&User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
