// Package auth provides authentication domain logic.
package auth

import (
	"context"
	"time"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/entity"
)

// User is an account that can log into the API.
type User struct {
	entity.BaseEntity

	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsAdmin      bool       `db:"is_admin" json:"isAdmin"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

// NewUser creates an active user; the password hash is set by the service.
func NewUser(email, name string) *User {
	return &User{
		BaseEntity: entity.NewBaseEntity(),
		Email:      email,
		Name:       name,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	return nil
}

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
