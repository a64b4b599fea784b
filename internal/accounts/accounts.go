// Package accounts stores the users who sign in to keep calculation history.
package accounts

import (
	"context"
	"errors"
	"strings"

	"taxdesk-backend/internal/models"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Create for a duplicate email.
	ErrEmailTaken = errors.New("email already registered")
)

// Store persists users. Emails are compared case-insensitively.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
