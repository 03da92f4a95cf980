package user

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/auth"
	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user_not_found", "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email_already_used", "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "inactive_user", "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email_required", "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password_too_short", "password is too short")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid_role", "invalid role")
)

// User is an account that can sign in. Staff and owner accounts belong to a
// salon; client accounts may exist without one (online self-booking).
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         auth.Role
	SalonID      *string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
