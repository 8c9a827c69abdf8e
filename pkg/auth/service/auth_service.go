package service

import (
	"context"
	"fmt"
	"time"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	ErrDuplicateUser      = fmt.Errorf("%w: username or email already registered", apperr.ErrConflict)
	ErrInactiveUser       = fmt.Errorf("%w: account is not active", apperr.ErrForbidden)
)

type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=80"`
	Email     string `json:"email" validate:"required,email,max=120"`
	Password  string `json:"password" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type Session struct {
	User      *entities.User `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*entities.User, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	ParseToken(raw string) (uint, error)
	HashPassword(password string) (string, error)
}
