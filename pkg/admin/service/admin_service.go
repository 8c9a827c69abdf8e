package service

import (
	"context"
	"fmt"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var ErrDeleteSelf = fmt.Errorf("%w: you cannot delete your own account", apperr.ErrInvalid)

type UserInput struct {
	Username       string `json:"username" validate:"required,min=3,max=80"`
	Email          string `json:"email" validate:"required,email,max=120"`
	Password       string `json:"password" validate:"omitempty,min=6"`
	Role           string `json:"role" validate:"omitempty,oneof=admin owner director staff contractor trial"`
	Status         string `json:"status" validate:"omitempty,oneof=active inactive suspended trial"`
	FirstName      string `json:"first_name" validate:"max=50"`
	LastName       string `json:"last_name" validate:"max=50"`
	Phone          string `json:"phone" validate:"max=20"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
	IsActive       *bool  `json:"is_active"`
	IsAdmin        bool   `json:"is_admin"`
	CanManageUsers bool   `json:"can_manage_users"`
}

type AdminService interface {
	List(ctx context.Context, search string) ([]entities.User, error)
	Get(ctx context.Context, id uint) (*entities.User, error)
	// Create requires a password; Update keeps the old one when it is empty.
	Create(ctx context.Context, in UserInput) (*entities.User, error)
	Update(ctx context.Context, id uint, in UserInput) (*entities.User, error)
	// Delete deactivates the account. actorID may not delete itself.
	Delete(ctx context.Context, actorID, id uint) error
}
