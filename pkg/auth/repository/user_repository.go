package repository

import (
	"context"

	"larsbees/entities"
)

type UserRepository interface {
	Create(ctx context.Context, u *entities.User) error
	Update(ctx context.Context, u *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByCalendarToken(ctx context.Context, token string) (*entities.User, error)
	// Taken reports whether username or email belongs to a user other than exceptID.
	Taken(ctx context.Context, username, email string, exceptID uint) (bool, error)
	List(ctx context.Context, search string) ([]entities.User, error)
}
