package repository

import (
	"context"

	"larsbees/entities"
)

type SiteRepository interface {
	Create(ctx context.Context, s *entities.Site) error
	Update(ctx context.Context, s *entities.Site) error
	Deactivate(ctx context.Context, id uint) error
	ListActive(ctx context.Context, uid uint) ([]entities.Site, error)
}
