package repository

import (
	"context"

	"larsbees/entities"
)

type HiveRepository interface {
	Create(ctx context.Context, h *entities.IndividualHive) error
	Update(ctx context.Context, h *entities.IndividualHive) error
	Deactivate(ctx context.Context, id uint) error
	ListBySite(ctx context.Context, siteID uint) ([]entities.IndividualHive, error)
	// ListOwned returns every active hive on the user's active sites.
	ListOwned(ctx context.Context, uid uint) ([]entities.IndividualHive, error)
}
