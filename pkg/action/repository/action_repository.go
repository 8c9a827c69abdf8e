package repository

import (
	"context"
	"time"

	"larsbees/entities"
)

type ListFilter struct {
	From, To        *time.Time
	SiteID          *uint
	IncludeArchived bool
}

type ActionRepository interface {
	Create(ctx context.Context, a *entities.HiveAction) error
	CreateBatch(ctx context.Context, list []entities.HiveAction) error
	Page(ctx context.Context, uid uint, archived bool, offset, limit int) ([]entities.HiveAction, int64, error)
	List(ctx context.Context, uid uint, f ListFilter) ([]entities.HiveAction, error)
	Recent(ctx context.Context, uid uint, limit int) ([]entities.HiveAction, error)
	SetArchived(ctx context.Context, id uint, archived bool) error
}
