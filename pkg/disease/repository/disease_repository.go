package repository

import (
	"context"
	"time"

	"larsbees/entities"
)

type ListFilter struct {
	From, To *time.Time
	SiteID   *uint
}

type DiseaseRepository interface {
	Create(ctx context.Context, d *entities.DiseaseReport) error
	Update(ctx context.Context, d *entities.DiseaseReport) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, uid uint, f ListFilter) ([]entities.DiseaseReport, error)
}
