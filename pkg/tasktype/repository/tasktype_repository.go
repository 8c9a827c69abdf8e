package repository

import (
	"context"

	"larsbees/entities"
)

type TaskTypeRepository interface {
	ListActive(ctx context.Context) ([]entities.TaskType, error)
	FindByID(ctx context.Context, id uint) (*entities.TaskType, error)
	// FindByIDs returns the active task types among ids; unknown ids are dropped.
	FindByIDs(ctx context.Context, ids []uint) ([]entities.TaskType, error)
}
