package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/tasktype/repository"
)

type taskTypeRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskTypeRepository { return &taskTypeRepo{db} }

func (r *taskTypeRepo) ListActive(ctx context.Context) ([]entities.TaskType, error) {
	var out []entities.TaskType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("display_order asc, name asc").Find(&out).Error
	return out, err
}

func (r *taskTypeRepo) FindByID(ctx context.Context, id uint) (*entities.TaskType, error) {
	var tt entities.TaskType
	if err := r.db.WithContext(ctx).Where("task_type_id = ? AND is_active = ?", id, true).First(&tt).Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *taskTypeRepo) FindByIDs(ctx context.Context, ids []uint) ([]entities.TaskType, error) {
	var out []entities.TaskType
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("task_type_id IN ? AND is_active = ?", ids, true).Find(&out).Error
	return out, err
}
