package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/action/repository"
)

type actionRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ActionRepository { return &actionRepo{db} }

func (r *actionRepo) Create(ctx context.Context, a *entities.HiveAction) error {
	return r.db.WithContext(ctx).Omit("Site", "Hive", "User", "TaskType").Create(a).Error
}

func (r *actionRepo) CreateBatch(ctx context.Context, list []entities.HiveAction) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Site", "Hive", "User", "TaskType").Create(&list).Error
}

func (r *actionRepo) Page(ctx context.Context, uid uint, archived bool, offset, limit int) ([]entities.HiveAction, int64, error) {
	q := r.db.WithContext(ctx).Model(&entities.HiveAction{}).Scopes(access.OwnedActions(uid))
	if !archived {
		q = q.Where("hive_actions.is_archived = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []entities.HiveAction
	err := q.Preload("Site").Preload("Hive").
		Order("hive_actions.action_date desc, hive_actions.action_id desc").
		Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *actionRepo) List(ctx context.Context, uid uint, f repository.ListFilter) ([]entities.HiveAction, error) {
	q := r.db.WithContext(ctx).Model(&entities.HiveAction{}).Scopes(access.OwnedActions(uid))
	if !f.IncludeArchived {
		q = q.Where("hive_actions.is_archived = ?", false)
	}
	if f.SiteID != nil {
		q = q.Where("hive_actions.site_id = ?", *f.SiteID)
	}
	if f.From != nil {
		q = q.Where("hive_actions.action_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("hive_actions.action_date <= ?", *f.To)
	}
	var out []entities.HiveAction
	err := q.Preload("Site").Preload("Hive").Preload("User").
		Order("hive_actions.action_date desc, hive_actions.action_id desc").Find(&out).Error
	return out, err
}

func (r *actionRepo) Recent(ctx context.Context, uid uint, limit int) ([]entities.HiveAction, error) {
	var out []entities.HiveAction
	err := r.db.WithContext(ctx).Scopes(access.OwnedActions(uid)).
		Where("hive_actions.is_archived = ?", false).
		Preload("Site").Order("hive_actions.action_date desc, hive_actions.action_id desc").
		Limit(limit).Find(&out).Error
	return out, err
}

func (r *actionRepo) SetArchived(ctx context.Context, id uint, archived bool) error {
	return r.db.WithContext(ctx).Model(&entities.HiveAction{}).
		Where("action_id = ?", id).Update("is_archived", archived).Error
}
