package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/schedule/repository"
)

type scheduleRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ScheduleRepository { return &scheduleRepo{db} }

func (r *scheduleRepo) ListTemplates(ctx context.Context, uid uint, category string) ([]entities.TaskTemplate, error) {
	q := r.db.WithContext(ctx).Scopes(access.VisibleTemplates(uid))
	if category != "" {
		q = q.Where("task_templates.category = ?", category)
	}
	var out []entities.TaskTemplate
	err := q.Order("task_templates.is_system_template desc, task_templates.name asc").Find(&out).Error
	return out, err
}

func (r *scheduleRepo) CreateTemplate(ctx context.Context, t *entities.TaskTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *scheduleRepo) UpdateTemplate(ctx context.Context, t *entities.TaskTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *scheduleRepo) DeactivateTemplate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entities.TaskTemplate{}).Where("template_id = ?", id).
		Update("is_active", false).Error
}

func (r *scheduleRepo) CreateTask(ctx context.Context, t *entities.ScheduledTask) error {
	return r.db.WithContext(ctx).Omit("Template", "Assignments", "User").Create(t).Error
}

func (r *scheduleRepo) UpdateTask(ctx context.Context, t *entities.ScheduledTask) error {
	return r.db.WithContext(ctx).Omit("Template", "Assignments", "User").Save(t).Error
}

func (r *scheduleRepo) ListTasks(ctx context.Context, uid uint, f repository.TaskFilter) ([]entities.ScheduledTask, error) {
	q := r.db.WithContext(ctx).Model(&entities.ScheduledTask{}).Scopes(access.OwnedTasks(uid))
	if f.From != nil {
		q = q.Where("scheduled_tasks.scheduled_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_tasks.scheduled_date <= ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("scheduled_tasks.status = ?", f.Status)
	}
	if f.OpenOnly {
		q = q.Where("scheduled_tasks.status IN ?", []entities.TaskStatus{entities.StatusPending, entities.StatusInProgress})
	}
	var out []entities.ScheduledTask
	err := q.Preload("Template").Preload("Assignments.Site").Preload("Assignments.Hive.Site").
		Order("scheduled_tasks.scheduled_date asc, scheduled_tasks.task_id asc").Find(&out).Error
	return out, err
}

func (r *scheduleRepo) ParentOf(ctx context.Context, id uint) (*uint, time.Time, error) {
	var t entities.ScheduledTask
	err := r.db.WithContext(ctx).Select("task_id", "parent_task_id", "scheduled_date").
		Where("task_id = ?", id).First(&t).Error
	return t.ParentTaskID, t.ScheduledDate, err
}

func (r *scheduleRepo) CreateAssignments(ctx context.Context, list []entities.TaskAssignment) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Site", "Hive").Create(&list).Error
}

func (r *scheduleRepo) UpdateAssignment(ctx context.Context, a *entities.TaskAssignment) error {
	return r.db.WithContext(ctx).Omit("Site", "Hive").Save(a).Error
}

func (r *scheduleRepo) CompleteAssignments(ctx context.Context, taskID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entities.TaskAssignment{}).Where("task_id = ?", taskID).
		Updates(map[string]any{"status": entities.StatusCompleted, "completed_at": at})
	return res.RowsAffected, res.Error
}
