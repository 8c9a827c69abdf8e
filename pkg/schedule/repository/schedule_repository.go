package repository

import (
	"context"
	"time"

	"larsbees/entities"
)

type TaskFilter struct {
	From, To *time.Time
	Status   entities.TaskStatus
	OpenOnly bool
}

type ScheduleRepository interface {
	ListTemplates(ctx context.Context, uid uint, category string) ([]entities.TaskTemplate, error)
	CreateTemplate(ctx context.Context, t *entities.TaskTemplate) error
	UpdateTemplate(ctx context.Context, t *entities.TaskTemplate) error
	DeactivateTemplate(ctx context.Context, id uint) error

	CreateTask(ctx context.Context, t *entities.ScheduledTask) error
	UpdateTask(ctx context.Context, t *entities.ScheduledTask) error
	ListTasks(ctx context.Context, uid uint, f TaskFilter) ([]entities.ScheduledTask, error)
	// ParentOf returns the parent id and scheduled date of a task.
	ParentOf(ctx context.Context, id uint) (parent *uint, scheduled time.Time, err error)

	CreateAssignments(ctx context.Context, list []entities.TaskAssignment) error
	UpdateAssignment(ctx context.Context, a *entities.TaskAssignment) error
	CompleteAssignments(ctx context.Context, taskID uint, at time.Time) (int64, error)
}
