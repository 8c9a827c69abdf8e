package service

import (
	"context"
	"fmt"
	"time"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var (
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", apperr.ErrConflict)
	ErrDueBeforeStart    = fmt.Errorf("%w: due date is before the scheduled date", apperr.ErrInvalid)
)

type TemplateInput struct {
	Name              string   `json:"name" validate:"required,max=100"`
	Description       string   `json:"description"`
	Category          string   `json:"category" validate:"required,max=50"`
	EstimatedDuration int      `json:"estimated_duration" validate:"gte=0,lte=1440"`
	Priority          string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	IsSeasonal        bool     `json:"is_seasonal"`
	SeasonMonths      []int    `json:"season_months" validate:"dive,min=1,max=12"`
	ChecklistItems    []string `json:"checklist_items"`
	EquipmentNeeded   []string `json:"equipment_needed"`
	SuppliesNeeded    []string `json:"supplies_needed"`
	WeatherDependent  bool     `json:"weather_dependent"`
	MinTemperature    *int     `json:"min_temperature"`
	MaxTemperature    *int     `json:"max_temperature"`
	AvoidRain         bool     `json:"avoid_rain"`
	BestTimeOfDay     string   `json:"best_time_of_day" validate:"omitempty,oneof=morning midday afternoon evening any"`
}

// ScheduleInput creates one task and its assignments. With AssignToAll the
// task fans out to every active site; otherwise SiteIDs and HiveIDs are used.
type ScheduleInput struct {
	TemplateID         uint   `json:"template_id" validate:"required"`
	Title              string `json:"title" validate:"max=200"`
	Description        string `json:"description"`
	ScheduledDate      string `json:"scheduled_date" validate:"required"`
	DueDate            string `json:"due_date"`
	EstimatedDuration  int    `json:"estimated_duration" validate:"gte=0"`
	Priority           string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	IsRecurring        bool   `json:"is_recurring"`
	RecurrencePattern  string `json:"recurrence_pattern"`
	RecurrenceInterval int    `json:"recurrence_interval"`
	RecurrenceEndDate  string `json:"recurrence_end_date"`
	AssignToAll        bool   `json:"assign_to_all"`
	SiteIDs            []uint `json:"site_ids"`
	HiveIDs            []uint `json:"hive_ids"`
	Notes              string `json:"notes"`
}

// QuickInput schedules the next visit to one site: one task per template.
type QuickInput struct {
	SiteID        uint   `json:"site_id" validate:"required"`
	TemplateIDs   []uint `json:"template_ids" validate:"required,min=1"`
	ScheduledDate string `json:"scheduled_date"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Notes         string `json:"notes"`
}

type AssignmentPatch struct {
	Status            *entities.TaskStatus `json:"status" validate:"omitempty,oneof=in_progress completed skipped"`
	Notes             *string              `json:"notes"`
	EstimatedDuration *int                 `json:"estimated_duration" validate:"omitempty,gte=0"`
}

type TaskQuery struct {
	From, To string
	Status   string
}

// TaskView is a task as read at a given instant, with overdue derived.
type TaskView struct {
	entities.ScheduledTask
	EffectiveStatus entities.TaskStatus `json:"effective_status"`
	IsOverdue       bool                `json:"is_overdue"`
}

func ViewOf(t entities.ScheduledTask, now time.Time) TaskView {
	return TaskView{ScheduledTask: t, EffectiveStatus: t.EffectiveStatus(now), IsOverdue: t.IsOverdue(now)}
}

type CompleteResult struct {
	Task TaskView  `json:"task"`
	Next *TaskView `json:"next_task,omitempty"`
}

type NextOccurrence struct {
	HasNext  bool       `json:"has_next"`
	NextDate *time.Time `json:"next_date"`
}

type CalendarItem struct {
	ID       uint                `json:"id"`
	Title    string              `json:"title"`
	Start    time.Time           `json:"start"`
	End      *time.Time          `json:"end,omitempty"`
	Status   entities.TaskStatus `json:"status"`
	Priority string              `json:"priority"`
	Category string              `json:"category"`
	Sites    []string            `json:"sites"`
	Overdue  bool                `json:"overdue"`
}

type ScheduleService interface {
	ListTemplates(ctx context.Context, uid uint, category string) ([]entities.TaskTemplate, error)
	GetTemplate(ctx context.Context, uid, id uint) (*entities.TaskTemplate, error)
	CreateTemplate(ctx context.Context, uid uint, in TemplateInput) (*entities.TaskTemplate, error)
	UpdateTemplate(ctx context.Context, uid, id uint, in TemplateInput) (*entities.TaskTemplate, error)
	DeleteTemplate(ctx context.Context, uid, id uint) error
	Suggestions(ctx context.Context, uid uint) ([]entities.TaskTemplate, error)

	Schedule(ctx context.Context, uid uint, in ScheduleInput) (*TaskView, error)
	QuickSchedule(ctx context.Context, uid uint, in QuickInput) ([]TaskView, error)
	ListTasks(ctx context.Context, uid uint, q TaskQuery) ([]TaskView, error)
	GetTask(ctx context.Context, uid, id uint) (*TaskView, error)
	Start(ctx context.Context, uid, id uint) (*TaskView, error)
	Complete(ctx context.Context, uid, id uint) (*CompleteResult, error)
	Cancel(ctx context.Context, uid, id uint) (*TaskView, error)
	Next(ctx context.Context, uid, id uint) (*NextOccurrence, error)
	PatchAssignment(ctx context.Context, uid, id uint, p AssignmentPatch) (*entities.TaskAssignment, error)

	Calendar(ctx context.Context, uid uint, from, to string) ([]CalendarItem, error)
	// Upcoming lists open tasks scheduled from now on; it backs the iCalendar feed.
	Upcoming(ctx context.Context, uid uint) ([]entities.ScheduledTask, error)
}
