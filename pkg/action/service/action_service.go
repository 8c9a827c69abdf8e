package service

import (
	"context"
	"fmt"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var (
	ErrMissingFields = fmt.Errorf("%w: Missing required fields", apperr.ErrInvalid)
	ErrNoTaskName    = fmt.Errorf("%w: choose a task type or enter a custom task name", apperr.ErrInvalid)
	ErrUnknownTask   = fmt.Errorf("%w: unknown task type", apperr.ErrInvalid)
)

type LogInput struct {
	SiteID         uint   `json:"site_id" validate:"required"`
	HiveID         *uint  `json:"individual_hive_id"`
	TaskTypeID     *uint  `json:"task_type_id"`
	CustomTaskName string `json:"custom_task_name" validate:"max=100"`
	Description    string `json:"description"`
	ActionDate     string `json:"action_date"`
}

type QuickLogInput struct {
	TaskIDs    []uint `json:"task_ids"`
	SiteID     uint   `json:"site_id"`
	HiveID     *uint  `json:"individual_hive_id"`
	ActionDate string `json:"action_date"`
}

type QuickLogResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Actions []string `json:"actions"`
}

type Page struct {
	Items    []entities.HiveAction `json:"items"`
	Page     int                   `json:"page"`
	PerPage  int                   `json:"per_page"`
	Total    int64                 `json:"total"`
	Pages    int                   `json:"pages"`
	HasNext  bool                  `json:"has_next"`
	HasPrev  bool                  `json:"has_prev"`
	Archived bool                  `json:"show_archived"`
}

type ActionService interface {
	Log(ctx context.Context, uid uint, in LogInput) (*entities.HiveAction, error)
	// QuickLog writes one action per known task type id; unknown ids are skipped.
	QuickLog(ctx context.Context, uid uint, in QuickLogInput) (*QuickLogResult, error)
	List(ctx context.Context, uid uint, page int, archived bool) (*Page, error)
	ListBySite(ctx context.Context, uid, siteID uint) ([]entities.HiveAction, error)
	SetArchived(ctx context.Context, uid, id uint, archived bool) error
}
