package service

import (
	"context"

	"larsbees/entities"
	"larsbees/pkg/report"
)

type Dashboard struct {
	TotalSites    int                   `json:"total_sites"`
	TotalHives    int                   `json:"total_hives"`
	RecentActions []entities.HiveAction `json:"recent_actions"`
	OpenTasks     int                   `json:"open_tasks"`
	OverdueTasks  int                   `json:"overdue_tasks"`
}

type ReportService interface {
	// Data builds the report for [from, to]; empty bounds default to the last
	// twelve months.
	Data(ctx context.Context, uid uint, from, to string) (*report.Report, error)
	Dashboard(ctx context.Context, uid uint) (*Dashboard, error)
}
