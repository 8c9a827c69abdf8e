package entities

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusSkipped    TaskStatus = "skipped" // assignments only
	StatusOverdue    TaskStatus = "overdue" // derived, never stored
)

func (s TaskStatus) Open() bool { return s == StatusPending || s == StatusInProgress }

type ScheduledTask struct {
	TaskID            uint       `gorm:"primaryKey" json:"task_id"`
	UserID            uint       `gorm:"index;not null" json:"user_id"`
	TemplateID        uint       `gorm:"index;not null" json:"template_id"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Description       string     `json:"description"`
	ScheduledDate     time.Time  `gorm:"index;not null" json:"scheduled_date"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration int        `json:"estimated_duration"`
	Status            TaskStatus `gorm:"size:20;default:pending;index" json:"status"`
	Priority          string     `gorm:"size:20;default:medium" json:"priority"` // low|medium|high|urgent

	IsRecurring        bool       `json:"is_recurring"`
	RecurrencePattern  string     `gorm:"size:20" json:"recurrence_pattern"` // daily|weekly|monthly|yearly
	RecurrenceInterval int        `gorm:"default:1" json:"recurrence_interval"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date"`
	ParentTaskID       *uint      `gorm:"index" json:"parent_task_id"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Template    *TaskTemplate    `json:"template,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	User        *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsOverdue is true when an open task's due date has passed.
func (t ScheduledTask) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status.Open() && now.After(*t.DueDate)
}

func (t ScheduledTask) EffectiveStatus(now time.Time) TaskStatus {
	if t.IsOverdue(now) {
		return StatusOverdue
	}
	return t.Status
}

// SiteNames lists the targets of a task by name; hives read "Site #number".
// Assignments must be loaded with their Site and Hive.Site.
func (t ScheduledTask) SiteNames() []string {
	out := []string{}
	for _, a := range t.Assignments {
		switch {
		case a.Site != nil:
			out = append(out, a.Site.Name)
		case a.Hive != nil && a.Hive.Site != nil:
			out = append(out, fmt.Sprintf("%s #%s", a.Hive.Site.Name, a.Hive.HiveNumber))
		case a.Hive != nil:
			out = append(out, "#"+a.Hive.HiveNumber)
		}
	}
	return out
}
