package entities

import (
	"encoding/json"
	"time"
)

// Target is what a TaskAssignment points at: a whole site or one hive.
type Target interface {
	Kind() string
	ID() uint
	isTarget()
}

type SiteTarget struct{ SiteID uint }

type HiveTarget struct{ HiveID uint }

func (t SiteTarget) Kind() string { return "site" }
func (t SiteTarget) ID() uint     { return t.SiteID }
func (SiteTarget) isTarget()      {}

func (t HiveTarget) Kind() string { return "individual_hive" }
func (t HiveTarget) ID() uint     { return t.HiveID }
func (HiveTarget) isTarget()      {}

// TaskAssignment stores its Target as two nullable foreign keys; the check
// constraint keeps exactly one of them set.
type TaskAssignment struct {
	AssignmentID      uint       `gorm:"primaryKey" json:"assignment_id"`
	TaskID            uint       `gorm:"index;not null" json:"task_id"`
	SiteID            *uint      `gorm:"index;check:chk_assignment_target,(site_id IS NULL) <> (hive_id IS NULL)" json:"-"`
	HiveID            *uint      `gorm:"index" json:"-"`
	Notes             string     `json:"notes"`
	EstimatedDuration *int       `json:"estimated_duration"`
	Status            TaskStatus `gorm:"size:20;default:pending" json:"status"`
	CompletedAt       *time.Time `json:"completed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Site *Site           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Hive *IndividualHive `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func NewAssignment(taskID uint, t Target) TaskAssignment {
	a := TaskAssignment{TaskID: taskID, Status: StatusPending}
	a.SetTarget(t)
	return a
}

// Target returns nil for a row that violates the one-of constraint.
func (a TaskAssignment) Target() Target {
	switch {
	case a.SiteID != nil && a.HiveID == nil:
		return SiteTarget{SiteID: *a.SiteID}
	case a.HiveID != nil && a.SiteID == nil:
		return HiveTarget{HiveID: *a.HiveID}
	}
	return nil
}

func (a *TaskAssignment) SetTarget(t Target) {
	a.SiteID, a.HiveID = nil, nil
	switch v := t.(type) {
	case SiteTarget:
		id := v.SiteID
		a.SiteID = &id
	case HiveTarget:
		id := v.HiveID
		a.HiveID = &id
	}
}

func (a TaskAssignment) MarshalJSON() ([]byte, error) {
	type plain TaskAssignment
	out := struct {
		plain
		TargetType string `json:"target_type"`
		TargetID   uint   `json:"target_id"`
	}{plain: plain(a)}
	if t := a.Target(); t != nil {
		out.TargetType, out.TargetID = t.Kind(), t.ID()
	}
	return json.Marshal(out)
}
