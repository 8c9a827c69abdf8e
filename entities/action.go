package entities

import (
	"strings"
	"time"
)

// ActionKind is the semantic class of a HiveAction, fixed when the action is written.
type ActionKind string

const (
	KindInspection  ActionKind = "inspection"
	KindFeeding     ActionKind = "feeding"
	KindTreatment   ActionKind = "treatment"
	KindHarvest     ActionKind = "harvest"
	KindMaintenance ActionKind = "maintenance"
	KindEvent       ActionKind = "event"
	KindSuper       ActionKind = "super"
	KindRequeen     ActionKind = "requeen"
	KindDeath       ActionKind = "death"
	KindOther       ActionKind = "other"
)

// Consumable reports whether actions of this kind use up supplies.
func (k ActionKind) Consumable() bool { return k == KindFeeding || k == KindTreatment }

type HiveAction struct {
	ActionID    uint       `gorm:"primaryKey" json:"action_id"`
	SiteID      uint       `gorm:"index;not null" json:"site_id"`
	HiveID      *uint      `gorm:"index" json:"individual_hive_id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	TaskTypeID  *uint      `json:"task_type_id"`
	TaskName    string     `gorm:"size:100;not null" json:"task_name"`
	Description string     `json:"description"`
	Kind        ActionKind `gorm:"size:20;index;default:other" json:"kind"`
	ActionDate  time.Time  `gorm:"index" json:"action_date"`
	IsArchived  bool       `gorm:"default:false;index" json:"is_archived"`
	CreatedAt   time.Time  `json:"created_at"`

	// belongs-to: gorm pairs each field with <Name>ID. Keep the key tags off,
	// a foreignKey tag makes it read the relation as has-one.
	Site     *Site           `gorm:"constraint:OnDelete:CASCADE" json:"site,omitempty"`
	Hive     *IndividualHive `gorm:"constraint:OnDelete:SET NULL" json:"hive,omitempty"`
	User     *User           `json:"-"`
	TaskType *TaskType       `json:"-"`
}

var kindKeywords = []struct {
	kind  ActionKind
	words []string
}{
	{KindFeeding, []string{"feed", "syrup", "pollen", "fondant", "sugar"}},
	{KindTreatment, []string{"treat", "varroa", "nosema", "oxalic", "formic", "thymol", "mite"}},
	{KindHarvest, []string{"harvest", "extract"}},
	{KindInspection, []string{"inspect", "check"}},
	{KindMaintenance, []string{"repair", "replace", "reducer", "excluder", "frame", "clean"}},
}

// ClassifyAction derives the ActionKind of an action from its name and the
// category of its task type (may be empty). Death, super and requeen win over
// the category; "Queen Excluder" and "Queen Check" are not requeening.
func ClassifyAction(taskName, category string) ActionKind {
	n := strings.ToLower(taskName)
	switch {
	case strings.Contains(n, "death") || strings.Contains(n, "dead"):
		return KindDeath
	case strings.Contains(n, "super"):
		return KindSuper
	case strings.Contains(n, "queen") && !strings.Contains(n, "excluder") && !strings.Contains(n, "check"):
		return KindRequeen
	}
	switch k := ActionKind(strings.ToLower(strings.TrimSpace(category))); k {
	case KindInspection, KindFeeding, KindTreatment, KindHarvest, KindMaintenance, KindEvent:
		return k
	}
	for _, kw := range kindKeywords {
		for _, w := range kw.words {
			if strings.Contains(n, w) {
				return kw.kind
			}
		}
	}
	return KindOther
}

// NewHiveAction builds an action from a catalog task type, or from
// customName when tt is nil, with its kind already classified.
func NewHiveAction(uid, siteID uint, hiveID *uint, tt *TaskType, customName string, at time.Time) HiveAction {
	a := HiveAction{SiteID: siteID, HiveID: hiveID, UserID: uid, TaskName: customName, ActionDate: at.UTC()}
	category := ""
	if tt != nil {
		id := tt.TaskTypeID
		a.TaskTypeID = &id
		a.TaskName = tt.Name
		category = tt.Category
	}
	a.Kind = ClassifyAction(a.TaskName, category)
	return a
}
