package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAction(t *testing.T) {
	cases := []struct {
		name, category string
		want           ActionKind
	}{
		{"Add Super", "maintenance", KindSuper},
		{"Remove Super", "maintenance", KindSuper},
		{"Requeen", "event", KindRequeen},
		{"Queen Check", "inspection", KindInspection},
		{"Queen Excluder", "maintenance", KindMaintenance},
		{"Dead colony removed", "", KindDeath},
		{"Hive death - starvation", "event", KindDeath},
		{"Varroa Treatment", "treatment", KindTreatment},
		{"Sugar Syrup Feeding", "feeding", KindFeeding},
		{"fed fondant", "", KindFeeding},
		{"Oxalic dribble", "", KindTreatment},
		{"Swarm Collection", "event", KindEvent},
		{"Chatted with landowner", "", KindOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyAction(tc.name, tc.category), tc.name)
	}
}

func TestNewHiveActionUsesTaskType(t *testing.T) {
	tt := &TaskType{TaskTypeID: 8, Name: "Varroa Treatment", Category: "treatment"}
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("NZST", 12*3600))
	a := NewHiveAction(1, 2, nil, tt, "ignored", at)
	assert.Equal(t, "Varroa Treatment", a.TaskName)
	assert.Equal(t, uint(8), *a.TaskTypeID)
	assert.Equal(t, KindTreatment, a.Kind)
	assert.Equal(t, time.UTC, a.ActionDate.Location())

	custom := NewHiveAction(1, 2, nil, nil, "Mowed around hives", at)
	assert.Nil(t, custom.TaskTypeID)
	assert.Equal(t, KindOther, custom.Kind)
}

func TestScheduledTaskOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	task := ScheduledTask{Status: StatusPending, DueDate: &due}
	assert.Equal(t, StatusOverdue, task.EffectiveStatus(now))

	task.Status = StatusCompleted
	assert.Equal(t, StatusCompleted, task.EffectiveStatus(now))

	task.Status, task.DueDate = StatusInProgress, nil
	assert.Equal(t, StatusInProgress, task.EffectiveStatus(now))
}

func TestAssignmentTarget(t *testing.T) {
	a := NewAssignment(3, HiveTarget{HiveID: 9})
	assert.Nil(t, a.SiteID)
	assert.Equal(t, HiveTarget{HiveID: 9}, a.Target())
	hb, err := a.MarshalJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(hb), `"target_type":"individual_hive"`)

	a.SetTarget(SiteTarget{SiteID: 4})
	assert.Nil(t, a.HiveID)
	assert.Equal(t, "site", a.Target().Kind())

	b, err := a.MarshalJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"target_type":"site"`)
	assert.Contains(t, string(b), `"target_id":4`)
}

func TestSiteWeightedStrength(t *testing.T) {
	s := Site{StrongHives: 4, MediumHives: 2, WeakHives: 4}
	assert.Equal(t, 6.0, s.WeightedStrength())
	assert.Equal(t, 10, s.TotalHives())
}

func TestScheduledTaskSiteNames(t *testing.T) {
	field := &Site{Name: "North Field"}
	task := ScheduledTask{Assignments: []TaskAssignment{
		{Site: field},
		{Hive: &IndividualHive{HiveNumber: "7", Site: field}},
		{Hive: &IndividualHive{HiveNumber: "9"}},
		{},
	}}
	assert.Equal(t, []string{"North Field", "North Field #7", "#9"}, task.SiteNames())
	assert.Empty(t, ScheduledTask{}.SiteNames())
}
