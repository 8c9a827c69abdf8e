// Package access is the single place that scopes queries to the signed-in
// user. List queries use the scopes; single lookups go through Guard.
package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

// ErrNotFound covers both a missing row and a row owned by someone else.
var ErrNotFound = apperr.ErrNotFound

type Scope = func(*gorm.DB) *gorm.DB

func OwnedSites(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("sites.user_id = ?", uid) }
}

func ActiveSites(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("sites.user_id = ? AND sites.is_active = ?", uid, true)
	}
}

func OwnedHives(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("individual_hives.site_id IN (SELECT site_id FROM sites WHERE user_id = ? AND is_active = ?)", uid, true)
	}
}

func OwnedActions(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("hive_actions.user_id = ?", uid) }
}

func OwnedDiseaseReports(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("disease_reports.user_id = ?", uid) }
}

func OwnedTasks(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("scheduled_tasks.user_id = ?", uid) }
}

func OwnedAssignments(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("task_assignments.task_id IN (SELECT task_id FROM scheduled_tasks WHERE user_id = ?)", uid)
	}
}

// VisibleTemplates are the active system templates plus the user's own.
func VisibleTemplates(uid uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("task_templates.is_active = ? AND (task_templates.is_system_template = ? OR task_templates.user_id = ?)", true, true, uid)
	}
}

type Guard struct{ db *gorm.DB }

func NewGuard(db *gorm.DB) *Guard { return &Guard{db: db} }

// WithTx returns a Guard that reads inside tx.
func (g *Guard) WithTx(tx *gorm.DB) *Guard { return &Guard{db: tx} }

func (g *Guard) Site(ctx context.Context, uid, id uint) (*entities.Site, error) {
	var s entities.Site
	err := g.db.WithContext(ctx).Scopes(ActiveSites(uid)).Where("sites.site_id = ?", id).First(&s).Error
	return found(&s, err)
}

func (g *Guard) Hive(ctx context.Context, uid, id uint) (*entities.IndividualHive, error) {
	var h entities.IndividualHive
	err := g.db.WithContext(ctx).Scopes(OwnedHives(uid)).
		Where("individual_hives.hive_id = ? AND individual_hives.is_active = ?", id, true).
		Preload("Site").First(&h).Error
	return found(&h, err)
}

func (g *Guard) Action(ctx context.Context, uid, id uint) (*entities.HiveAction, error) {
	var a entities.HiveAction
	err := g.db.WithContext(ctx).Scopes(OwnedActions(uid)).Where("hive_actions.action_id = ?", id).First(&a).Error
	return found(&a, err)
}

func (g *Guard) DiseaseReport(ctx context.Context, uid, id uint) (*entities.DiseaseReport, error) {
	var d entities.DiseaseReport
	err := g.db.WithContext(ctx).Scopes(OwnedDiseaseReports(uid)).
		Where("disease_reports.report_id = ?", id).Preload("Site").First(&d).Error
	return found(&d, err)
}

func (g *Guard) ScheduledTask(ctx context.Context, uid, id uint) (*entities.ScheduledTask, error) {
	var t entities.ScheduledTask
	err := g.db.WithContext(ctx).Scopes(OwnedTasks(uid)).Where("scheduled_tasks.task_id = ?", id).
		Preload("Template").Preload("Assignments").First(&t).Error
	return found(&t, err)
}

func (g *Guard) Assignment(ctx context.Context, uid, id uint) (*entities.TaskAssignment, error) {
	var a entities.TaskAssignment
	err := g.db.WithContext(ctx).Scopes(OwnedAssignments(uid)).Where("task_assignments.assignment_id = ?", id).First(&a).Error
	return found(&a, err)
}

// Template finds a template the user may read and schedule from.
func (g *Guard) Template(ctx context.Context, uid, id uint) (*entities.TaskTemplate, error) {
	var t entities.TaskTemplate
	err := g.db.WithContext(ctx).Scopes(VisibleTemplates(uid)).Where("task_templates.template_id = ?", id).First(&t).Error
	return found(&t, err)
}

// OwnTemplate finds a template the user may edit. System templates are read-only.
func (g *Guard) OwnTemplate(ctx context.Context, uid, id uint) (*entities.TaskTemplate, error) {
	var t entities.TaskTemplate
	err := g.db.WithContext(ctx).
		Where("template_id = ? AND user_id = ? AND is_system_template = ? AND is_active = ?", id, uid, false, true).
		First(&t).Error
	return found(&t, err)
}

// Target resolves an assignment target, failing with ErrNotFound unless the
// user owns it.
func (g *Guard) Target(ctx context.Context, uid uint, t entities.Target) error {
	var err error
	switch v := t.(type) {
	case entities.SiteTarget:
		_, err = g.Site(ctx, uid, v.SiteID)
	case entities.HiveTarget:
		_, err = g.Hive(ctx, uid, v.HiveID)
	default:
		err = ErrNotFound
	}
	return err
}

func found[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
