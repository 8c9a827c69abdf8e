package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/disease/repository"
)

type diseaseRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DiseaseRepository { return &diseaseRepo{db} }

func (r *diseaseRepo) Create(ctx context.Context, d *entities.DiseaseReport) error {
	return r.db.WithContext(ctx).Omit("Site", "User").Create(d).Error
}

func (r *diseaseRepo) Update(ctx context.Context, d *entities.DiseaseReport) error {
	return r.db.WithContext(ctx).Omit("Site", "User").Save(d).Error
}

func (r *diseaseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entities.DiseaseReport{}, "report_id = ?", id).Error
}

func (r *diseaseRepo) List(ctx context.Context, uid uint, f repository.ListFilter) ([]entities.DiseaseReport, error) {
	q := r.db.WithContext(ctx).Model(&entities.DiseaseReport{}).Scopes(access.OwnedDiseaseReports(uid))
	if f.SiteID != nil {
		q = q.Where("disease_reports.site_id = ?", *f.SiteID)
	}
	if f.From != nil {
		q = q.Where("disease_reports.report_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("disease_reports.report_date <= ?", *f.To)
	}
	var out []entities.DiseaseReport
	err := q.Preload("Site").Preload("User").
		Order("disease_reports.report_date desc, disease_reports.report_id desc").Find(&out).Error
	return out, err
}
