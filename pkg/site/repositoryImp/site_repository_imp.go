package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/access"
	"larsbees/pkg/site/repository"
)

type siteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SiteRepository { return &siteRepo{db} }

func (r *siteRepo) Create(ctx context.Context, s *entities.Site) error {
	return r.db.WithContext(ctx).Omit("User").Create(s).Error
}

func (r *siteRepo) Update(ctx context.Context, s *entities.Site) error {
	return r.db.WithContext(ctx).Omit("User").Save(s).Error
}

func (r *siteRepo) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entities.Site{}).Where("site_id = ?", id).
		Update("is_active", false).Error
}

func (r *siteRepo) ListActive(ctx context.Context, uid uint) ([]entities.Site, error) {
	var out []entities.Site
	err := r.db.WithContext(ctx).Scopes(access.ActiveSites(uid)).
		Order("sites.created_at desc, sites.site_id desc").Find(&out).Error
	return out, err
}
